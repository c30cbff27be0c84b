package segment

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Strategy is one way of splitting cleaned text into scene texts. Strategies
// are tried in order; the first to return a non-empty result wins, and the
// segmenter logs which one produced the output.
type Strategy interface {
	Name() string
	Split(ctx context.Context, text string) ([]string, error)
}

// ─────────────────────────────────────────────
// Sentence-greedy fallback
// ─────────────────────────────────────────────

// sentenceStrategy packs sentences greedily into scenes. The max length is a
// soft ceiling: while a scene is still under minLength, sentences keep being
// appended even past maxLength, to avoid emitting too-short scenes.
type sentenceStrategy struct {
	minLength int
	maxLength int
}

func (s *sentenceStrategy) Name() string { return "sentence" }

func (s *sentenceStrategy) Split(_ context.Context, text string) ([]string, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var scenes []string
	var current string

	for _, sentence := range sentences {
		if current != "" && len(current)+len(sentence) > s.maxLength {
			if len(current) >= s.minLength {
				scenes = append(scenes, strings.TrimSpace(current))
				current = sentence
			} else {
				current += " " + sentence
			}
		} else {
			if current != "" {
				current += " "
			}
			current += sentence
		}
	}
	// The final remainder is kept even when shorter than minLength — dropping
	// it would lose narration text.
	if strings.TrimSpace(current) != "" {
		scenes = append(scenes, strings.TrimSpace(current))
	}
	return scenes, nil
}

// ─────────────────────────────────────────────
// Paragraph-greedy fallback
// ─────────────────────────────────────────────

var paragraphRE = regexp.MustCompile(`\n\s*\n`)

// paragraphStrategy packs paragraphs the same way; paragraphs that overflow a
// scene past maxLength are re-split along sentence boundaries.
type paragraphStrategy struct {
	minLength int
	maxLength int
}

func (p *paragraphStrategy) Name() string { return "paragraph" }

func (p *paragraphStrategy) Split(ctx context.Context, text string) ([]string, error) {
	var paragraphs []string
	for _, para := range paragraphRE.Split(text, -1) {
		if t := strings.TrimSpace(para); t != "" {
			paragraphs = append(paragraphs, t)
		}
	}
	if len(paragraphs) == 0 {
		return nil, nil
	}

	inner := &sentenceStrategy{minLength: p.minLength, maxLength: p.maxLength}

	var scenes []string
	var current string

	for _, para := range paragraphs {
		if current != "" && len(current)+len(para) > p.maxLength {
			if len(current) >= p.minLength {
				scenes = append(scenes, strings.TrimSpace(current))
				current = para
			} else {
				split, err := inner.Split(ctx, current+" "+para)
				if err != nil {
					return nil, err
				}
				scenes = append(scenes, split...)
				current = ""
			}
		} else {
			if current != "" {
				current += " "
			}
			current += para
		}
	}
	if strings.TrimSpace(current) != "" {
		scenes = append(scenes, strings.TrimSpace(current))
	}
	return scenes, nil
}

// errSegmentCountMismatch marks a semantic split whose segment count did not
// match the request; the caller falls through to the next strategy.
var errSegmentCountMismatch = fmt.Errorf("semantic segment count mismatch")
