package keywords

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/types"
)

// Extractor derives search keywords, named entities and visual concepts
// from scene text. Phrase candidates come from co-occurrence scoring,
// single terms from part-of-speech tagging.
type Extractor struct {
	cfg config.KeywordsConfig
}

func New(cfg config.KeywordsConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Analysis holds everything extracted from one piece of scene text.
type Analysis struct {
	Keywords        []string
	PrimaryKeywords []string
	Entities        []string
	VisualConcepts  []string
}

// Analyze extracts the keyword sets for a single scene and returns them.
// A scene with no extractable keywords is valid; all slices may be empty.
func (e *Extractor) Analyze(text string) (*Analysis, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("tag scene text: %w", err)
	}

	var entities []string
	for _, ent := range doc.Entities() {
		switch ent.Label {
		case "PERSON", "GPE", "ORG":
			entities = append(entities, ent.Text)
		}
	}

	var nouns, adjectives []string
	for _, tok := range doc.Tokens() {
		switch tok.Tag {
		case "NN", "NNS", "NNP":
			nouns = append(nouns, tok.Text)
		case "JJ":
			adjectives = append(adjectives, tok.Text)
		}
	}

	phrases := rakePhrases(text, e.cfg.MaxPhraseWords, e.cfg.MinPhraseChars, e.cfg.MaxPhrases)

	merged := e.merge(phrases, entities, nouns)
	primary := e.rankPrimary(merged, text)

	return &Analysis{
		Keywords:        merged,
		PrimaryKeywords: primary,
		Entities:        dedupeLimit(entities, e.cfg.MaxEntities),
		VisualConcepts:  dedupeLimit(adjectives, e.cfg.MaxConcepts),
	}, nil
}

// AnnotateScenes runs Analyze over every scene in place. Extraction
// failures degrade to empty keyword sets rather than failing the stage.
func (e *Extractor) AnnotateScenes(scenes []*types.Scene) {
	for _, scene := range scenes {
		analysis, err := e.Analyze(scene.Text)
		if err != nil {
			log.Printf("[keywords] scene %d: extraction failed, continuing without keywords: %v", scene.ID, err)
			analysis = &Analysis{}
		}
		scene.Keywords = analysis.Keywords
		scene.PrimaryKeywords = analysis.PrimaryKeywords
		scene.Entities = analysis.Entities
		scene.VisualConcepts = analysis.VisualConcepts
	}
}

// merge combines phrase, entity and noun candidates in priority order,
// lowercased, deduplicated by first occurrence, length-filtered and capped.
func (e *Extractor) merge(groups ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range groups {
		for _, raw := range group {
			kw := strings.ToLower(strings.TrimSpace(raw))
			if len(kw) < e.cfg.MinKeywordChars || seen[kw] {
				continue
			}
			if isStopWord(kw) {
				continue
			}
			seen[kw] = true
			out = append(out, kw)
			if len(out) >= e.cfg.MaxKeywords {
				return out
			}
		}
	}
	return out
}

// rankPrimary scores merged keywords by frequency, position and length:
// earlier and more frequent terms score higher, longer terms get a small
// boost. Ties keep merge order.
func (e *Extractor) rankPrimary(merged []string, text string) []string {
	if len(merged) == 0 {
		return nil
	}
	lower := strings.ToLower(text)
	textLen := float64(len(lower))

	type ranked struct {
		keyword string
		score   float64
	}
	scores := make([]ranked, 0, len(merged))
	for _, kw := range merged {
		freq := float64(strings.Count(lower, kw))
		first := strings.Index(lower, kw)
		var positional float64
		if first >= 0 && textLen > 0 {
			positional = (textLen - float64(first)) / textLen
		}
		score := freq*2 + positional + float64(len(kw))/10
		scores = append(scores, ranked{keyword: kw, score: score})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	limit := e.cfg.MaxPrimary
	if limit > len(scores) {
		limit = len(scores)
	}
	out := make([]string, 0, limit)
	for _, r := range scores[:limit] {
		out = append(out, r.keyword)
	}
	return out
}

// dedupeLimit keeps the first occurrence of each item in original casing;
// only the dedupe key is folded.
func dedupeLimit(items []string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range items {
		item := strings.TrimSpace(raw)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}
	return out
}
