package keywords

import (
	"regexp"
	"sort"
	"strings"
)

var (
	wordPattern      = regexp.MustCompile(`[a-zA-Z][a-zA-Z'\-]*`)
	phraseBoundaryRE = regexp.MustCompile(`[.!?,;:()\[\]"]`)
)

type phraseScore struct {
	phrase string
	score  float64
}

// rakePhrases extracts candidate key phrases by splitting the text on
// stop words and punctuation, then scoring each phrase with word
// degree/frequency ratios. Phrases are capped at maxWords words and
// must be at least minChars characters long.
func rakePhrases(text string, maxWords, minChars, limit int) []string {
	phrases := candidatePhrases(text, maxWords)
	if len(phrases) == 0 {
		return nil
	}

	freq := make(map[string]float64)
	degree := make(map[string]float64)
	for _, phrase := range phrases {
		words := strings.Fields(phrase)
		for _, w := range words {
			freq[w]++
			degree[w] += float64(len(words) - 1)
		}
	}
	for w := range degree {
		degree[w] += freq[w]
	}

	scored := make([]phraseScore, 0, len(phrases))
	seen := make(map[string]bool)
	for _, phrase := range phrases {
		if len(phrase) < minChars || seen[phrase] {
			continue
		}
		seen[phrase] = true
		var score float64
		for _, w := range strings.Fields(phrase) {
			score += degree[w] / freq[w]
		}
		scored = append(scored, phraseScore{phrase: phrase, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	out := make([]string, 0, limit)
	for _, s := range scored {
		if len(out) >= limit {
			break
		}
		out = append(out, s.phrase)
	}
	return out
}

// candidatePhrases builds contiguous runs of non-stop words, splitting
// at stop words and sentence punctuation.
func candidatePhrases(text string, maxWords int) []string {
	var phrases []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		if len(current) <= maxWords {
			phrases = append(phrases, strings.Join(current, " "))
		}
		current = nil
	}

	for _, sentence := range phraseBoundaryRE.Split(text, -1) {
		for _, raw := range wordPattern.FindAllString(sentence, -1) {
			word := strings.ToLower(raw)
			if isStopWord(word) {
				flush()
				continue
			}
			current = append(current, word)
		}
		flush()
	}
	return phrases
}
