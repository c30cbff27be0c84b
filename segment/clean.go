package segment

import (
	"regexp"
	"strings"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	// Everything outside word characters, whitespace and basic sentence
	// punctuation is stripped before segmentation.
	unsupportedRE = regexp.MustCompile(`[^\w\s.,!?;:()\-"']`)
)

// Clean normalizes whitespace and strips unsupported punctuation.
func Clean(text string) string {
	text = unsupportedRE.ReplaceAllString(text, "")
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// sentence boundary: run of non-terminators followed by one or more
// terminators and optional closing quotes, or a trailing fragment.
var sentenceRE = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*|[^.!?]+$`)

// SplitSentences tokenizes text into trimmed sentences.
func SplitSentences(text string) []string {
	var out []string
	for _, m := range sentenceRE.FindAllString(text, -1) {
		if s := strings.TrimSpace(m); s != "" {
			out = append(out, s)
		}
	}
	return out
}
