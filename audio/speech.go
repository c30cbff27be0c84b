package audio

import (
	"regexp"
	"strings"
)

// Spoken expansions for abbreviations the TTS engine would otherwise
// read letter by letter or mispronounce.
var abbreviations = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bdr\.`), "doctor"},
	{regexp.MustCompile(`(?i)\bmr\.`), "mister"},
	{regexp.MustCompile(`(?i)\bmrs\.`), "missus"},
	{regexp.MustCompile(`(?i)\bms\.`), "miss"},
	{regexp.MustCompile(`(?i)\betc\.`), "etcetera"},
	{regexp.MustCompile(`(?i)\bvs\.`), "versus"},
	{regexp.MustCompile(`(?i)\be\.g\.`), "for example"},
	{regexp.MustCompile(`(?i)\bi\.e\.`), "that is"},
	{regexp.MustCompile(`(?i)\bco\.`), "company"},
	{regexp.MustCompile(`(?i)\binc\.`), "incorporated"},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanForSpeech normalizes scene text for the TTS engine: abbreviations
// are expanded, symbols spoken out, whitespace collapsed, and a terminal
// period added when the text ends without sentence punctuation.
func CleanForSpeech(text string) string {
	out := text
	for _, abbr := range abbreviations {
		out = abbr.pattern.ReplaceAllString(out, abbr.replacement)
	}
	out = strings.ReplaceAll(out, "%", " percent")
	out = strings.ReplaceAll(out, "°", " degrees")
	out = strings.ReplaceAll(out, "&", " and ")
	out = whitespaceRun.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	if out != "" && !strings.ContainsAny(out[len(out)-1:], ".!?") {
		out += "."
	}
	return out
}
