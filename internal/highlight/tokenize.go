// Package highlight annotates free text against a keyword-density table.
//
// Rendering is two passes: Tokenize splits text into alternating whitespace
// and non-whitespace runs, then Render normalizes every word run and looks
// it up in the table. Concatenating the segment texts always gives back the
// original input.
package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Run is a maximal stretch of either whitespace or non-whitespace runes.
type Run struct {
	Text  string
	Space bool
}

// Tokenize splits text into runs, keeping whitespace (newlines included)
// exactly as it appears.
func Tokenize(text string) []Run {
	var runs []Run
	start := 0
	for start < len(text) {
		r, _ := utf8.DecodeRuneInString(text[start:])
		space := unicode.IsSpace(r)
		end := start
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if unicode.IsSpace(r) != space {
				break
			}
			end += size
		}
		runs = append(runs, Run{Text: text[start:end], Space: space})
		start = end
	}
	return runs
}

// Normalize lower-cases a token and strips every rune that is not a
// letter, digit or underscore. It is the lookup key for a word run.
func Normalize(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range strings.ToLower(token) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
