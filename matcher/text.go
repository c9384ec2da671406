package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

func normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// terms splits text into word terms of at least two runes and drops stop words.
func terms(text string, stop map[string]struct{}) []string {
	words := strings.FieldsFunc(normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if _, ok := stop[w]; ok {
			continue
		}
		out = append(out, w)
	}
	return out
}

// words splits lower-cased text on whitespace. Punctuation stays attached, so
// "hi," is not the word "hi".
func words(text string) []string {
	return strings.Fields(normalize(text))
}

// containsRun reports whether needle occurs as a contiguous run in tokens.
func containsRun(tokens, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(tokens) {
		return false
	}
	for i := 0; i+len(needle) <= len(tokens); i++ {
		match := true
		for j := range needle {
			if tokens[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
