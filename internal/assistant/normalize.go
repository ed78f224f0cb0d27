package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// stripDiacritics removes combining accent marks ("revisión" -> "revision").
func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeText lowercases, strips accents and collapses whitespace. All
// keyword and date/time matching runs against this form.
func normalizeText(s string) string {
	s = stripDiacritics(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// titleCaseName capitalizes each word of a name and lowercases the rest
// ("maria LOPEZ" -> "Maria Lopez").
func titleCaseName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
