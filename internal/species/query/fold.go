package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold makes substring matching case-insensitive. Casers are stateful, so
// each call builds its own.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// foldAccents also strips diacritics, so "amazonia" matches "Amazonía".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return fold(out)
}
