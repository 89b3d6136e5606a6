package slug

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// combining diacritical marks block only; letters like ł have no
// decomposition and fall through to the separator rule.
var stripMarks = runes.Remove(runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036f
}))

// Make converts a display string into a URL slug.
func Make(s string) string {
	t := transform.Chain(norm.NFD, stripMarks)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	out = nonAlnum.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// Country returns the slug used for country pages.
func Country(name string) string { return Make(name) }

// Place returns the slug used for place links.
func Place(name string) string { return Make(name) }
