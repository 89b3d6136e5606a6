// Package titles cleans YouTube episode titles for display in the list panel.
package titles

import (
	"regexp"
	"strings"
	"unicode"
)

// episodeRe matches an episode marker, including the parentheses FilterTitle
// itself adds so a second pass finds and rewrites the same marker.
var episodeRe = regexp.MustCompile(`(?i)\(?odc\.\s*(\d+)\)?`)

// FilterTitle drops shouted (all-caps) words, moves the episode marker to
// the end as "(odc. N)" and strips double quotes. Every "odc. N" in the
// title is removed and only the first number is kept, so the result carries
// exactly one marker.
func FilterTitle(title string) string {
	result := dropShouted(strings.ReplaceAll(title, `"`, ""))

	m := episodeRe.FindStringSubmatch(result)
	if m == nil {
		return result
	}

	// Cutting a marker out can leave a shouted prefix it was glued to.
	result = dropShouted(episodeRe.ReplaceAllString(result, " "))
	if result == "" {
		return "(odc. " + m[1] + ")"
	}
	return result + " (odc. " + m[1] + ")"
}

func dropShouted(s string) string {
	var kept []string
	for _, word := range strings.Fields(s) {
		if isShouted(word) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// isShouted reports whether word has letters and none of them lower-case.
// Words without letters (episode numbers, dashes) are never shouted.
func isShouted(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
