// Package textnorm holds the string normalisation shared by the importer, the logo matcher
// and the public filters.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	turkishFolder = strings.NewReplacer(
		"ç", "c", "Ç", "C",
		"ğ", "g", "Ğ", "G",
		"ı", "i", "İ", "I",
		"ö", "o", "Ö", "O",
		"ş", "s", "Ş", "S",
		"ü", "u", "Ü", "U",
	)
	// Everything outside [a-z0-9\s-] after lowercasing.
	slugDisallowedRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRunRe  = regexp.MustCompile(`\s+`)
)

// FoldTurkish replaces Turkish letters with their closest unaccented Latin letter.
func FoldTurkish(s string) string {
	return turkishFolder.Replace(s)
}

// Slugify derives the URL identifier of a display name.
//
//	"Çöl Mağaza"   → "col-magaza"
//	"H&M"          → "hm"
//	"Big  Chefs"   → "big-chefs"
//
// The result is stable for a given name; stores rely on it for duplicate detection through the
// unique slug index.
func Slugify(name string) string {
	s := strings.ToLower(FoldTurkish(name))
	s = slugDisallowedRe.ReplaceAllString(s, "")
	return whitespaceRunRe.ReplaceAllString(s, "-")
}

// ComparisonKey normalises an uploaded file name for matching: lowercased, extension removed,
// hyphens and underscores turned into spaces.
func ComparisonKey(filename string) string {
	s := strings.ToLower(filename)
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[:i]
	}
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}

// FoldCase returns the Unicode case-folded form of s for case-insensitive comparisons.
func FoldCase(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
