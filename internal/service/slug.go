package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 100

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	nonSlugRunes = regexp.MustCompile(`[^a-z0-9]+`)
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify derives a URL-safe slug from title: accents are stripped, runs
// of other characters become single dashes.
func Slugify(title string) string {
	s, _, err := transform.String(stripAccents, title)
	if err != nil {
		s = title
	}
	s = nonSlugRunes.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// ValidSlug reports whether s is a well-formed slug.
func ValidSlug(s string) bool {
	return len(s) <= maxSlugLength && slugPattern.MatchString(s)
}
