package models

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ExcerptLength is the maximum length, in characters, of a derived excerpt.
const ExcerptLength = 500

const excerptSuffix = "..."

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a name or title into a URL-safe slug.
// "Web Development" -> "web-development", "Crème Brûlée!" -> "creme-brulee".
func Slugify(s string) string {
	s = norm.NFKD.String(s)

	// Drop the combining marks left behind by decomposition along with any
	// other non-ASCII rune.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// DeriveExcerpt returns content unchanged when it fits in ExcerptLength
// characters, otherwise the first 497 characters followed by "...".
func DeriveExcerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:ExcerptLength-len(excerptSuffix)]) + excerptSuffix
}
