package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
	leadingArticle  = regexp.MustCompile(`^(the|a|an) `)
)

// Slugify converts a genre or tag to the keyword stored in the index.
// "Science Fiction" -> "science-fiction".
// "Sci-Fi/Fantasy" -> "sci-fi-fantasy".
// "Café Noir" -> "cafe-noir".
func Slugify(s string) string {
	s = foldASCII(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SortKey returns the key titles are sorted by: accents folded, lowercased,
// and without a leading English article.
// "The Final Empire" -> "final empire".
func SortKey(title string) string {
	s := strings.Join(strings.Fields(foldASCII(title)), " ")
	return leadingArticle.ReplaceAllString(s, "")
}

// foldASCII decomposes accented characters, drops everything outside ASCII
// and lowercases the result.
func foldASCII(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}
