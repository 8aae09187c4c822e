package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxQueryChars bounds the length (in characters) of a normalized query.
const MaxQueryChars = 200

// NormalizeText prepares caller input for lookups and cache keys:
//   - collapses every whitespace run (spaces, tabs, newlines) into one space
//   - trims leading/trailing whitespace
//   - truncates to MaxQueryChars characters and trims again
//
// Case, diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= MaxQueryChars {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:MaxQueryChars]))
}

// NormalizeWhitespace collapses whitespace without the length cap.
// Used for scraped fragments, which may legitimately exceed MaxQueryChars.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Slugify builds the URL path form of a query: normalized, lowercased,
// spaces replaced with hyphens, then percent-encoded. Slashes are kept as
// path separators.
func Slugify(text string) string {
	slug := strings.ReplaceAll(strings.ToLower(NormalizeText(text)), " ", "-")
	segments := strings.Split(slug, "/")
	for i, seg := range segments {
		segments[i] = url.QueryEscape(seg)
	}
	return strings.Join(segments, "/")
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CacheKey builds the result-cache key for a lookup.
func CacheKey(text, sourceLang, targetLang string) string {
	return sourceLang + ":" + targetLang + ":" + NormalizeText(text)
}
