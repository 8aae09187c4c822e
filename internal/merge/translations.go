// Package merge reconciles candidate strings and example sentences coming
// from several sources into a single answer.
package merge

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

const (
	// DefaultLimit is how many candidates Combine joins.
	DefaultLimit = 3
	// Separator joins combined candidates.
	Separator = "; "

	metaMaxWords = 8
	metaMaxChars = 80
)

// metaMarkers flag grammatical annotations ("plural of X", "от гл. ...")
// rather than usable translations. Matched against the case-folded candidate.
var metaMarkers = []string{
	"от гл.",
	"от сущ.",
	"от прил.",
	"от нареч.",
	"прич.",
	"прош. вр.",
	"форма",
	"аббр",
	"abbr",
	"сокр.",
	"past participle",
	"plural of",
	"указывает",
	"означает",
	"в сочетании",
	"передается",
	"выражает",
	"обозначает",
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Clean normalizes whitespace in every candidate, drops empties, and removes
// case-insensitive duplicates keeping the first occurrence.
func Clean(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		norm := domain.NormalizeWhitespace(c)
		if norm == "" {
			continue
		}
		key := fold(norm)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, norm)
	}
	return out
}

// IsMeta reports whether candidate reads like a grammatical annotation:
// too long to be a translation, or containing an annotation marker.
func IsMeta(candidate string) bool {
	norm := domain.NormalizeWhitespace(candidate)
	if domain.CountWords(norm) > metaMaxWords || utf8.RuneCountInString(norm) > metaMaxChars {
		return true
	}
	lowered := fold(norm)
	for _, m := range metaMarkers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}

// Partition cleans candidates and splits them into usable and meta groups,
// preserving order inside each group.
func Partition(candidates []string) (nonMeta, meta []string) {
	for _, c := range Clean(candidates) {
		if IsMeta(c) {
			meta = append(meta, c)
		} else {
			nonMeta = append(nonMeta, c)
		}
	}
	return nonMeta, meta
}

// Combine cleans candidates and joins at most limit of them.
// A non-positive limit means DefaultLimit. Returns "" when nothing remains.
func Combine(candidates []string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	cleaned := Clean(candidates)
	if len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return strings.Join(cleaned, Separator)
}

// SelectPrimary returns the first usable candidate, else the first meta one.
func SelectPrimary(candidates []string) string {
	nonMeta, meta := Partition(candidates)
	if len(nonMeta) > 0 {
		return nonMeta[0]
	}
	if len(meta) > 0 {
		return meta[0]
	}
	return ""
}

// Pooled resolves a translation from several sources consulted together.
// Usable candidates of every source are pooled first, in source order; only
// when none exists are meta candidates pooled the same way.
func Pooled(sources ...[]string) string {
	var nonMetaPool, metaPool []string
	for _, src := range sources {
		nonMeta, meta := Partition(src)
		nonMetaPool = append(nonMetaPool, nonMeta...)
		metaPool = append(metaPool, meta...)
	}
	if len(nonMetaPool) > 0 {
		return Combine(nonMetaPool, DefaultLimit)
	}
	return Combine(metaPool, DefaultLimit)
}
