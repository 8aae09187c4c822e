package merge

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

// Score rates how useful an example is to a reader. Higher is better.
func Score(e domain.Example) int {
	score := 0
	if e.IsPaired() {
		score += 4
	}
	switch n := utf8.RuneCountInString(e.Source); {
	case n >= 20 && n <= 120:
		score += 2
	case n < 10:
		score--
	case n > 160:
		score -= 2
	}
	if strings.Contains(e.Source, "...") || strings.Contains(e.Source, "…") {
		score--
	}
	return score
}

// Rank returns examples ordered by descending Score. Equal scores keep
// their original order. The input is not modified.
func Rank(examples []domain.Example) []domain.Example {
	ranked := slices.Clone(examples)
	slices.SortStableFunc(ranked, func(a, b domain.Example) int {
		return Score(b) - Score(a)
	})
	return ranked
}

// UniqueExamples drops repeated (source, target) pairs keeping the first.
func UniqueExamples(examples []domain.Example) []domain.Example {
	type key struct {
		source, target string
		paired         bool
	}
	seen := make(map[key]struct{}, len(examples))
	out := make([]domain.Example, 0, len(examples))
	for _, e := range examples {
		k := key{source: e.Source, target: domain.Deref(e.Target), paired: e.Target != nil}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// FirstPaired returns the first example carrying a target sentence.
func FirstPaired(examples []domain.Example) (domain.Example, bool) {
	for _, e := range examples {
		if e.IsPaired() {
			return e, true
		}
	}
	return domain.Example{}, false
}
