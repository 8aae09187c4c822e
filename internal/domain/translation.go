package domain

import (
	"time"

	"github.com/google/uuid"
)

// TranslationResult is the composite answer for one lookup.
// A result with every field nil means "nothing found"; it is not an error.
type TranslationResult struct {
	Translation   *string `json:"translation"`
	Phonetic      *string `json:"phonetic"`
	ExampleSource *string `json:"example_source"`
	ExampleTarget *string `json:"example_target"`
}

// IsEmpty reports whether no field was resolved.
func (r TranslationResult) IsEmpty() bool {
	return r.Translation == nil && r.Phonetic == nil && r.ExampleSource == nil && r.ExampleTarget == nil
}

// HasTranslation reports whether the primary translation was resolved.
func (r TranslationResult) HasTranslation() bool {
	return r.Translation != nil && *r.Translation != ""
}

// Example is a sentence pair. Target is nil when only a source-language sentence is known.
type Example struct {
	Source string
	Target *string
}

// IsPaired reports whether both sides of the example are present.
func (e Example) IsPaired() bool {
	return e.Target != nil && *e.Target != ""
}

// HistoryItem is one recorded lookup.
type HistoryItem struct {
	ID         uuid.UUID
	Text       string
	SourceLang string
	TargetLang string
	Result     TranslationResult
	CreatedAt  time.Time
}

// StringPtr returns nil for an empty string, else a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
