package provider

import "github.com/heartmarshall/quicktranslate/internal/domain"

// Provider names, used as log and metric labels.
const (
	NameDictionarySite = "cambridge"
	NameMachine        = "google"
	NamePhonetic       = "dictionaryapi"
	NameCorpus         = "tatoeba"
)

// SiteResult is the outcome of a bilingual dictionary site lookup.
// Found is true iff Translations is non-empty; Phonetic and Examples may be
// set on a miss and still supplement the final answer.
type SiteResult struct {
	Found        bool
	Translations []string
	Phonetic     string
	Examples     []domain.Example
}

// PhoneticResult is the outcome of a phonetic/definitions dictionary lookup.
// Examples are source-language only.
type PhoneticResult struct {
	Phonetic string
	Examples []domain.Example
}

// CorpusResult is the outcome of a sentence corpus search. Every example is paired.
type CorpusResult struct {
	Examples []domain.Example
}
