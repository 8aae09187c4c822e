// Package freedict reads pronunciations and example sentences from the
// FreeDictionary API (dictionaryapi.dev).
package freedict

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/heartmarshall/quicktranslate/internal/adapter/fetch"
	"github.com/heartmarshall/quicktranslate/internal/adapter/provider/payload"
	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/observe"
	"github.com/heartmarshall/quicktranslate/internal/provider"
)

// DefaultBaseURL is the English entries endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// ukMarkers are vowels that only appear in British transcriptions.
var ukMarkers = []string{"əʊ", "ɒ"}

// Provider is the phonetic/example adapter.
type Provider struct {
	fetcher fetch.Fetcher
	baseURL string
	metrics *observe.Metrics
	log     *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL means DefaultBaseURL.
func NewProvider(fetcher fetch.Fetcher, baseURL string, metrics *observe.Metrics, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: metrics,
		log:     logger.With("adapter", provider.NamePhonetic),
	}
}

// FetchEntry returns the preferred transcription and the definition
// examples for word. The dictionary only holds English entries, so any other
// source language is skipped. A missing word or any failure yields an empty
// result.
func (p *Provider) FetchEntry(ctx context.Context, word, sourceLang string) provider.PhoneticResult {
	res, err := p.fetchEntry(ctx, word, sourceLang)
	switch {
	case err != nil:
		p.log.WarnContext(ctx, "freedict lookup failed", slog.String("word", word), slog.String("error", err.Error()))
		p.metrics.RecordProviderRequest(ctx, provider.NamePhonetic, observe.StatusError)
	case res.Phonetic == "" && len(res.Examples) == 0:
		p.metrics.RecordProviderRequest(ctx, provider.NamePhonetic, observe.StatusEmpty)
	default:
		p.metrics.RecordProviderRequest(ctx, provider.NamePhonetic, observe.StatusOK)
	}
	return res
}

func (p *Provider) fetchEntry(ctx context.Context, word, sourceLang string) (provider.PhoneticResult, error) {
	if word == "" || !provider.IsEnglish(sourceLang) {
		return provider.PhoneticResult{}, nil
	}

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	body, err := p.fetcher.Fetch(ctx, p.baseURL+"/"+url.PathEscape(word))
	if err != nil {
		var fe *domain.FetchError
		if errors.As(err, &fe) && fe.Status == http.StatusNotFound {
			return provider.PhoneticResult{}, nil
		}
		return provider.PhoneticResult{}, err
	}

	v, err := payload.Decode(body)
	if err != nil {
		return provider.PhoneticResult{}, &domain.ParseError{Source: provider.NamePhonetic, Err: err}
	}
	return mapEntries(payload.Objects(v)), nil
}

// mapEntries merges every entry (one per etymology) of the response.
// Examples are deduplicated by normalized text.
func mapEntries(entries []map[string]any) provider.PhoneticResult {
	var transcriptions []string
	var result provider.PhoneticResult
	seen := make(map[string]struct{})

	for _, entry := range entries {
		for _, ph := range payload.Objects(entry["phonetics"]) {
			if text := payload.String(ph["text"]); text != "" {
				transcriptions = append(transcriptions, text)
			}
		}
		for _, meaning := range payload.Objects(entry["meanings"]) {
			for _, def := range payload.Objects(meaning["definitions"]) {
				example := domain.NormalizeWhitespace(payload.String(def["example"]))
				if example == "" {
					continue
				}
				if _, dup := seen[example]; dup {
					continue
				}
				seen[example] = struct{}{}
				result.Examples = append(result.Examples, domain.Example{Source: example})
			}
		}
	}

	result.Phonetic = selectTranscription(transcriptions)
	return result
}

// selectTranscription prefers a British transcription, else the first one.
func selectTranscription(candidates []string) string {
	for _, c := range candidates {
		for _, m := range ukMarkers {
			if strings.Contains(c, m) {
				return c
			}
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}
