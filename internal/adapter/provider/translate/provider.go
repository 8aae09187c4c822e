// Package translate is the machine translation adapter. It reads dictionary
// terms, alternative translations and sentence translations from the public
// Google Translate JSON endpoint.
package translate

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/heartmarshall/quicktranslate/internal/adapter/fetch"
	"github.com/heartmarshall/quicktranslate/internal/adapter/provider/payload"
	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/merge"
	"github.com/heartmarshall/quicktranslate/internal/observe"
	"github.com/heartmarshall/quicktranslate/internal/provider"
)

// DefaultBaseURL is the public translate endpoint.
const DefaultBaseURL = "https://translate.googleapis.com/translate_a/single"

// Requested output kinds: dictionary, examples, language detection,
// definitions, related words, romanization, synonyms, translation,
// alternatives, gender, spelling correction.
var dtParams = []string{"bd", "ex", "ld", "md", "rw", "rm", "ss", "t", "at", "gt", "qca"}

// alternative fields in preference order.
var alternativeKeys = []string{"word_postproc", "word", "text"}

// Provider is the machine translation adapter.
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
		baseURL: baseURL,
		metrics: metrics,
		log:     logger.With("adapter", provider.NameMachine),
	}
}

// FetchTranslations returns cleaned candidate translations of text in
// priority order. Any failure yields an empty list.
func (p *Provider) FetchTranslations(ctx context.Context, text, sourceLang, targetLang string) []string {
	candidates, err := p.fetchTranslations(ctx, text, sourceLang, targetLang)
	switch {
	case err != nil:
		p.log.WarnContext(ctx, "translate failed", slog.String("text", text), slog.String("error", err.Error()))
		p.metrics.RecordProviderRequest(ctx, provider.NameMachine, observe.StatusError)
		return nil
	case len(candidates) == 0:
		p.metrics.RecordProviderRequest(ctx, provider.NameMachine, observe.StatusEmpty)
	default:
		p.metrics.RecordProviderRequest(ctx, provider.NameMachine, observe.StatusOK)
	}
	return candidates
}

func (p *Provider) fetchTranslations(ctx context.Context, text, sourceLang, targetLang string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	body, err := p.fetcher.Fetch(ctx, p.buildURL(text, sourceLang, targetLang))
	if err != nil {
		return nil, err
	}
	return parseResponse(body)
}

func (p *Provider) buildURL(text, sourceLang, targetLang string) string {
	var b strings.Builder
	b.WriteString(p.baseURL)
	b.WriteString("?client=gtx&dj=1&ie=UTF-8&sl=")
	b.WriteString(url.QueryEscape(sourceLang))
	b.WriteString("&tl=")
	b.WriteString(url.QueryEscape(targetLang))
	for _, dt := range dtParams {
		b.WriteString("&dt=")
		b.WriteString(dt)
	}
	b.WriteString("&q=")
	b.WriteString(url.QueryEscape(text))
	return b.String()
}

func parseResponse(body string) ([]string, error) {
	v, err := payload.Decode(body)
	if err != nil {
		return nil, &domain.ParseError{Source: provider.NameMachine, Err: err}
	}
	root, ok := payload.Object(v)
	if !ok {
		return nil, nil
	}

	var candidates []string
	candidates = append(candidates, dictTerms(root)...)
	candidates = append(candidates, alternatives(root)...)
	candidates = append(candidates, sentences(root)...)
	return merge.Clean(candidates), nil
}

// dictTerms reads dict[].terms[], grouped by part of speech.
func dictTerms(root map[string]any) []string {
	var out []string
	for _, group := range payload.Objects(root["dict"]) {
		for _, term := range payload.List(group["terms"]) {
			if s := payload.String(term); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// alternatives reads alternative_translations[].alternative_translations[].
func alternatives(root map[string]any) []string {
	var out []string
	for _, item := range payload.Objects(root["alternative_translations"]) {
		for _, alt := range payload.Objects(item["alternative_translations"]) {
			for _, key := range alternativeKeys {
				if s := payload.String(alt[key]); s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}

// sentences reads sentences[].trans.
func sentences(root map[string]any) []string {
	var out []string
	for _, s := range payload.Objects(root["sentences"]) {
		if t := payload.String(s["trans"]); t != "" {
			out = append(out, t)
		}
	}
	return out
}
