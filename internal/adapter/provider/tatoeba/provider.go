// Package tatoeba searches the Tatoeba sentence corpus for example pairs.
package tatoeba

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"golang.org/x/text/language"

	"github.com/heartmarshall/quicktranslate/internal/adapter/fetch"
	"github.com/heartmarshall/quicktranslate/internal/adapter/provider/payload"
	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/merge"
	"github.com/heartmarshall/quicktranslate/internal/observe"
	"github.com/heartmarshall/quicktranslate/internal/provider"
)

const (
	// DefaultBaseURL is the sentence search endpoint.
	DefaultBaseURL = "https://api.tatoeba.org/unstable/sentences"
	// DefaultLimit caps the number of source sentences requested.
	DefaultLimit = 5
)

// Provider is the example corpus adapter.
type Provider struct {
	fetcher fetch.Fetcher
	baseURL string
	limit   int
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
		limit:   DefaultLimit,
		metrics: metrics,
		log:     logger.With("adapter", provider.NameCorpus),
	}
}

// SearchExamples returns distinct (source, target) sentence pairs that
// contain text. Any failure yields an empty result.
func (p *Provider) SearchExamples(ctx context.Context, text, sourceLang, targetLang string) provider.CorpusResult {
	res, err := p.searchExamples(ctx, text, sourceLang, targetLang)
	switch {
	case err != nil:
		p.log.WarnContext(ctx, "tatoeba search failed", slog.String("text", text), slog.String("error", err.Error()))
		p.metrics.RecordProviderRequest(ctx, provider.NameCorpus, observe.StatusError)
	case len(res.Examples) == 0:
		p.metrics.RecordProviderRequest(ctx, provider.NameCorpus, observe.StatusEmpty)
	default:
		p.metrics.RecordProviderRequest(ctx, provider.NameCorpus, observe.StatusOK)
	}
	return res
}

func (p *Provider) searchExamples(ctx context.Context, text, sourceLang, targetLang string) (provider.CorpusResult, error) {
	normalized := domain.NormalizeText(text)
	if normalized == "" {
		return provider.CorpusResult{}, nil
	}
	src, err := iso3(sourceLang)
	if err != nil {
		return provider.CorpusResult{}, err
	}
	tgt, err := iso3(targetLang)
	if err != nil {
		return provider.CorpusResult{}, err
	}

	body, err := p.fetcher.Fetch(ctx, p.buildURL(normalized, src, tgt))
	if err != nil {
		return provider.CorpusResult{}, err
	}
	examples, err := parseResponse(body, src, tgt)
	if err != nil {
		return provider.CorpusResult{}, err
	}
	return provider.CorpusResult{Examples: examples}, nil
}

func (p *Provider) buildURL(text, src, tgt string) string {
	return p.baseURL +
		"?lang=" + src +
		"&q=" + url.QueryEscape(text) +
		"&trans:lang=" + tgt +
		"&showtrans:lang=" + tgt +
		"&showtrans:is_direct=yes" +
		"&sort=relevance" +
		"&limit=" + strconv.Itoa(p.limit)
}

// iso3 maps a BCP 47 tag ("en", "ru-RU") to the corpus's ISO 639-3 code.
func iso3(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("tatoeba: language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	return base.ISO3(), nil
}

func parseResponse(body, src, tgt string) ([]domain.Example, error) {
	v, err := payload.Decode(body)
	if err != nil {
		return nil, &domain.ParseError{Source: provider.NameCorpus, Err: err}
	}
	root, ok := payload.Object(v)
	if !ok {
		return nil, nil
	}

	var examples []domain.Example
	for _, item := range payload.Objects(root["data"]) {
		if payload.String(item["lang"]) != src {
			continue
		}
		source := domain.NormalizeWhitespace(payload.String(item["text"]))
		if source == "" {
			continue
		}
		for _, tr := range translations(item["translations"]) {
			target := domain.NormalizeWhitespace(payload.String(tr["text"]))
			if target == "" || payload.String(tr["lang"]) != tgt {
				continue
			}
			// A missing flag counts as direct.
			if direct, ok := payload.Bool(tr["is_direct"]); ok && !direct {
				continue
			}
			examples = append(examples, domain.Example{Source: source, Target: &target})
		}
	}
	return merge.UniqueExamples(examples), nil
}

// translations accepts a flat list of translation objects or a list of
// groups of them.
func translations(v any) []map[string]any {
	var out []map[string]any
	for _, item := range payload.List(v) {
		if m, ok := payload.Object(item); ok {
			out = append(out, m)
			continue
		}
		out = append(out, payload.Objects(item)...)
	}
	return out
}
