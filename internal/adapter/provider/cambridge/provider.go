// Package cambridge looks words up on the Cambridge dictionary site, reading
// translations, UK pronunciation and example sentences from its HTML pages.
package cambridge

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/heartmarshall/quicktranslate/internal/adapter/fetch"
	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/merge"
	"github.com/heartmarshall/quicktranslate/internal/observe"
	"github.com/heartmarshall/quicktranslate/internal/provider"
)

const (
	// DefaultBaseURL is the site's direct search endpoint.
	DefaultBaseURL = "https://dictionary.cambridge.org/search/direct/"

	datasetGeneral = "english"
)

var errAllFetchesFailed = errors.New("cambridge: every page fetch failed")

// Provider is the dictionary site adapter.
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
		log:     logger.With("adapter", provider.NameDictionarySite),
	}
}

// Lookup queries the general and bilingual datasets for text. It never
// fails: fetch errors degrade to an empty, not-found result.
func (p *Provider) Lookup(ctx context.Context, text, sourceLang, targetLang string) provider.SiteResult {
	res, err := p.lookup(ctx, text, sourceLang, targetLang)
	switch {
	case err != nil:
		p.log.WarnContext(ctx, "lookup failed", slog.String("text", text), slog.String("error", err.Error()))
		p.metrics.RecordProviderRequest(ctx, provider.NameDictionarySite, observe.StatusError)
	case res.Found:
		p.metrics.RecordProviderRequest(ctx, provider.NameDictionarySite, observe.StatusOK)
	default:
		p.metrics.RecordProviderRequest(ctx, provider.NameDictionarySite, observe.StatusEmpty)
	}
	return res
}

func (p *Provider) lookup(ctx context.Context, text, sourceLang, targetLang string) (provider.SiteResult, error) {
	if !provider.IsEnglish(sourceLang) {
		return provider.SiteResult{}, nil
	}
	queries := buildQueries(text)
	if len(queries) == 0 {
		return provider.SiteResult{}, nil
	}
	bilingual, transLang := bilingualDataset(targetLang)

	var fallback *provider.SiteResult
	fetched := false
	for _, q := range queries {
		general, specific, ok := p.fetchPair(ctx, q, bilingual)
		if !ok {
			continue
		}
		fetched = true

		gen := parseOptional(general, "")
		bil := parseOptional(specific, transLang)

		res := provider.SiteResult{
			Translations: firstNonEmpty(bil.translations, gen.translations),
			Phonetic:     bil.phonetic,
			Examples:     merge.Rank(firstNonEmpty(bil.examples, gen.examples)),
		}
		if res.Phonetic == "" {
			res.Phonetic = gen.phonetic
		}
		res.Found = len(res.Translations) > 0
		if res.Found {
			return res, nil
		}
		if fallback == nil && (res.Phonetic != "" || len(res.Examples) > 0) {
			fallback = &res
		}
	}

	if fallback != nil {
		return *fallback, nil
	}
	if !fetched {
		return provider.SiteResult{}, errAllFetchesFailed
	}
	return provider.SiteResult{}, nil
}

// fetchPair fetches both dataset pages for one query concurrently.
// ok is false only when neither page could be fetched.
func (p *Provider) fetchPair(ctx context.Context, query, bilingual string) (general, specific *string, ok bool) {
	var g errgroup.Group
	g.Go(func() error {
		general = p.tryFetch(ctx, p.searchURL(datasetGeneral, query))
		return nil
	})
	if bilingual != "" {
		g.Go(func() error {
			specific = p.tryFetch(ctx, p.searchURL(bilingual, query))
			return nil
		})
	}
	_ = g.Wait()
	return general, specific, general != nil || specific != nil
}

func (p *Provider) tryFetch(ctx context.Context, u string) *string {
	body, err := p.fetcher.Fetch(ctx, u)
	if err != nil {
		p.log.DebugContext(ctx, "page fetch failed", slog.String("url", u), slog.String("error", err.Error()))
		return nil
	}
	return &body
}

func (p *Provider) searchURL(dataset, query string) string {
	return p.baseURL + "?datasetsearch=" + dataset + "&q=" + query
}

// buildQueries returns the form-encoded text and, when it differs, the slug.
func buildQueries(text string) []string {
	normalized := domain.NormalizeText(text)
	if normalized == "" {
		return nil
	}
	queries := []string{url.QueryEscape(normalized)}
	if slug := domain.Slugify(text); slug != "" && slug != queries[0] {
		queries = append(queries, slug)
	}
	return queries
}

// bilingualDatasets lists the site's bilingual datasets by target base
// language. Chinese is split by script below.
var bilingualDatasets = map[string]string{
	"ar": "english-arabic",
	"ca": "english-catalan",
	"cs": "english-czech",
	"da": "english-danish",
	"de": "english-german",
	"es": "english-spanish",
	"fr": "english-french",
	"hi": "english-hindi",
	"id": "english-indonesian",
	"it": "english-italian",
	"ja": "english-japanese",
	"ko": "english-korean",
	"ms": "english-malay",
	"nl": "english-dutch",
	"no": "english-norwegian",
	"pl": "english-polish",
	"pt": "english-portuguese",
	"ru": "english-russian",
	"sv": "english-swedish",
	"th": "english-thai",
	"tr": "english-turkish",
	"uk": "english-ukrainian",
	"vi": "english-vietnamese",
}

// bilingualDataset maps a target language to the site's dataset name
// ("ru" becomes "english-russian") and the lang attribute prefix of its
// translations. An English, unsupported or unparsable target has no
// bilingual dataset and the lookup uses the general one.
func bilingualDataset(targetLang string) (dataset, langPrefix string) {
	tag, err := language.Parse(targetLang)
	if err != nil {
		return "", ""
	}
	base, _ := tag.Base()
	if base.String() == "zh" {
		if script, _ := tag.Script(); script.String() == "Hant" {
			return "english-chinese-traditional", "zh"
		}
		return "english-chinese-simplified", "zh"
	}
	dataset, ok := bilingualDatasets[base.String()]
	if !ok {
		return "", ""
	}
	return dataset, base.String()
}

func parseOptional(body *string, translationLang string) page {
	if body == nil {
		return page{}
	}
	return parsePage(*body, translationLang)
}

func firstNonEmpty[T any](a, b []T) []T {
	if len(a) > 0 {
		return a
	}
	return b
}
