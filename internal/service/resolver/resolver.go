// Package resolver turns a piece of text into a TranslationResult by
// consulting the dictionary site, machine translation, the phonetic
// dictionary and the sentence corpus, and merging what they return.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/observe"
	"github.com/heartmarshall/quicktranslate/internal/provider"
)

// DefaultMaxSiteWords is the longest query, in words, sent to the
// dictionary site. Longer phrases go straight to machine translation.
const DefaultMaxSiteWords = 5

type siteProvider interface {
	Lookup(ctx context.Context, text, sourceLang, targetLang string) provider.SiteResult
}

type machineProvider interface {
	FetchTranslations(ctx context.Context, text, sourceLang, targetLang string) []string
}

type phoneticProvider interface {
	FetchEntry(ctx context.Context, word, sourceLang string) provider.PhoneticResult
}

type corpusProvider interface {
	SearchExamples(ctx context.Context, text, sourceLang, targetLang string) provider.CorpusResult
}

// PartialFunc receives the early, translation-only result.
type PartialFunc func(domain.TranslationResult)

// Options tune the Engine. Zero values use the defaults.
type Options struct {
	MaxSiteWords int
}

// Engine resolves translations. It is safe for concurrent use; each
// Resolve call owns its state.
type Engine struct {
	site     siteProvider
	machine  machineProvider
	phonetic phoneticProvider
	corpus   corpusProvider

	maxSiteWords int
	metrics      *observe.Metrics
	log          *slog.Logger
}

// NewEngine creates an Engine. metrics may be nil.
func NewEngine(
	logger *slog.Logger,
	site siteProvider,
	machine machineProvider,
	phonetic phoneticProvider,
	corpus corpusProvider,
	metrics *observe.Metrics,
	opts Options,
) *Engine {
	if opts.MaxSiteWords <= 0 {
		opts.MaxSiteWords = DefaultMaxSiteWords
	}
	return &Engine{
		site:         site,
		machine:      machine,
		phonetic:     phonetic,
		corpus:       corpus,
		maxSiteWords: opts.MaxSiteWords,
		metrics:      metrics,
		log:          logger.With("service", "resolver"),
	}
}

// Resolve looks text up and returns the composite result. Source failures
// only leave fields empty; an all-empty result means nothing was found.
//
// onPartial, when non-nil, is called at most once with a result holding only
// the translation, as soon as the translation is known. The call happens on
// another goroutine and always completes before Resolve returns.
func (e *Engine) Resolve(ctx context.Context, text, sourceLang, targetLang string, onPartial PartialFunc) domain.TranslationResult {
	normalized := domain.NormalizeText(text)
	if normalized == "" {
		return domain.TranslationResult{}
	}

	started := time.Now()
	defer func() { e.metrics.RecordResolve(ctx, time.Since(started)) }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	partial := newPartialSender(onPartial)
	defer partial.close()

	r := &resolution{
		engine:     e,
		text:       normalized,
		sourceLang: sourceLang,
		targetLang: targetLang,
		partial:    partial,
	}
	r.phoneticTask = newTask(func() provider.PhoneticResult {
		return e.phonetic.FetchEntry(ctx, normalized, sourceLang)
	})
	r.corpusTask = newTask(func() provider.CorpusResult {
		return e.corpus.SearchExamples(ctx, normalized, sourceLang, targetLang)
	})

	return r.run(ctx)
}
