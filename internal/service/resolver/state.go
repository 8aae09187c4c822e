package resolver

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/merge"
	"github.com/heartmarshall/quicktranslate/internal/provider"
)

// resolution is the state of one Resolve call.
type resolution struct {
	engine     *Engine
	text       string
	sourceLang string
	targetLang string
	partial    *partialSender

	phoneticTask *task[provider.PhoneticResult]
	corpusTask   *task[provider.CorpusResult]

	translation string
	phonetic    string
	// siteExamples come from the dictionary site, found or not.
	siteExamples []domain.Example
}

func (r *resolution) run(ctx context.Context) domain.TranslationResult {
	log := r.engine.log

	if domain.CountWords(r.text) > r.engine.maxSiteWords {
		log.DebugContext(ctx, "phrase too long for dictionary site", slog.String("text", r.text))
		r.fallback(ctx)
		return r.supplement(ctx)
	}

	site := r.engine.site.Lookup(ctx, r.text, r.sourceLang, r.targetLang)
	r.phonetic = site.Phonetic
	r.siteExamples = site.Examples

	if site.Found {
		r.primary(ctx, site.Translations)
	} else {
		log.DebugContext(ctx, "dictionary site miss", slog.String("text", r.text))
		r.fallback(ctx)
	}
	return r.supplement(ctx)
}

// primary resolves the translation from dictionary site candidates. Machine
// translation is consulted only when the site offered nothing but meta
// candidates; both sources are then pooled.
func (r *resolution) primary(ctx context.Context, candidates []string) {
	nonMeta, _ := merge.Partition(candidates)
	if len(nonMeta) > 0 {
		r.translation = merge.Combine(nonMeta, merge.DefaultLimit)
	} else {
		mt := r.engine.machine.FetchTranslations(ctx, r.text, r.sourceLang, r.targetLang)
		r.translation = merge.Pooled(candidates, mt)
	}
	r.partial.send(r.translation)
}

// fallback queries machine translation while the phonetic dictionary and
// the corpus run alongside it.
func (r *resolution) fallback(ctx context.Context) {
	r.phoneticTask.start()
	r.corpusTask.start()

	mt := r.engine.machine.FetchTranslations(ctx, r.text, r.sourceLang, r.targetLang)
	r.translation = merge.Pooled(mt)
	r.partial.send(r.translation)
}

// supplement fills in the phonetic and the example, asking the phonetic
// dictionary and the corpus only for what is still missing.
func (r *resolution) supplement(ctx context.Context) domain.TranslationResult {
	siteExamples := merge.Rank(r.siteExamples)
	_, sitePaired := merge.FirstPaired(siteExamples)

	needPhonetic := r.phonetic == "" || len(siteExamples) == 0
	if needPhonetic {
		r.phoneticTask.start()
	}
	if !sitePaired {
		r.corpusTask.start()
	}

	var phoneticExamples []domain.Example
	if needPhonetic {
		ph := r.phoneticTask.wait()
		if r.phonetic == "" {
			r.phonetic = ph.Phonetic
		}
		phoneticExamples = merge.Rank(ph.Examples)
	}

	example, ok := merge.FirstPaired(siteExamples)
	if !ok {
		example, ok = merge.FirstPaired(merge.Rank(r.corpusTask.wait().Examples))
	}
	if !ok {
		example, ok = firstExample(siteExamples, phoneticExamples)
	}
	if ok && !example.IsPaired() {
		example.Target = domain.StringPtr(r.synthesizeTarget(ctx, example.Source))
	}

	res := domain.TranslationResult{
		Translation: domain.StringPtr(r.translation),
		Phonetic:    domain.StringPtr(r.phonetic),
	}
	if ok {
		res.ExampleSource = domain.StringPtr(example.Source)
		res.ExampleTarget = example.Target
	}
	return res
}

// synthesizeTarget machine-translates an example sentence and keeps the
// best single candidate.
func (r *resolution) synthesizeTarget(ctx context.Context, sentence string) string {
	candidates := r.engine.machine.FetchTranslations(ctx, sentence, r.sourceLang, r.targetLang)
	return merge.SelectPrimary(candidates)
}

func firstExample(groups ...[]domain.Example) (domain.Example, bool) {
	for _, g := range groups {
		if len(g) > 0 {
			return g[0], true
		}
	}
	return domain.Example{}, false
}
