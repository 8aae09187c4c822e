package translation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/service/resolver"
)

// Translate resolves input. Missing languages fall back to the configured
// defaults. A cached result is returned without a partial. Successful
// results are cached and recorded in history.
//
// onPartial may be nil. It is called at most once, with a translation-only
// result, before Translate returns.
func (s *Service) Translate(ctx context.Context, input TranslateInput, onPartial resolver.PartialFunc) (domain.TranslationResult, error) {
	if input.SourceLang == "" {
		input.SourceLang = s.cfg.DefaultSourceLang
	}
	if input.TargetLang == "" {
		input.TargetLang = s.cfg.DefaultTargetLang
	}
	if err := input.Validate(); err != nil {
		return domain.TranslationResult{}, err
	}

	normalized := domain.NormalizeText(input.Text)
	if normalized == "" {
		return domain.TranslationResult{}, nil
	}

	key := domain.CacheKey(normalized, input.SourceLang, input.TargetLang)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			s.metrics.RecordResultCache(ctx, true)
			s.log.DebugContext(ctx, "result cache hit", slog.String("key", key))
			return cached, nil
		}
		s.metrics.RecordResultCache(ctx, false)
	}

	ctx, release := s.register(ctx, input.Caller)
	defer release()

	var forward resolver.PartialFunc
	if onPartial != nil && s.cfg.PartialResults {
		forward = func(r domain.TranslationResult) {
			if r.HasTranslation() {
				onPartial(r)
			}
		}
	}

	result := s.engine.Resolve(ctx, normalized, input.SourceLang, input.TargetLang, forward)
	if err := ctx.Err(); err != nil {
		return domain.TranslationResult{}, fmt.Errorf("translation: %w", err)
	}

	if !result.HasTranslation() {
		return result, nil
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, result)
	}
	s.record(ctx, normalized, input, result)

	return result, nil
}

func (s *Service) record(ctx context.Context, text string, input TranslateInput, result domain.TranslationResult) {
	if s.history == nil {
		return
	}
	item := &domain.HistoryItem{
		ID:         uuid.New(),
		Text:       text,
		SourceLang: input.SourceLang,
		TargetLang: input.TargetLang,
		Result:     result,
		CreatedAt:  s.clock.Now().UTC(),
	}
	if err := s.history.Create(ctx, item); err != nil {
		s.log.WarnContext(ctx, "record history failed", slog.String("error", err.Error()))
	}
}
