package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/quicktranslate/internal/adapter/fetch"
	"github.com/heartmarshall/quicktranslate/internal/adapter/postgres"
	"github.com/heartmarshall/quicktranslate/internal/adapter/postgres/history"
	"github.com/heartmarshall/quicktranslate/internal/adapter/provider/cambridge"
	"github.com/heartmarshall/quicktranslate/internal/adapter/provider/freedict"
	"github.com/heartmarshall/quicktranslate/internal/adapter/provider/tatoeba"
	"github.com/heartmarshall/quicktranslate/internal/adapter/provider/translate"
	"github.com/heartmarshall/quicktranslate/internal/adapter/resultcache"
	"github.com/heartmarshall/quicktranslate/internal/config"
	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/observe"
	"github.com/heartmarshall/quicktranslate/internal/service/resolver"
	"github.com/heartmarshall/quicktranslate/internal/service/translation"
	"github.com/heartmarshall/quicktranslate/internal/transport/rest"
)

type resultStore interface {
	Get(ctx context.Context, key string) (domain.TranslationResult, bool)
	Set(ctx context.Context, key string, result domain.TranslationResult)
}

type historyStore interface {
	Create(ctx context.Context, item *domain.HistoryItem) error
	ListRecent(ctx context.Context, limit int) ([]domain.HistoryItem, error)
}

// Stack is the assembled translation pipeline and its optional backends.
type Stack struct {
	Service *translation.Service
	// MetricsHandler is nil when metrics are disabled.
	MetricsHandler http.Handler
	// Components are the backends checked by the readiness probe.
	Components map[string]rest.Pinger

	closers []func(context.Context) error
	log     *slog.Logger
}

// Options tweak NewStack.
type Options struct {
	// HTTPClient is used for every outbound source request. Nil means a default client.
	HTTPClient *http.Client
	Clock      clockwork.Clock
}

// NewStack wires sources, caches, the resolver and the translation service
// from cfg. Redis and PostgreSQL are only connected when configured. On
// error everything opened so far is closed.
func NewStack(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (_ *Stack, err error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	s := &Stack{
		Components: make(map[string]rest.Pinger),
		log:        logger,
	}
	defer func() {
		if err != nil {
			s.Close(context.Background())
		}
	}()

	var metrics *observe.Metrics
	if cfg.Metrics.Enabled {
		m, handler, shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
			ServiceName:    "quicktranslate",
			ServiceVersion: Version,
		})
		if err != nil {
			return nil, fmt.Errorf("init metrics: %w", err)
		}
		metrics, s.MetricsHandler = m, handler
		s.closers = append(s.closers, shutdown)
	}

	fetcher := fetch.NewCached(
		fetch.NewHTTPFetcher(opts.HTTPClient, fetch.Options{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.Fetch.Timeout,
			Retry:     cfg.Fetch.Retry,
		}, logger),
		fetch.NewCache(cfg.Fetch.CacheMaxEntries, cfg.Fetch.CacheTTL, opts.Clock),
		metrics,
	)

	engine := resolver.NewEngine(
		logger,
		cambridge.NewProvider(fetcher, cfg.Providers.DictionarySiteURL, metrics, logger),
		translate.NewProvider(fetcher, cfg.Providers.MachineURL, metrics, logger),
		freedict.NewProvider(fetcher, cfg.Providers.PhoneticURL, metrics, logger),
		tatoeba.NewProvider(fetcher, cfg.Providers.CorpusURL, metrics, logger),
		metrics,
		resolver.Options{MaxSiteWords: cfg.Translate.MaxSiteWords},
	)

	var cache resultStore
	if cfg.Redis.Enabled() {
		client := resultcache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		rc := resultcache.NewRedis(client, cfg.ResultCache.TTL, logger)
		if err := rc.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		s.Components["redis"] = rc
		cache = rc
		logger.Info("result cache: redis", slog.String("addr", cfg.Redis.Addr))
	} else {
		cache = resultcache.NewMemory(cfg.ResultCache.MaxEntries, cfg.ResultCache.TTL)
		logger.Info("result cache: in-process", slog.Int("max_entries", cfg.ResultCache.MaxEntries))
	}

	var store historyStore
	if cfg.Database.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error { pool.Close(); return nil })
		if cfg.Database.Migrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		s.Components["database"] = pool
		store = history.New(pool)
	} else {
		logger.Info("history disabled: no database configured")
	}

	s.Service = translation.NewService(logger, engine, cache, store, metrics, opts.Clock, translation.Config{
		DefaultSourceLang: cfg.Translate.DefaultSourceLang,
		DefaultTargetLang: cfg.Translate.DefaultTargetLang,
		PartialResults:    cfg.Translate.PartialResults,
	})
	return s, nil
}

// Close cancels in-flight lookups and releases backends in reverse order.
func (s *Stack) Close(ctx context.Context) {
	if s.Service != nil {
		s.Service.CancelActive()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			s.log.Warn("close failed", slog.String("error", err.Error()))
		}
	}
	s.closers = nil
}
