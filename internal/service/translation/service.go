// Package translation is the service layer around the resolver: request
// validation, the result cache, lookup history, and cancellation of
// superseded requests.
package translation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/observe"
	"github.com/heartmarshall/quicktranslate/internal/service/resolver"
)

// ErrHistoryDisabled is returned by History when no history store is configured.
var ErrHistoryDisabled = errors.New("history disabled")

type engine interface {
	Resolve(ctx context.Context, text, sourceLang, targetLang string, onPartial resolver.PartialFunc) domain.TranslationResult
}

type resultCache interface {
	Get(ctx context.Context, key string) (domain.TranslationResult, bool)
	Set(ctx context.Context, key string, result domain.TranslationResult)
}

type historyRepo interface {
	Create(ctx context.Context, item *domain.HistoryItem) error
	ListRecent(ctx context.Context, limit int) ([]domain.HistoryItem, error)
}

// Config holds service defaults.
type Config struct {
	DefaultSourceLang string
	DefaultTargetLang string
	// PartialResults enables forwarding of early translation-only results.
	PartialResults bool
}

// Service runs translations.
type Service struct {
	log     *slog.Logger
	engine  engine
	cache   resultCache
	history historyRepo
	metrics *observe.Metrics
	clock   clockwork.Clock
	cfg     Config

	mu     sync.Mutex
	nextID uint64
	active map[uint64]activeRequest
}

type activeRequest struct {
	caller string
	cancel context.CancelFunc
}

// NewService creates a Service. cache and history may be nil; metrics may be nil.
func NewService(
	logger *slog.Logger,
	engine engine,
	cache resultCache,
	history historyRepo,
	metrics *observe.Metrics,
	clock clockwork.Clock,
	cfg Config,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		log:     logger.With("service", "translation"),
		engine:  engine,
		cache:   cache,
		history: history,
		metrics: metrics,
		clock:   clock,
		cfg:     cfg,
		active:  make(map[uint64]activeRequest),
	}
}

// Cancel cancels the in-flight Translate calls started by caller. Used when
// a newer request from the same caller supersedes the ones still running.
// Other callers' lookups keep running. An empty caller matches nothing.
func (s *Service) Cancel(caller string) int {
	if caller == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, req := range s.active {
		if req.caller != caller {
			continue
		}
		req.cancel()
		delete(s.active, id)
		n++
	}
	return n
}

// CancelActive cancels every in-flight Translate call regardless of caller.
// Used on shutdown.
func (s *Service) CancelActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, req := range s.active {
		req.cancel()
		delete(s.active, id)
	}
}

// register tracks a cancellable request of caller; the returned func
// releases it.
func (s *Service) register(ctx context.Context, caller string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.active[id] = activeRequest{caller: caller, cancel: cancel}
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		delete(s.active, id)
		s.mu.Unlock()
		cancel()
	}
}
