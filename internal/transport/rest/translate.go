package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/heartmarshall/quicktranslate/internal/domain"
	"github.com/heartmarshall/quicktranslate/internal/service/resolver"
	"github.com/heartmarshall/quicktranslate/internal/service/translation"
)

// translateService defines the minimal interface needed by TranslateHandler.
type translateService interface {
	Translate(ctx context.Context, input translation.TranslateInput, onPartial resolver.PartialFunc) (domain.TranslationResult, error)
	Cancel(caller string) int
	History(ctx context.Context, limit int) ([]domain.HistoryItem, error)
}

// ClientIDHeader optionally names a client session, so that clients behind
// one address cancel only their own lookups.
const ClientIDHeader = "X-Client-Id"

const maxClientIDLen = 64

// TranslateHandler serves the translation endpoints.
type TranslateHandler struct {
	svc translateService
	log *slog.Logger
}

// NewTranslateHandler creates a TranslateHandler.
func NewTranslateHandler(svc translateService, logger *slog.Logger) *TranslateHandler {
	return &TranslateHandler{svc: svc, log: logger.With("handler", "translate")}
}

// streamLine is one NDJSON line of a streamed lookup.
type streamLine struct {
	Partial *domain.TranslationResult `json:"partial,omitempty"`
	Result  *domain.TranslationResult `json:"result,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

type historyItemResponse struct {
	ID        string                   `json:"id"`
	Text      string                   `json:"text"`
	Source    string                   `json:"source"`
	Target    string                   `json:"target"`
	Result    domain.TranslationResult `json:"result"`
	CreatedAt time.Time                `json:"created_at"`
}

// Translate handles GET /api/v1/translate?text=&source=&target=[&stream=1].
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := translation.TranslateInput{
		Text:       q.Get("text"),
		SourceLang: q.Get("source"),
		TargetLang: q.Get("target"),
		Caller:     callerKey(r),
	}

	if stream, _ := strconv.ParseBool(q.Get("stream")); stream {
		h.translateStream(w, r, input)
		return
	}

	result, err := h.svc.Translate(r.Context(), input, nil)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// translateStream writes NDJSON: an optional partial line as soon as the
// translation is known, then the final result line.
func (h *TranslateHandler) translateStream(w http.ResponseWriter, r *http.Request, input translation.TranslateInput) {
	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)

	var (
		mu      sync.Mutex
		started bool
	)
	emit := func(line streamLine) {
		mu.Lock()
		defer mu.Unlock()
		if !started {
			w.Header().Set("Content-Type", "application/x-ndjson")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := enc.Encode(line); err != nil {
			h.log.DebugContext(r.Context(), "stream write failed", slog.String("error", err.Error()))
			return
		}
		_ = rc.Flush()
	}

	result, err := h.svc.Translate(r.Context(), input, func(partial domain.TranslationResult) {
		emit(streamLine{Partial: &partial})
	})

	mu.Lock()
	streaming := started
	mu.Unlock()

	if err != nil {
		if !streaming {
			h.handleError(w, r, err)
			return
		}
		emit(streamLine{Error: errorMessage(err)})
		return
	}
	emit(streamLine{Result: &result})
}

// Cancel handles DELETE /api/v1/translate: the caller's in-flight lookups
// are abandoned in favour of whatever it sends next. Lookups of other
// callers are untouched.
func (h *TranslateHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller := callerKey(r)
	n := h.svc.Cancel(caller)
	h.log.DebugContext(r.Context(), "lookups cancelled", slog.String("caller", caller), slog.Int("count", n))
	w.WriteHeader(http.StatusNoContent)
}

// callerKey scopes cancellation: the remote address plus the optional
// client session id.
func callerKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	id := strings.TrimSpace(r.Header.Get(ClientIDHeader))
	if len(id) > maxClientIDLen {
		id = id[:maxClientIDLen]
	}
	return host + "/" + id
}

// History handles GET /api/v1/history?limit=.
func (h *TranslateHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	items, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]historyItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, historyItemResponse{
			ID:        item.ID.String(),
			Text:      item.Text,
			Source:    item.SourceLang,
			Target:    item.TargetLang,
			Result:    item.Result,
			CreatedAt: item.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TranslateHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		resp := errorResponse{Error: "validation failed"}
		for _, fe := range ve.Errors {
			resp.Fields = append(resp.Fields, fieldError{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, translation.ErrHistoryDisabled):
		writeError(w, http.StatusNotFound, "history disabled")
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusConflict, "request superseded")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request superseded"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return "internal server error"
	}
}
