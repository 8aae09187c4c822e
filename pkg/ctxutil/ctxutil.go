// Package ctxutil carries request-scoped values through context.Context
// and into log records.
package ctxutil

import (
	"context"
	"log/slog"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestIDAttr is the log attribute key for the request ID.
const RequestIDAttr = "request_id"

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LogHandler adds the request ID found in the record's context, so adapter
// logs written deep inside a lookup can be matched to the HTTP request.
// Records that already carry a request_id attribute are left alone.
type LogHandler struct {
	slog.Handler
}

// NewLogHandler wraps h.
func NewLogHandler(h slog.Handler) *LogHandler {
	return &LogHandler{Handler: h}
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestIDFromCtx(ctx); id != "" && !hasAttr(r, RequestIDAttr) {
		r = r.Clone()
		r.AddAttrs(slog.String(RequestIDAttr, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{Handler: h.Handler.WithGroup(name)}
}

func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}
