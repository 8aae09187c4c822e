package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/quicktranslate/pkg/ctxutil"
)

// Recovery returns middleware that recovers from panics, logs the error
// with a stack trace, and responds with a JSON 500.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
