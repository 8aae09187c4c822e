package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/quicktranslate/pkg/ctxutil"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

// RequestID reuses the caller's X-Request-Id when it is sane, otherwise
// generates one, and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
