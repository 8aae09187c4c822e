package middleware

import "net/http"

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines middleware into one; the first runs outermost.
// Nil entries are skipped, so optional middleware can be passed as is.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				final = mws[i](final)
			}
		}
		return final
	}
}
