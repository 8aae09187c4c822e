package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/translate", nil)
	req.RemoteAddr = remoteAddr
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsBurst(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(10, 0)(okHandler())

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:1234").Code, "request %d should be allowed", i)
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(5, 3)(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:1234").Code)
	}

	rec := hit(handler, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "13", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_KeysByIPNotPort(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(1, 1)(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "5.5.5.5:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "5.5.5.5:2000").Code)
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	handler := rl.Limit(2, 2)(okHandler())

	for i := 0; i < 2; i++ {
		hit(handler, "1.1.1.1:1234")
	}

	assert.Equal(t, http.StatusOK, hit(handler, "2.2.2.2:5678").Code)
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	// 60 per minute = 1 per second
	handler := rl.Limit(60, 1)(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "3.3.3.3:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "3.3.3.3:1234").Code)

	time.Sleep(1100 * time.Millisecond)

	assert.Equal(t, http.StatusOK, hit(handler, "3.3.3.3:1234").Code)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(time.Millisecond)
	rl.Stop()
	rl.Stop()
}
