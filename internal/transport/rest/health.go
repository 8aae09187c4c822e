package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

// Pinger is anything a readiness probe can check: the database pool, Redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	components map[string]Pinger
	version    string
}

// NewHealthHandler creates a HealthHandler. components maps a name
// ("database", "redis") to its pinger; optional components are left out.
func NewHealthHandler(version string, components map[string]Pinger) *HealthHandler {
	return &HealthHandler{components: components, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 when every component answers, else 503.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, ok := h.check(r.Context())

	status, body := http.StatusOK, "ok"
	if !ok {
		status, body = http.StatusServiceUnavailable, "down"
	}
	writeJSON(w, status, HealthResponse{
		Status:    body,
		Timestamp: time.Now(),
	})
}

// Health is the full health check with per-component latency and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok := h.check(r.Context())

	status, body := http.StatusOK, "ok"
	if !ok {
		status, body = http.StatusServiceUnavailable, "down"
	}
	writeJSON(w, status, HealthResponse{
		Status:     body,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) check(ctx context.Context) (map[string]CompStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	components := make(map[string]CompStatus, len(h.components))
	ok := true
	for name, p := range h.components {
		start := time.Now()
		if err := p.Ping(ctx); err != nil {
			components[name] = CompStatus{Status: "down"}
			ok = false
			continue
		}
		components[name] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}
	return components, ok
}
