// Package fetch performs the outbound GET requests of the source adapters
// and caches their payloads by URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

const (
	// DefaultUserAgent is sent on every request; some sources reject
	// clients without a browser-like agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 6.1; Win64; x64)"
	// DefaultTimeout bounds a single request, retries included.
	DefaultTimeout = 6 * time.Second

	maxBodyBytes = 4 << 20
	retryDelay   = 500 * time.Millisecond
)

// Fetcher returns the body of the document at url as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options configure an HTTPFetcher. Zero values use the defaults.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// Retry enables a single retry on 5xx or network errors.
	Retry bool
}

// HTTPFetcher fetches documents over HTTP.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	retry      bool
	log        *slog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client means a fresh
// http.Client without its own timeout; the per-request timeout applies.
func NewHTTPFetcher(client *http.Client, opts Options, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		httpClient: client,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		retry:      opts.Retry,
		log:        logger.With("adapter", "fetch"),
	}
}

// Fetch GETs url and returns its body decoded to UTF-8. Undecodable bytes
// are replaced with U+FFFD. Non-2xx responses yield a *domain.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.doWithRetry(ctx, req)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	f.log.DebugContext(ctx, "fetched",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)
	return body, nil
}

// doWithRetry executes the request, retrying once on 5xx or network errors
// when retries are enabled.
func (f *HTTPFetcher) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := f.httpClient.Do(req)
	if !f.retry {
		return resp, err
	}

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	f.log.WarnContext(ctx, "fetch retry", slog.String("url", req.URL.String()), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	timer := time.NewTimer(retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return f.httpClient.Do(req)
}

func decodeBody(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, maxBodyBytes)
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), "\uFFFD"), nil
}
