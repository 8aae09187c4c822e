package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/heartmarshall/quicktranslate/internal/adapter/fetch"
	"github.com/heartmarshall/quicktranslate/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	f := fetch.NewHTTPFetcher(srv.Client(), fetch.Options{}, newTestLogger())
	return NewProvider(f, srv.URL+"/translate_a/single", nil, newTestLogger())
}

func TestProvider_FetchTranslations_Success(t *testing.T) {
	t.Parallel()

	body := `{
		"sentences": [{"trans": "Привет", "orig": "hello"}, {"orig": "x"}],
		"dict": [
			{"pos": "interjection", "terms": ["привет", "здравствуйте", 7, ""]},
			{"pos": "noun", "terms": ["приветствие"]}
		],
		"alternative_translations": [
			{"alternative_translations": [
				{"word_postproc": "алло", "word": "ignored"},
				{"word": "эй"},
				{"text": "хай"},
				{"score": 1}
			]}
		]
	}`

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client") != "gtx" || q.Get("dj") != "1" || q.Get("ie") != "UTF-8" {
			t.Errorf("unexpected base params: %s", r.URL.RawQuery)
		}
		if q.Get("sl") != "en" || q.Get("tl") != "ru" || q.Get("q") != "hello there" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if got := q["dt"]; !reflect.DeepEqual(got, dtParams) {
			t.Errorf("dt = %v", got)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = io.WriteString(w, body)
	})

	got := p.FetchTranslations(context.Background(), "hello there", "en", "ru")
	want := []string{"привет", "здравствуйте", "приветствие", "алло", "эй", "хай"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestProvider_FetchTranslations_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"malformed json", http.StatusOK, `{"sentences": [`},
		{"array root", http.StatusOK, `[1, 2, 3]`},
		{"wrong shapes", http.StatusOK, `{"dict": "x", "sentences": {"trans": "y"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			if got := p.FetchTranslations(context.Background(), "hello", "en", "ru"); len(got) != 0 {
				t.Fatalf("expected empty, got %q", got)
			}
		})
	}
}

func TestParseResponse_MalformedIsParseError(t *testing.T) {
	t.Parallel()

	_, err := parseResponse("not json")
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestProvider_FetchTranslations_EmptyTextSkipsRequest(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if got := p.FetchTranslations(context.Background(), "", "en", "ru"); got != nil {
		t.Fatalf("got %q", got)
	}
}
