package freedict

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/heartmarshall/quicktranslate/internal/adapter/fetch"
	"github.com/heartmarshall/quicktranslate/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T, retry bool, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	f := fetch.NewHTTPFetcher(srv.Client(), fetch.Options{Retry: retry}, newTestLogger())
	return NewProvider(f, srv.URL+"/", nil, newTestLogger())
}

func TestProvider_FetchEntry_Success(t *testing.T) {
	t.Parallel()

	body := `[{
		"word": "hello",
		"phonetics": [
			{"text": "/həˈloʊ/", "audio": "https://example.com/hello-us.mp3"},
			{"text": "/hɛˈləʊ/", "audio": "https://example.com/hello-uk.mp3"}
		],
		"meanings": [
			{
				"partOfSpeech": "noun",
				"definitions": [
					{"definition": "A greeting.", "example": "She gave a cheerful hello."}
				]
			},
			{
				"partOfSpeech": "interjection",
				"definitions": [
					{"definition": "Used as a greeting.", "example": "Hello, how are you?"},
					{"definition": "Used to attract attention.", "example": ""}
				]
			}
		]
	}]`

	p := newTestProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hello" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	result := p.FetchEntry(context.Background(), "hello", "en")

	if result.Phonetic != "/hɛˈləʊ/" {
		t.Errorf("Phonetic = %q, want the UK transcription", result.Phonetic)
	}
	if len(result.Examples) != 2 {
		t.Fatalf("len(Examples) = %d, want 2", len(result.Examples))
	}
	if result.Examples[0].Source != "She gave a cheerful hello." || result.Examples[1].Source != "Hello, how are you?" {
		t.Errorf("Examples = %+v", result.Examples)
	}
	for _, e := range result.Examples {
		if e.Target != nil {
			t.Errorf("example %q must be source-only", e.Source)
		}
	}
}

func TestProvider_FetchEntry_PathEscaping(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/look%20up" {
			t.Errorf("path = %s", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`[]`))
	})

	p.FetchEntry(context.Background(), "look up", "en")
}

func TestProvider_FetchEntry_NonEnglishSourceSkipsLookup(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"de", "ru-RU", "not a tag"} {
		p := newTestProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request for source %q: %s", lang, r.URL.Path)
			_, _ = w.Write([]byte(`[]`))
		})

		res, err := p.fetchEntry(context.Background(), "hallo", lang)
		if err != nil {
			t.Fatalf("source %q: %v", lang, err)
		}
		if res.Phonetic != "" || len(res.Examples) != 0 {
			t.Errorf("source %q: expected empty result, got %+v", lang, res)
		}
	}
}

func TestProvider_FetchEntry_NotFound(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title":"No Definitions Found"}`))
	})

	res, err := p.fetchEntry(context.Background(), "xyzzy", "en")
	if err != nil {
		t.Fatalf("404 must not be an error: %v", err)
	}
	if res.Phonetic != "" || len(res.Examples) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestProvider_FetchEntry_ServerErrorRetrySuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p := newTestProvider(t, true, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"phonetics":[{"text":"/wɜːd/"}]}]`))
	})

	result := p.FetchEntry(context.Background(), "word", "en")
	if result.Phonetic != "/wɜːd/" {
		t.Fatalf("Phonetic = %q", result.Phonetic)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestProvider_FetchEntry_ServerErrorBothAttemptsFail(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p := newTestProvider(t, true, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := p.fetchEntry(context.Background(), "word", "en")
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if res := p.FetchEntry(context.Background(), "word", "en"); res.Phonetic != "" || res.Examples != nil {
		t.Fatalf("FetchEntry must degrade to empty, got %+v", res)
	}
}

func TestProvider_FetchEntry_InvalidJSON(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := p.fetchEntry(context.Background(), "word", "en")
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestProvider_FetchEntry_MultipleEntries(t *testing.T) {
	t.Parallel()

	body := `[
		{"phonetics": [{"text": "/bæŋk/"}], "meanings": [{"definitions": [{"example": "the  river bank"}]}]},
		{"phonetics": [{"text": ""}, {}], "meanings": [{"definitions": [{"example": "the river bank"}, {"example": "a bank  loan"}]}]}
	]`
	p := newTestProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	result := p.FetchEntry(context.Background(), "bank", "en")
	if result.Phonetic != "/bæŋk/" {
		t.Errorf("Phonetic = %q, want first non-empty transcription", result.Phonetic)
	}
	if len(result.Examples) != 2 || result.Examples[0].Source != "the river bank" || result.Examples[1].Source != "a bank loan" {
		t.Errorf("Examples = %+v", result.Examples)
	}
}

func TestProvider_FetchEntry_MalformedShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"object root", `{"title": "x"}`},
		{"empty array", `[]`},
		{"wrong field types", `[{"phonetics": "x", "meanings": [{"definitions": {"example": "y"}}]}]`},
		{"non-string example", `[{"meanings": [{"definitions": [{"example": 5}]}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newTestProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			res, err := p.fetchEntry(context.Background(), "x", "en")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Phonetic != "" || len(res.Examples) != 0 {
				t.Fatalf("expected empty, got %+v", res)
			}
		})
	}
}

func TestSelectTranscription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"empty", nil, ""},
		{"first when no marker", []string{"/həˈloʊ/", "/hɛˈloʊ/"}, "/həˈloʊ/"},
		{"diphthong marker", []string{"/həˈloʊ/", "/həˈləʊ/"}, "/həˈləʊ/"},
		{"open o marker", []string{"/hɑt/", "/hɒt/"}, "/hɒt/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := selectTranscription(tt.candidates); got != tt.want {
				t.Errorf("selectTranscription = %q, want %q", got, tt.want)
			}
		})
	}
}
