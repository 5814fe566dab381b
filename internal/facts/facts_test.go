package facts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// geminiServer answers generateContent requests through h.
func geminiServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *GeminiSource) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, &GeminiSource{Model: "test-model", APIKey: "k", BaseURL: srv.URL + "/", HTTPClient: srv.Client()}
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func TestGeminiSourceParsesCandidate(t *testing.T) {
	_, g := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) == 0 || !strings.Contains(req.Contents[0].Parts[0].Text, "Bluethroat") {
			t.Errorf("prompt does not name the bird: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Bluethroats sing at night. "}]}}]}`))
	})

	for i := 0; i < 2; i++ {
		fact, err := g.Fact(context.Background(), "Bluethroat")
		if err != nil {
			t.Fatalf("Fact: %v", err)
		}
		if fact != "Bluethroats sing at night." {
			t.Fatalf("fact = %q", fact)
		}
	}
}

func TestGeminiSourceErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`, nil},
		{"bad json", http.StatusOK, "{", nil},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyFact},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`, ErrEmptyFact},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, g := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(c.status)
				_, _ = w.Write([]byte(c.body))
			})
			_, err := g.Fact(context.Background(), "Fairy Pitta")
			if err == nil {
				t.Fatal("expected error")
			}
			if c.wantErr != nil && !errors.Is(err, c.wantErr) {
				t.Fatalf("err = %v, want %v", err, c.wantErr)
			}
		})
	}
}

func TestFetcherOverFailingGemini(t *testing.T) {
	_, g := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if got := NewFetcher(g, nil, 2*time.Second).Fetch(context.Background(), "Oriental Stork"); got != FallbackFailure {
		t.Fatalf("Fetch = %q, want failure fallback", got)
	}
}

func TestFetcherFallsBackOnFailure(t *testing.T) {
	src := SourceFunc(func(context.Context, string) (string, error) {
		return "", errors.New("network down")
	})
	f := NewFetcher(src, nil, time.Second)
	if got := f.Fetch(context.Background(), "Oriental Stork"); got != FallbackFailure {
		t.Fatalf("Fetch = %q, want failure fallback", got)
	}
}

func TestFetcherFallsBackOnEmpty(t *testing.T) {
	for _, src := range []Source{
		SourceFunc(func(context.Context, string) (string, error) { return "   ", nil }),
		SourceFunc(func(context.Context, string) (string, error) { return "", ErrEmptyFact }),
	} {
		if got := NewFetcher(src, nil, time.Second).Fetch(context.Background(), "x"); got != FallbackEmpty {
			t.Fatalf("Fetch = %q, want empty fallback", got)
		}
	}
}

func TestFetcherTimesOutSlowSource(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	f := NewFetcher(src, nil, 20*time.Millisecond)
	select {
	case got := <-f.FetchAsync(context.Background(), "x"):
		if got != FallbackFailure {
			t.Fatalf("got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not time out")
	}
}

func TestStaticSourceRotates(t *testing.T) {
	s := &StaticSource{}
	a, _ := s.Fact(context.Background(), "")
	b, _ := s.Fact(context.Background(), "")
	if a == b {
		t.Fatal("static source should rotate")
	}
	named, _ := s.Fact(context.Background(), "Bluethroat")
	if !strings.HasPrefix(named, "Bluethroat: ") {
		t.Fatalf("named fact = %q", named)
	}
}

func TestNilSourceUsesStatic(t *testing.T) {
	got := NewFetcher(nil, nil, 0).Fetch(context.Background(), "")
	if got == "" || got == FallbackFailure {
		t.Fatalf("nil source fact = %q", got)
	}
}
