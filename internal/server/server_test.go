package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	th "github.com/desertthunder/songdash/internal/testing"
)

type testServer struct {
	handler http.Handler
	loader  *songs.Loader
}

func newTestServer(t *testing.T, path string, configure func(*shared.Config)) *testServer {
	t.Helper()
	cfg := shared.DefaultConfig()
	cfg.Dataset.Path = path
	cfg.Dataset.SampleSize = 3
	cfg.Dataset.HistogramBins = 5
	cfg.Audio.Path = filepath.Join(t.TempDir(), "missing.mp3")
	cfg.Server.RateLimit = 0
	if configure != nil {
		configure(cfg)
	}

	loader := songs.NewLoader(cfg.Dataset.Path, songs.LoadOptions{DateLayout: cfg.Dataset.DateLayout}, nil)
	srv, err := New(cfg, dashboard.New(loader, cfg, nil), loader.Loaded, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &testServer{handler: srv.Handler(), loader: loader}
}

func (s *testServer) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		for _, val := range v {
			req.Header.Add(k, val)
		}
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodGet, target, nil)
}

func TestPages(t *testing.T) {
	srv := newTestServer(t, th.WriteSampleSongs(t), nil)

	t.Run("root redirects to overview", func(t *testing.T) {
		rec := srv.get(t, "/")
		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/overview" {
			t.Errorf("expected redirect to /overview, got %q", loc)
		}
	})

	tests := []struct {
		path string
		want []string
	}{
		{"/overview", []string{"Main Dashboard: At a Glance", "Midnight Drive", "Key Metrics", "Total Unique Artists"}},
		{"/genres", []string{"Genre Deep Dive", `id="averagePopularity"`, `id="popularityTrends"`}},
		{"/features", []string{"Feature &amp; Popularity Analysis", `id="popularityHistogram"`, "This plot is a sample of 3 songs."}},
		{"/explore", []string{"Interactive Song Explorer", "Found 4 songs matching your criteria:", "Song Explorer Filters"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := srv.get(t, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("unexpected content type %q", ct)
			}
			body := rec.Body.String()
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q", s)
				}
			}
			if !strings.Contains(body, "Audio file not found") {
				t.Error("expected the missing audio warning in the sidebar")
			}
		})
	}

	t.Run("unknown path", func(t *testing.T) {
		if rec := srv.get(t, "/settings"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		if rec := srv.do(t, http.MethodPost, "/overview", nil); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestExplorePage(t *testing.T) {
	srv := newTestServer(t, th.WriteSampleSongs(t), nil)

	t.Run("filters from query", func(t *testing.T) {
		rec := srv.get(t, "/explore?genre=Rock&pop_min=0&pop_max=100")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Found 2 songs matching your criteria:") {
			t.Error("expected two rock songs")
		}
		if strings.Contains(body, "Midnight Drive") {
			t.Error("pop songs should be filtered out")
		}
		if !strings.Contains(body, `href="/api/explore?genre=Rock&amp;pop_min=0&amp;pop_max=100"`) {
			t.Error("expected the JSON export link to carry the query")
		}
	})

	t.Run("empty selection warns", func(t *testing.T) {
		rec := srv.get(t, "/explore?genre=")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, dashboard.EmptySelectionWarning) {
			t.Error("expected the empty selection warning")
		}
		if strings.Contains(body, "matching your criteria") {
			t.Error("no results should be shown for an empty selection")
		}
	})

	t.Run("invalid bound", func(t *testing.T) {
		if rec := srv.get(t, "/explore?year_min=soon"); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestMissingDataFile(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "absent.csv"), nil)

	for _, path := range []string{"/overview", "/explore", "/report"} {
		t.Run(path, func(t *testing.T) {
			rec := srv.get(t, path)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "was not found") {
				t.Errorf("expected not found message, got %s", rec.Body.String())
			}
		})
	}

	t.Run("api", func(t *testing.T) {
		rec := srv.get(t, "/api/overview")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON error body: %v", err)
		}
		if !strings.Contains(body["error"].(string), "not found") {
			t.Errorf("unexpected error body %v", body)
		}
	})
}

func TestAPI(t *testing.T) {
	srv := newTestServer(t, th.WriteSampleSongs(t), nil)

	t.Run("overview", func(t *testing.T) {
		rec := srv.get(t, "/api/overview")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var result dashboard.OverviewResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Rows != 6 || result.Summary.Genres != 3 {
			t.Errorf("unexpected overview %+v", result.Summary)
		}
	})

	t.Run("etag", func(t *testing.T) {
		first := srv.get(t, "/api/genres")
		etag := first.Header().Get("ETag")
		if etag == "" {
			t.Fatal("expected an ETag")
		}

		second := srv.do(t, http.MethodGet, "/api/genres", http.Header{"If-None-Match": {etag}})
		if second.Code != http.StatusNotModified {
			t.Errorf("expected 304, got %d", second.Code)
		}
		if second.Body.Len() != 0 {
			t.Error("304 should not carry a body")
		}

		stale := srv.do(t, http.MethodGet, "/api/genres", http.Header{"If-None-Match": {`"stale"`}})
		if stale.Code != http.StatusOK {
			t.Errorf("expected 200 for a stale tag, got %d", stale.Code)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		rec := srv.get(t, "/api/genres?pretty")
		if !strings.Contains(rec.Body.String(), "\n  ") {
			t.Error("expected indented JSON")
		}
	})

	t.Run("explore", func(t *testing.T) {
		rec := srv.get(t, "/api/explore?genre=Rock&pop_min=0")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var result dashboard.ExploreResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Count != 2 || len(result.Rows) != 2 {
			t.Errorf("expected two rows, got %d", result.Count)
		}
	})

	errorTests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown page", "/api/settings", http.StatusNotFound},
		{"empty selection", "/api/explore?genre=", http.StatusUnprocessableEntity},
		{"invalid bound", "/api/explore?pop_max=lots", http.StatusBadRequest},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.get(t, tt.target)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected content type %q", ct)
			}
		})
	}
}

func TestFeaturesSampleBounds(t *testing.T) {
	srv := newTestServer(t, th.WriteSampleSongs(t), func(cfg *shared.Config) {
		cfg.Dataset.SampleSize = 100
	})

	if rec := srv.get(t, "/features"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	if rec := srv.get(t, "/api/features"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestReport(t *testing.T) {
	srv := newTestServer(t, th.WriteSampleSongs(t), nil)

	rec := srv.get(t, "/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, id := range []string{"songsPerYear", "popularityTrends", "durationVsPopularity"} {
		if !strings.Contains(body, id) {
			t.Errorf("report missing chart %s", id)
		}
	}
}

func TestAudio(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		srv := newTestServer(t, th.WriteSampleSongs(t), nil)
		if rec := srv.get(t, "/audio"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("present", func(t *testing.T) {
		track := th.WriteFile(t, "track.mp3", "ID3 not really audio")
		srv := newTestServer(t, th.WriteSampleSongs(t), func(cfg *shared.Config) {
			cfg.Audio.Path = track
		})

		rec := srv.get(t, "/audio")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "ID3 not really audio" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}

		page := srv.get(t, "/genres").Body.String()
		if !strings.Contains(page, `<audio controls src="/audio" autoplay loop>`) {
			t.Error("expected an autoplaying looping player")
		}
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, th.WriteSampleSongs(t), nil)

	health := func() map[string]any {
		rec := srv.get(t, "/healthz")
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		return body
	}

	if body := health(); body["status"] != "ok" || body["dataset_loaded"] != false {
		t.Errorf("unexpected health before load %v", body)
	}
	srv.get(t, "/overview")
	if body := health(); body["dataset_loaded"] != true {
		t.Errorf("expected dataset_loaded after a page render, got %v", body)
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("request id", func(t *testing.T) {
		srv := newTestServer(t, th.WriteSampleSongs(t), nil)

		if id := srv.get(t, "/healthz").Header().Get(RequestIDHeader); id == "" {
			t.Error("expected a generated request id")
		}
		rec := srv.do(t, http.MethodGet, "/healthz", http.Header{RequestIDHeader: {"abc-123"}})
		if id := rec.Header().Get(RequestIDHeader); id != "abc-123" {
			t.Errorf("expected incoming id to be reused, got %q", id)
		}
	})

	t.Run("rate limit", func(t *testing.T) {
		srv := newTestServer(t, th.WriteSampleSongs(t), func(cfg *shared.Config) {
			cfg.Server.RateLimit = 0.001
			cfg.Server.Burst = 1
		})

		if rec := srv.get(t, "/healthz"); rec.Code != http.StatusOK {
			t.Fatalf("first request should pass, got %d", rec.Code)
		}
		rec := srv.get(t, "/healthz")
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Error("expected Retry-After")
		}
	})

	t.Run("recoverer", func(t *testing.T) {
		h := Recoverer(log.New(io.Discard))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("order", func(t *testing.T) {
		var calls []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					calls = append(calls, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("outer"), mark("inner"))
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			calls = append(calls, "handler")
		}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		if strings.Join(calls, ",") != "outer,inner,handler" {
			t.Errorf("unexpected order %v", calls)
		}
	})
}

func TestCriteriaFromQuery(t *testing.T) {
	defaults := songs.Criteria{
		Genres:     []string{"Pop", "Rock"},
		Years:      songs.Range{Low: 2000, High: 2020},
		Popularity: songs.Range{Low: 50, High: 100},
	}

	tests := []struct {
		name  string
		query string
		want  songs.Criteria
	}{
		{"defaults", "", defaults},
		{"genres", "genre=Rock", songs.Criteria{Genres: []string{"Rock"}, Years: defaults.Years, Popularity: defaults.Popularity}},
		{"hidden empty genre ignored", "genre=&genre=Pop", songs.Criteria{Genres: []string{"Pop"}, Years: defaults.Years, Popularity: defaults.Popularity}},
		{"empty selection", "genre=", songs.Criteria{Years: defaults.Years, Popularity: defaults.Popularity}},
		{"bounds", "year_min=2010&year_max=2015&pop_min=0&pop_max=70", songs.Criteria{
			Genres:     defaults.Genres,
			Years:      songs.Range{Low: 2010, High: 2015},
			Popularity: songs.Range{Low: 0, High: 70},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got, err := CriteriaFromQuery(q, defaults)
			if err != nil {
				t.Fatalf("CriteriaFromQuery() error = %v", err)
			}
			if strings.Join(got.Genres, ",") != strings.Join(tt.want.Genres, ",") || got.Years != tt.want.Years || got.Popularity != tt.want.Popularity {
				t.Errorf("CriteriaFromQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}

	if _, err := CriteriaFromQuery(url.Values{"year_max": {"x"}}, defaults); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.ErrNotFound, http.StatusInternalServerError},
		{shared.ErrLoad, http.StatusInternalServerError},
		{shared.ErrEmptySelection, http.StatusUnprocessableEntity},
		{shared.ErrSampleBounds, http.StatusUnprocessableEntity},
		{shared.ErrInvalidArgument, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
