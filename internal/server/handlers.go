package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdash/internal/charts"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
	"github.com/desertthunder/songdash/internal/web"
	"github.com/zeebo/xxh3"
)

// StatusFor maps a render error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrEmptySelection), errors.Is(err, shared.ErrSampleBounds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CriteriaFromQuery reads explorer filters from query parameters, falling back to defaults.
//
// An absent genre parameter selects the default genres. A genre parameter whose values are all
// empty is an explicit empty selection.
func CriteriaFromQuery(q url.Values, defaults songs.Criteria) (songs.Criteria, error) {
	c := defaults

	if values, ok := q["genre"]; ok {
		c.Genres = nil
		for _, v := range values {
			if v != "" {
				c.Genres = append(c.Genres, v)
			}
		}
	}

	bounds := []struct {
		key    string
		target *int
	}{
		{"year_min", &c.Years.Low},
		{"year_max", &c.Years.High},
		{"pop_min", &c.Popularity.Low},
		{"pop_max", &c.Popularity.High},
	}
	for _, b := range bounds {
		raw := strings.TrimSpace(q.Get(b.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return songs.Criteria{}, fmt.Errorf("%w: %s must be an integer, got %q", shared.ErrInvalidArgument, b.key, raw)
		}
		*b.target = v
	}
	return c, nil
}

// AudioHandler serves the optional background track.
type AudioHandler struct {
	cfg shared.AudioConfig
}

// NewAudioHandler creates an AudioHandler for the configured file.
func NewAudioHandler(cfg shared.AudioConfig) *AudioHandler {
	return &AudioHandler{cfg: cfg}
}

// Routes returns the HTTP routes this handler serves.
func (h *AudioHandler) Routes() []string {
	return []string{"GET /audio"}
}

// View describes the player for the page sidebar. A missing file yields a warning instead of a player.
func (h *AudioHandler) View() web.Audio {
	if !h.available() {
		return web.Audio{Warning: web.AudioMissing}
	}
	return web.Audio{Available: true, Autoplay: h.cfg.Autoplay, Loop: h.cfg.Loop}
}

func (h *AudioHandler) available() bool {
	if h.cfg.Path == "" {
		return false
	}
	info, err := os.Stat(h.cfg.Path)
	return err == nil && info.Mode().IsRegular()
}

// ServeHTTP streams the audio file, or 404 when it is missing.
func (h *AudioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.available() {
		http.Error(w, web.AudioMissing, http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, h.cfg.Path)
}

// PageHandler renders the four dashboard pages.
type PageHandler struct {
	dashboard Dashboard
	renderer  *web.Renderer
	audio     *AudioHandler
	logger    *log.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(d Dashboard, renderer *web.Renderer, audio *AudioHandler, logger *log.Logger) *PageHandler {
	return &PageHandler{dashboard: d, renderer: renderer, audio: audio, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *PageHandler) Routes() []string {
	routes := []string{"GET /{$}"}
	for _, p := range dashboard.Pages() {
		routes = append(routes, "GET /"+p.String())
	}
	return routes
}

// ServeHTTP renders the page named by the request path. The root redirects to the overview.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		http.Redirect(w, r, "/"+dashboard.Overview.String(), http.StatusFound)
		return
	}

	page, err := dashboard.ParsePage(strings.TrimPrefix(r.URL.Path, "/"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	view := web.NewView(page, h.audio.View())
	if err := h.build(r, view); err != nil {
		h.logger.Warn("page render failed", "page", page, "error", err, "request_id", RequestIDFrom(r.Context()))
		view.Error = dashboard.Describe(err)
		h.write(w, view, StatusFor(err))
		return
	}
	h.write(w, view, http.StatusOK)
}

func (h *PageHandler) build(r *http.Request, view *web.View) error {
	ctx := r.Context()

	switch view.Page {
	case dashboard.Overview:
		result, err := h.dashboard.Overview(ctx, nil)
		if err != nil {
			return err
		}
		view.Overview = result
		view.Charts = charts.Snippets(charts.Overview(result))
	case dashboard.Genres:
		result, err := h.dashboard.Genres(ctx, nil)
		if err != nil {
			return err
		}
		view.Charts = charts.Snippets(charts.Genres(result))
	case dashboard.Features:
		result, err := h.dashboard.Features(ctx, nil)
		if err != nil {
			return err
		}
		view.Features = result
		view.Charts = charts.Snippets(charts.Features(result))
	case dashboard.Explore:
		controls, err := h.dashboard.Controls(ctx)
		if err != nil {
			return err
		}
		view.Controls = controls

		criteria, err := CriteriaFromQuery(r.URL.Query(), controls.Defaults)
		if err != nil {
			return err
		}
		view.SetCriteria(criteria)

		result, err := h.dashboard.Explore(ctx, nil, criteria)
		if errors.Is(err, shared.ErrEmptySelection) {
			view.Warning = dashboard.EmptySelectionWarning
			return nil
		}
		if err != nil {
			return err
		}
		view.Explore = result
		view.ExportURL = template.URL("/api/explore?" + r.URL.RawQuery)
	}
	return nil
}

func (h *PageHandler) write(w http.ResponseWriter, view *web.View, status int) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view); err != nil {
		h.logger.Error("template failed", "page", view.Page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// APIHandler serves page results as JSON.
type APIHandler struct {
	dashboard Dashboard
	logger    *log.Logger
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(d Dashboard, logger *log.Logger) *APIHandler {
	return &APIHandler{dashboard: d, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{"GET /api/{page}"}
}

// ServeHTTP writes the page result with an ETag, answering 304 when If-None-Match matches.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.ParsePage(r.PathValue("page"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err)
		return
	}

	ctx := r.Context()
	var criteria *songs.Criteria
	if page == dashboard.Explore {
		controls, err := h.dashboard.Controls(ctx)
		if err != nil {
			writeJSONError(w, StatusFor(err), err)
			return
		}
		c, err := CriteriaFromQuery(r.URL.Query(), controls.Defaults)
		if err != nil {
			writeJSONError(w, StatusFor(err), err)
			return
		}
		criteria = &c
	}

	result, err := h.dashboard.Render(ctx, page, criteria)
	if err != nil {
		h.logger.Warn("api render failed", "page", page, "error", err, "request_id", RequestIDFrom(ctx))
		writeJSONError(w, StatusFor(err), err)
		return
	}

	body, err := shared.MarshalJSON(result, r.URL.Query().Has("pretty"))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	etag := `"` + strconv.FormatUint(xxh3.Hash(body), 16) + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	body, _ := shared.MarshalJSON(map[string]any{"error": err.Error(), "status": status}, false)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// ReportHandler renders every chart on one go-echarts page.
type ReportHandler struct {
	dashboard Dashboard
	renderer  *web.Renderer
	audio     *AudioHandler
	logger    *log.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(d Dashboard, renderer *web.Renderer, audio *AudioHandler, logger *log.Logger) *ReportHandler {
	return &ReportHandler{dashboard: d, renderer: renderer, audio: audio, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ReportHandler) Routes() []string {
	return []string{"GET /report"}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboard.Report(r.Context())
	if err != nil {
		h.logger.Warn("report render failed", "error", err, "request_id", RequestIDFrom(r.Context()))
		view := web.NewView(dashboard.Overview, h.audio.View())
		view.Error = dashboard.Describe(err)

		var buf bytes.Buffer
		if err := h.renderer.Render(&buf, view); err != nil {
			http.Error(w, view.Error, StatusFor(err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(StatusFor(err))
		_, _ = w.Write(buf.Bytes())
		return
	}

	var buf bytes.Buffer
	if err := charts.ReportPage(report).Render(&buf); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HealthHandler reports liveness and whether the dataset has been loaded.
func HealthHandler(loaded func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := shared.MarshalJSON(map[string]any{
			"status":         "ok",
			"dataset_loaded": loaded != nil && loaded(),
		}, false)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}
