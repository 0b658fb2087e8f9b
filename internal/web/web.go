// Package web renders the dashboard pages with html/template.
//
// Templates are embedded at build time. Every page shares the layout in templates/layout.html,
// which draws the navigation sidebar, the background audio player and the chart scripts,
// then executes the page's "content" template. The explorer additionally fills the "sidebar"
// block with its filter form.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/desertthunder/songdash/internal/charts"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
)

//go:embed templates/*.html
var files embed.FS

// AudioMissing is shown in place of the player when the audio file cannot be found.
const AudioMissing = "Audio file not found. Make sure it's in the folder and has the correct extension."

// NavItem is one entry of the sidebar navigation.
type NavItem struct {
	Slug   string
	Title  string
	Active bool
}

// Audio describes the background player.
type Audio struct {
	Available bool
	Autoplay  bool
	Loop      bool
	Warning   string
}

// View is the data passed to every page template.
type View struct {
	AppTitle   string
	AssetsHost string
	Page       dashboard.Page
	Nav        []NavItem
	Audio      Audio
	Warning    string
	Error      string
	Charts     []charts.Snippet

	Overview *dashboard.OverviewResult
	Features *dashboard.FeatureResult

	Controls  *dashboard.ControlsResult
	Criteria  songs.Criteria
	Selected  map[string]bool
	Explore   *dashboard.ExploreResult
	ExportURL template.URL
}

// NewView creates a View for page with navigation filled in.
func NewView(page dashboard.Page, audio Audio) *View {
	v := &View{
		AppTitle:   dashboard.AppTitle,
		AssetsHost: charts.AssetsHost,
		Page:       page,
		Audio:      audio,
	}
	for _, p := range dashboard.Pages() {
		v.Nav = append(v.Nav, NavItem{Slug: p.String(), Title: p.Title(), Active: p == page})
	}
	return v
}

// SetCriteria records the explorer selection shown in the filter form.
func (v *View) SetCriteria(c songs.Criteria) {
	v.Criteria = c
	v.Selected = make(map[string]bool, len(c.Genres))
	for _, g := range c.Genres {
		v.Selected[g] = true
	}
}

var funcs = template.FuncMap{
	"formatInt":      shared.FormatInt,
	"formatFloat":    shared.FormatFloat,
	"formatDuration": shared.FormatDuration,
	"date":           func(t time.Time) string { return t.Format("02-01-2006") },
	"join":           strings.Join,
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[dashboard.Page]*template.Template
	err   *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[dashboard.Page]*template.Template)}

	for _, p := range dashboard.Pages() {
		t, err := parse(p.String() + ".html")
		if err != nil {
			return nil, err
		}
		r.pages[p] = t
	}

	t, err := parse("error.html")
	if err != nil {
		return nil, err
	}
	r.err = t
	return r, nil
}

func parse(name string) (*template.Template, error) {
	t, err := template.New(name).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return t, nil
}

// Render writes the page for v. A view carrying an Error renders the error layout.
func (r *Renderer) Render(w io.Writer, v *View) error {
	t := r.err
	if v.Error == "" {
		page, ok := r.pages[v.Page]
		if !ok {
			return fmt.Errorf("%w: no template for page %d", shared.ErrInvalidArgument, int(v.Page))
		}
		t = page
	}
	return t.ExecuteTemplate(w, "layout", v)
}
