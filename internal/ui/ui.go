package ui

import (
	"context"
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdash/internal/dashboard"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	PageView
)

// Slider steps for the explorer bounds.
const (
	yearStep       = 1
	popularityStep = 5
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	engine   dashboard.Engine
	view     ViewState
	page     dashboard.Page
	width    int
	height   int
	menu     list.Model
	spinner  spinner.Model
	table    table.Model
	help     help.Model
	keys     keyMap
	loading  bool
	pending  bool // page changed while a render was in flight
	progress dashboard.ProgressUpdate
	audio    string
	err      error

	overview *dashboard.OverviewResult
	genres   *dashboard.GenreResult
	features *dashboard.FeatureResult

	controls *dashboard.ControlsResult
	criteria songs.Criteria
	explore  *dashboard.ExploreResult
	warning  string
	cursor   int
}

// NewModel creates a new TUI model. audioWarning, when set, is shown under the title.
func NewModel(ctx context.Context, engine dashboard.Engine, audioWarning string) *Model {
	menu := list.New(pageItems(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Choose a page:"
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)

	return &Model{
		ctx:     ctx,
		engine:  engine,
		view:    PageView,
		page:    dashboard.Overview,
		menu:    menu,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		table:   table.New(),
		help:    help.New(),
		keys:    newKeyMap(),
		audio:   audioWarning,
	}
}

// Init starts rendering the overview, which loads the dataset.
func (m *Model) Init() tea.Cmd {
	return m.render(m.page)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		m.table.SetHeight(m.tableHeight(len(m.table.Rows())))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case PageView:
			return m.handlePageKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		data := msg.data.(progressData)
		m.progress = data.update
		return m, waitForProgress(data.ch)

	case MsgPageRendered:
		data := msg.data.(renderedData)
		m.loading = false
		if data.err != nil {
			m.err = data.err
			return m, m.resume()
		}
		switch r := data.result.(type) {
		case *dashboard.OverviewResult:
			m.overview = r
		case *dashboard.GenreResult:
			m.genres = r
		case *dashboard.FeatureResult:
			m.features = r
		}
		if data.page == m.page {
			m.syncTable()
		}
		return m, m.resume()

	case MsgExplored:
		data := msg.data.(exploredData)
		m.loading = false
		if data.controls != nil && m.controls == nil {
			m.controls = data.controls
			m.criteria = cloneCriteria(data.controls.Defaults)
		}
		switch {
		case errors.Is(data.err, shared.ErrEmptySelection):
			m.warning = dashboard.EmptySelectionWarning
			m.explore = nil
		case data.err != nil:
			m.err = data.err
			return m, m.resume()
		default:
			m.warning = ""
			m.explore = data.result
		}
		if m.page == dashboard.Explore {
			m.syncTable()
		}
		return m, m.resume()
	}
	return m, nil
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = PageView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.menu.SelectedItem().(pageItem); ok {
			m.view = PageView
			return m, m.show(item.page)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handlePageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pages := dashboard.Pages()

	switch {
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
		m.menu.Select(slices.Index(pages, m.page))
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.show(pages[(slices.Index(pages, m.page)+1)%len(pages)])
	case key.Matches(msg, m.keys.prev):
		return m, m.show(pages[(slices.Index(pages, m.page)+len(pages)-1)%len(pages)])
	case key.Matches(msg, m.keys.refresh):
		if m.loading {
			return m, nil
		}
		return m, m.render(m.page)
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(pages) {
		return m, m.show(pages[s[0]-'1'])
	}

	if m.page == dashboard.Explore {
		return m.handleExploreKeys(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handleExploreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.controls == nil || m.loading {
		return m, nil
	}
	genres := m.controls.Controls.Genres
	rows := len(genres) + 4

	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, m.keys.down):
		m.cursor = min(rows-1, m.cursor+1)
	case key.Matches(msg, m.keys.toggle):
		if m.cursor < len(genres) {
			m.toggleGenre(genres[m.cursor])
		}
	case key.Matches(msg, m.keys.all):
		if len(m.criteria.Genres) == len(genres) {
			m.criteria.Genres = nil
		} else {
			m.criteria.Genres = slices.Clone(genres)
		}
	case key.Matches(msg, m.keys.left):
		m.adjust(-1)
	case key.Matches(msg, m.keys.right):
		m.adjust(1)
	case key.Matches(msg, m.keys.enter):
		return m, m.render(dashboard.Explore)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// toggleGenre flips g in the selection, keeping the control order.
func (m *Model) toggleGenre(g string) {
	selected := make(map[string]bool, len(m.criteria.Genres))
	for _, s := range m.criteria.Genres {
		selected[s] = true
	}
	selected[g] = !selected[g]

	m.criteria.Genres = nil
	for _, c := range m.controls.Controls.Genres {
		if selected[c] {
			m.criteria.Genres = append(m.criteria.Genres, c)
		}
	}
}

// adjust moves the bound under the cursor, keeping low <= high within the slider bounds.
func (m *Model) adjust(dir int) {
	years := m.controls.Controls.YearBounds
	pop := m.controls.Controls.PopularityBounds
	c := &m.criteria

	switch m.cursor - len(m.controls.Controls.Genres) {
	case 0:
		c.Years.Low = clamp(c.Years.Low+dir*yearStep, years.Low, c.Years.High)
	case 1:
		c.Years.High = clamp(c.Years.High+dir*yearStep, c.Years.Low, years.High)
	case 2:
		c.Popularity.Low = clamp(c.Popularity.Low+dir*popularityStep, pop.Low, c.Popularity.High)
	case 3:
		c.Popularity.High = clamp(c.Popularity.High+dir*popularityStep, c.Popularity.Low, pop.High)
	}
}

// show switches to page, rendering it unless a result is cached.
func (m *Model) show(page dashboard.Page) tea.Cmd {
	m.page = page
	m.err = nil
	if m.cached(page) {
		m.syncTable()
		return nil
	}
	if m.loading {
		m.pending = true
		return nil
	}
	return m.render(page)
}

// resume renders the page selected while the previous render was running.
func (m *Model) resume() tea.Cmd {
	if !m.pending {
		return nil
	}
	m.pending = false
	if m.cached(m.page) {
		m.syncTable()
		return nil
	}
	return m.render(m.page)
}

func (m *Model) cached(page dashboard.Page) bool {
	switch page {
	case dashboard.Overview:
		return m.overview != nil
	case dashboard.Genres:
		return m.genres != nil
	case dashboard.Features:
		return m.features != nil
	case dashboard.Explore:
		return m.controls != nil
	default:
		return false
	}
}

// render starts a background render of page with a progress listener.
func (m *Model) render(page dashboard.Page) tea.Cmd {
	ch := make(chan dashboard.ProgressUpdate, 16)
	m.err = nil
	m.progress = dashboard.ProgressUpdate{Page: page, Message: "Loading..."}

	var run tea.Cmd
	if page == dashboard.Explore {
		run = m.runExplore(ch)
	} else {
		run = m.runPage(page, ch)
	}

	cmds := []tea.Cmd{run, waitForProgress(ch)}
	if !m.loading {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.loading = true
	return tea.Batch(cmds...)
}

func (m *Model) runPage(page dashboard.Page, ch chan dashboard.ProgressUpdate) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		defer close(ch)

		var (
			result any
			err    error
		)
		switch page {
		case dashboard.Overview:
			result, err = engine.Overview(ctx, ch)
		case dashboard.Genres:
			result, err = engine.Genres(ctx, ch)
		case dashboard.Features:
			result, err = engine.Features(ctx, ch)
		}
		return pageRenderedMsg(page, result, err)
	}
}

func (m *Model) runExplore(ch chan dashboard.ProgressUpdate) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	var criteria *songs.Criteria
	if m.controls != nil {
		c := cloneCriteria(m.criteria)
		criteria = &c
	}

	return func() tea.Msg {
		defer close(ch)

		controls, err := engine.Controls(ctx)
		if err != nil {
			return exploredMsg(nil, nil, err)
		}
		c := controls.Defaults
		if criteria != nil {
			c = *criteria
		}
		result, err := engine.Explore(ctx, ch, c)
		return exploredMsg(controls, result, err)
	}
}

// waitForProgress relays the next progress update. It returns nil once the render closes ch.
func waitForProgress(ch <-chan dashboard.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(update, ch)
	}
}

func cloneCriteria(c songs.Criteria) songs.Criteria {
	c.Genres = slices.Clone(c.Genres)
	return c
}

func clamp(v, low, high int) int {
	return max(low, min(v, high))
}
