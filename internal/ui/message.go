package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdash/internal/dashboard"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgPageRendered
	MsgExplored
)

type progressData struct {
	update dashboard.ProgressUpdate
	ch     <-chan dashboard.ProgressUpdate
}

type renderedData struct {
	page   dashboard.Page
	result any
	err    error
}

type exploredData struct {
	controls *dashboard.ControlsResult
	result   *dashboard.ExploreResult
	err      error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]. It carries the channel so the
// listener can be re-armed.
func progressUpdateMsg(update dashboard.ProgressUpdate, ch <-chan dashboard.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: progressData{update: update, ch: ch}}
}

// pageRenderedMsg is the constructor for [MsgPageRendered]
func pageRenderedMsg(page dashboard.Page, result any, err error) Msg {
	return Msg{kind: MsgPageRendered, data: renderedData{page: page, result: result, err: err}}
}

// exploredMsg is the constructor for [MsgExplored]
func exploredMsg(controls *dashboard.ControlsResult, result *dashboard.ExploreResult, err error) Msg {
	return Msg{kind: MsgExplored, data: exploredData{controls: controls, result: result, err: err}}
}
