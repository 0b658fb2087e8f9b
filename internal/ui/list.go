package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songdash/internal/dashboard"
)

var _ list.Item = pageItem{}

// pageItem wraps [dashboard.Page] to implement [list.Item].
type pageItem struct {
	page dashboard.Page
}

func (i pageItem) FilterValue() string { return i.page.Title() }
func (i pageItem) Title() string       { return i.page.Title() }
func (i pageItem) Description() string { return i.page.Heading() }

func pageItems() []list.Item {
	pages := dashboard.Pages()
	items := make([]list.Item, len(pages))
	for i, p := range pages {
		items[i] = pageItem{page: p}
	}
	return items
}
