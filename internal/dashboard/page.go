package dashboard

import (
	"fmt"

	"github.com/desertthunder/songdash/internal/shared"
)

// Page identifies one of the dashboard pages.
type Page int

const (
	Overview Page = iota
	Genres
	Features
	Explore
)

// Pages lists every page in navigation order.
func Pages() []Page {
	return []Page{Overview, Genres, Features, Explore}
}

// String returns the page's URL slug.
func (p Page) String() string {
	switch p {
	case Overview:
		return "overview"
	case Genres:
		return "genres"
	case Features:
		return "features"
	case Explore:
		return "explore"
	default:
		return ""
	}
}

// Title returns the page's display name.
func (p Page) Title() string {
	switch p {
	case Overview:
		return "Overview Dashboard"
	case Genres:
		return "Genre Deep Dive"
	case Features:
		return "Feature & Popularity Analysis"
	case Explore:
		return "Interactive Song Explorer"
	default:
		return ""
	}
}

// Heading returns the header shown at the top of the page.
func (p Page) Heading() string {
	switch p {
	case Overview:
		return "Main Dashboard: At a Glance"
	default:
		return p.Title()
	}
}

// ParsePage resolves a slug to a [Page].
func ParsePage(slug string) (Page, error) {
	for _, p := range Pages() {
		if p.String() == slug {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown page %q", shared.ErrInvalidArgument, slug)
}
