package songs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
)

// Range is an inclusive integer interval.
type Range struct {
	Low  int `json:"low" yaml:"low"`
	High int `json:"high" yaml:"high"`
}

// Contains reports whether Low <= v <= High.
func (r Range) Contains(v int) bool {
	return r.Low <= v && v <= r.High
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Low, r.High)
}

// ParseRange parses "LOW:HIGH". Either side may be omitted to keep the corresponding bound of def.
func ParseRange(s string, def Range) (Range, error) {
	low, high, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Range{}, fmt.Errorf("%w: range %q must look like LOW:HIGH", shared.ErrInvalidArgument, s)
	}

	r := def
	if low = strings.TrimSpace(low); low != "" {
		v, err := strconv.Atoi(low)
		if err != nil {
			return Range{}, fmt.Errorf("%w: range %q has a non-integer lower bound", shared.ErrInvalidArgument, s)
		}
		r.Low = v
	}
	if high = strings.TrimSpace(high); high != "" {
		v, err := strconv.Atoi(high)
		if err != nil {
			return Range{}, fmt.Errorf("%w: range %q has a non-integer upper bound", shared.ErrInvalidArgument, s)
		}
		r.High = v
	}
	return r, nil
}

// Criteria is the explorer's conjunctive predicate.
type Criteria struct {
	Genres     []string `json:"genres" yaml:"genres"`
	Years      Range    `json:"years" yaml:"years"`
	Popularity Range    `json:"popularity" yaml:"popularity"`
}

// Settings carries the configured popularity slider bounds and default selection.
type Settings struct {
	PopularityBounds  Range
	DefaultPopularity Range
}

// DefaultSettings returns the [0,100] slider with [50,100] selected.
func DefaultSettings() Settings {
	return Settings{
		PopularityBounds:  Range{Low: 0, High: 100},
		DefaultPopularity: Range{Low: 50, High: 100},
	}
}

// SettingsFromConfig reads the explorer section of the application config.
func SettingsFromConfig(c shared.ExplorerConfig) Settings {
	return Settings{
		PopularityBounds:  Range{Low: c.PopularityMin, High: c.PopularityMax},
		DefaultPopularity: Range{Low: c.DefaultPopularityLow, High: c.DefaultPopularityHigh},
	}
}

// Controls describes the explorer inputs a front-end should offer for a dataset.
type Controls struct {
	Genres           []string `json:"genres" yaml:"genres"`
	YearBounds       Range    `json:"year_bounds" yaml:"year_bounds"`
	PopularityBounds Range    `json:"popularity_bounds" yaml:"popularity_bounds"`
}

// ControlsFor derives the explorer inputs for ds.
func ControlsFor(ds *Dataset, s Settings) Controls {
	years, _ := ds.YearBounds()
	return Controls{
		Genres:           ds.Genres(),
		YearBounds:       years,
		PopularityBounds: s.PopularityBounds,
	}
}

// DefaultCriteria selects every genre, the full observed year range and the configured popularity selection.
func DefaultCriteria(ds *Dataset, s Settings) Criteria {
	years, _ := ds.YearBounds()
	return Criteria{
		Genres:     ds.Genres(),
		Years:      years,
		Popularity: s.DefaultPopularity,
	}
}

// Filter returns the view of ds matching c. An empty genre selection is rejected with [shared.ErrEmptySelection].
func Filter(ds *Dataset, c Criteria) (*Dataset, error) {
	if len(c.Genres) == 0 {
		return nil, fmt.Errorf("%w: please select at least one genre", shared.ErrEmptySelection)
	}

	genres := make(map[string]bool, len(c.Genres))
	for _, g := range c.Genres {
		genres[g] = true
	}

	return ds.Where(func(s models.Song) bool {
		return genres[s.Genre] && c.Years.Contains(s.ReleaseYear) && c.Popularity.Contains(s.Popularity)
	}), nil
}
