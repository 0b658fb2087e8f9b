package songs

import (
	"errors"
	"slices"
	"testing"

	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	th "github.com/desertthunder/songdash/internal/testing"
)

func TestRange(t *testing.T) {
	tc := []struct {
		name string
		r    Range
		v    int
		want bool
	}{
		{name: "inside", r: Range{Low: 10, High: 20}, v: 15, want: true},
		{name: "low edge", r: Range{Low: 10, High: 20}, v: 10, want: true},
		{name: "high edge", r: Range{Low: 10, High: 20}, v: 20, want: true},
		{name: "below", r: Range{Low: 10, High: 20}, v: 9, want: false},
		{name: "above", r: Range{Low: 10, High: 20}, v: 21, want: false},
		{name: "inverted", r: Range{Low: 20, High: 10}, v: 15, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.v); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}

	if got := (Range{Low: 50, High: 100}).String(); got != "50:100" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseRange(t *testing.T) {
	def := Range{Low: 0, High: 100}
	tc := []struct {
		name    string
		input   string
		want    Range
		wantErr bool
	}{
		{name: "both bounds", input: "50:90", want: Range{Low: 50, High: 90}},
		{name: "open low", input: ":90", want: Range{Low: 0, High: 90}},
		{name: "open high", input: "2010:", want: Range{Low: 2010, High: 100}},
		{name: "spaces", input: " 1 : 2 ", want: Range{Low: 1, High: 2}},
		{name: "missing colon", input: "50", wantErr: true},
		{name: "non-integer", input: "a:b", wantErr: true},
		{name: "bad high", input: "1:x", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.input, def)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRange() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	two := New([]models.Song{
		song("A", "Pop", 2010, 80),
		song("B", "Rock", 2015, 40),
	})

	t.Run("keeps rows matching every condition", func(t *testing.T) {
		view, err := Filter(two, Criteria{
			Genres:     []string{"Pop"},
			Years:      Range{Low: 2000, High: 2020},
			Popularity: Range{Low: 50, High: 100},
		})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}

		if got := titles(view); !slices.Equal(got, []string{"A"}) {
			t.Errorf("got %v, want [A]", got)
		}
		if two.Len() != 2 {
			t.Error("base dataset must be untouched")
		}
	})

	t.Run("empty genre selection", func(t *testing.T) {
		view, err := Filter(two, Criteria{
			Years:      Range{Low: 2000, High: 2020},
			Popularity: Range{Low: 0, High: 100},
		})
		if !errors.Is(err, shared.ErrEmptySelection) {
			t.Errorf("expected ErrEmptySelection, got %v", err)
		}
		if view != nil {
			t.Error("expected no view for an empty selection")
		}
	})

	t.Run("unknown genre matches nothing", func(t *testing.T) {
		view, err := Filter(two, Criteria{
			Genres:     []string{"pop"},
			Years:      Range{Low: 2000, High: 2020},
			Popularity: Range{Low: 0, High: 100},
		})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if view.Len() != 0 {
			t.Errorf("genre matching is case sensitive, got %v", titles(view))
		}
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		view, err := Filter(two, Criteria{
			Genres:     []string{"Pop", "Rock"},
			Years:      Range{Low: 2010, High: 2015},
			Popularity: Range{Low: 40, High: 80},
		})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if view.Len() != 2 {
			t.Errorf("expected both rows, got %v", titles(view))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		ds, err := Load(th.WriteSampleSongs(t), LoadOptions{})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		c := DefaultCriteria(ds, DefaultSettings())

		once, err := Filter(ds, c)
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		twice, err := Filter(once, c)
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}

		if !slices.Equal(once.Songs(), twice.Songs()) {
			t.Errorf("second pass changed the view: %v vs %v", titles(once), titles(twice))
		}
	})
}

func TestDefaults(t *testing.T) {
	ds, err := Load(th.WriteSampleSongs(t), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("default criteria select everything but low popularity", func(t *testing.T) {
		c := DefaultCriteria(ds, DefaultSettings())

		if !slices.Equal(c.Genres, []string{"Electronic", "Pop", "Rock"}) {
			t.Errorf("genres = %v", c.Genres)
		}
		if c.Years != (Range{Low: 2005, High: 2020}) {
			t.Errorf("years = %v", c.Years)
		}
		if c.Popularity != (Range{Low: 50, High: 100}) {
			t.Errorf("popularity = %v", c.Popularity)
		}

		view, err := Filter(ds, c)
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		want := []string{"Midnight Drive", "Low Tide", "Static Bloom", "Paper Crowns"}
		if got := titles(view); !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("controls", func(t *testing.T) {
		c := ControlsFor(ds, DefaultSettings())

		if c.PopularityBounds != (Range{Low: 0, High: 100}) {
			t.Errorf("popularity bounds = %v", c.PopularityBounds)
		}
		if c.YearBounds != (Range{Low: 2005, High: 2020}) {
			t.Errorf("year bounds = %v", c.YearBounds)
		}
		if len(c.Genres) != 3 {
			t.Errorf("genres = %v", c.Genres)
		}
	})

	t.Run("settings from config", func(t *testing.T) {
		s := SettingsFromConfig(shared.DefaultConfig().Explorer)
		if s != DefaultSettings() {
			t.Errorf("default config should match default settings, got %+v", s)
		}
	})
}
