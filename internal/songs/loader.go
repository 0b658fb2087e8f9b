package songs

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultDateLayout parses DD-MM-YYYY, also accepting single-digit days and months.
const DefaultDateLayout = "2-1-2006"

// Release years outside this window are treated like unparseable dates.
const (
	minReleaseYear = 1678
	maxReleaseYear = 2261
)

// LoadOptions tunes how a source file is parsed.
type LoadOptions struct {
	DateLayout string
}

func (o LoadOptions) layout() string {
	if o.DateLayout == "" {
		return DefaultDateLayout
	}
	return o.DateLayout
}

// Load reads the CSV at path into a [Dataset].
func Load(path string, opts LoadOptions) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: the data file '%s' was not found", shared.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrLoad, err)
	}

	ds, err := Parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, err
	}

	ds.info.Path = path
	ds.info.Fingerprint = xxh3.Hash(data)
	return ds, nil
}

// Parse reads CSV content from r into a [Dataset].
func Parse(r io.Reader, opts LoadOptions) (*Dataset, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", shared.ErrLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", shared.ErrLoad, err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	layout := opts.layout()
	var rows []models.Song
	read, dropped := 0, 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrLoad, err)
		}
		read++

		line, _ := reader.FieldPos(0)
		song, ok, err := parseRecord(record, cols, layout)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", shared.ErrLoad, line, err)
		}
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, song)
	}

	columns := make([]string, 0, len(header)+2)
	for _, h := range header {
		columns = append(columns, strings.TrimSpace(h))
	}
	columns = append(columns, "release_datetime", models.ColumnReleaseYear)

	return &Dataset{
		rows: rows,
		info: SourceInfo{
			Columns:     columns,
			RowsRead:    read,
			RowsDropped: dropped,
			LoadedAt:    time.Now(),
		},
	}, nil
}

// columnIndex holds header positions of the required columns.
type columnIndex struct {
	title, artist, genre, date, popularity, duration int
}

func mapColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}

	cols := columnIndex{
		title:      lookup(models.ColumnTitle),
		artist:     lookup(models.ColumnArtist),
		genre:      lookup(models.ColumnGenre),
		date:       lookup(models.ColumnReleaseDate),
		popularity: lookup(models.ColumnPopularity),
		duration:   lookup(models.ColumnDuration),
	}

	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: missing required column(s): %s", shared.ErrLoad, strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseRecord converts one CSV record. ok is false when the release date does not parse.
func parseRecord(record []string, cols columnIndex, layout string) (models.Song, bool, error) {
	released, err := time.Parse(layout, strings.TrimSpace(record[cols.date]))
	if err != nil || released.Year() < minReleaseYear || released.Year() > maxReleaseYear {
		return models.Song{}, false, nil
	}

	popularity, err := parsePopularity(record[cols.popularity])
	if err != nil {
		return models.Song{}, false, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(record[cols.duration]), 64)
	if err != nil {
		return models.Song{}, false, fmt.Errorf("invalid %s %q", models.ColumnDuration, record[cols.duration])
	}

	return models.Song{
		Title:       record[cols.title],
		Artist:      record[cols.artist],
		Genre:       record[cols.genre],
		ReleaseDate: released,
		ReleaseYear: released.Year(),
		Popularity:  popularity,
		Duration:    duration,
	}, true, nil
}

// parsePopularity accepts integers and integral floats such as "80.0".
func parsePopularity(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", models.ColumnPopularity, raw)
	}
	return int(f), nil
}

// Loader memoizes the dataset for the lifetime of the process.
type Loader struct {
	path   string
	opts   LoadOptions
	logger *log.Logger
	load   func(string, LoadOptions) (*Dataset, error)

	group singleflight.Group
	mu    sync.RWMutex
	ds    *Dataset
}

// NewLoader creates a Loader for the file at path. A nil logger discards output.
func NewLoader(path string, opts LoadOptions, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{path: path, opts: opts, logger: logger, load: Load}
}

// Path returns the source file path.
func (l *Loader) Path() string { return l.path }

// Loaded reports whether a dataset has been cached.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ds != nil
}

// Dataset returns the cached dataset, loading it on first use.
func (l *Loader) Dataset(ctx context.Context) (*Dataset, error) {
	l.mu.RLock()
	ds := l.ds
	l.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	ch := l.group.DoChan(l.path, func() (any, error) {
		l.mu.RLock()
		cached := l.ds
		l.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		start := time.Now()
		loaded, err := l.load(l.path, l.opts)
		if err != nil {
			l.logger.Error("dataset load failed", "path", l.path, "error", err)
			return nil, err
		}

		l.mu.Lock()
		l.ds = loaded
		l.mu.Unlock()

		info := loaded.Source()
		l.logger.Info("dataset loaded",
			"path", l.path,
			"rows", loaded.Len(),
			"dropped", info.RowsDropped,
			"elapsed", time.Since(start),
		)
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}
