// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SongsHeader is the header row of a well-formed songs file.
const SongsHeader = "Title,Artist,Genre,Release Date,Popularity,Duration"

// SampleSongsCSV is a small well-formed dataset spanning three genres and four years.
//
// The "Broken Date" row carries an unparseable release date and is dropped by the loader.
const SampleSongsCSV = SongsHeader + `
Midnight Drive,Nova,Pop,01-06-2010,80,200
Iron Hearts,Granite,Rock,15-07-2015,40,180
Low Tide,Nova,Pop,03-02-2010,55,240.5
Static Bloom,Wire Choir,Electronic,28-11-2005,92,305
Paper Crowns,Granite,Rock,09-09-2020,67,198
Broken Date,Nobody,Pop,2010-06-01,99,120
Glass Orbit,Wire Choir,Electronic,12-12-2015,30,410
`

// WriteFile writes content to name inside a fresh temp dir and returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteSongsCSV writes a songs file with the standard header followed by rows.
func WriteSongsCSV(t *testing.T, rows ...string) string {
	t.Helper()
	return WriteFile(t, "songs.csv", SongsHeader+"\n"+strings.Join(rows, "\n")+"\n")
}

// WriteSampleSongs writes [SampleSongsCSV] and returns its path.
func WriteSampleSongs(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "songs.csv", SampleSongsCSV)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
