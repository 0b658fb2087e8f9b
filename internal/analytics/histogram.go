package analytics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/desertthunder/songdash/internal/models"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/desertthunder/songdash/internal/songs"
)

// DefaultBuckets is the bucket count used when a non-positive count is requested.
const DefaultBuckets = 30

// Field names a numeric song attribute that can be bucketed.
type Field string

const (
	FieldPopularity  Field = models.ColumnPopularity
	FieldDuration    Field = models.ColumnDuration
	FieldReleaseYear Field = models.ColumnReleaseYear
)

// ParseField resolves a column name to a [Field].
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldPopularity, FieldDuration, FieldReleaseYear:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown numeric field %q", shared.ErrInvalidArgument, name)
	}
}

// Value extracts the field from s.
func (f Field) Value(s models.Song) float64 {
	switch f {
	case FieldPopularity:
		return float64(s.Popularity)
	case FieldDuration:
		return s.Duration
	case FieldReleaseYear:
		return float64(s.ReleaseYear)
	default:
		return math.NaN()
	}
}

// Bucket is one equal-width interval. Every bucket is half-open [Low, High) except the last, which is closed.
type Bucket struct {
	Low   float64 `json:"low" yaml:"low"`
	High  float64 `json:"high" yaml:"high"`
	Count int     `json:"count" yaml:"count"`
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s-%s", shared.FormatFloat(b.Low), shared.FormatFloat(b.High))
}

// Histogram splits the observed range of field into bucketCount equal-width buckets.
//
// A non-positive bucketCount uses [DefaultBuckets]. An empty dataset yields no buckets and a
// dataset whose values are all equal yields a single bucket.
func Histogram(ds *songs.Dataset, field Field, bucketCount int) ([]Bucket, error) {
	if _, err := ParseField(string(field)); err != nil {
		return nil, err
	}
	if bucketCount <= 0 {
		bucketCount = DefaultBuckets
	}
	if ds.Len() == 0 {
		return nil, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range ds.All() {
		v := field.Value(s)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if lo == hi {
		return []Bucket{{Low: lo, High: hi, Count: ds.Len()}}, nil
	}

	width := (hi - lo) / float64(bucketCount)
	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		buckets[i].Low = lo + float64(i)*width
		buckets[i].High = lo + float64(i+1)*width
	}
	buckets[bucketCount-1].High = hi

	for _, s := range ds.All() {
		i := int((field.Value(s) - lo) / width)
		buckets[min(max(i, 0), bucketCount-1)].Count++
	}
	return buckets, nil
}

// Sample draws n distinct songs uniformly at random. The source is unseeded, so repeated calls differ.
//
// n outside [0, ds.Len()] fails with [shared.ErrSampleBounds].
func Sample(ds *songs.Dataset, n int) (*songs.Dataset, error) {
	if n < 0 || n > ds.Len() {
		return nil, fmt.Errorf("%w: cannot sample %d rows from %d", shared.ErrSampleBounds, n, ds.Len())
	}

	positions := rand.Perm(ds.Len())[:n]
	return ds.Pick(positions), nil
}
