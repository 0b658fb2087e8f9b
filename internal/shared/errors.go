package shared

import "fmt"

var (
	// Dataset errors
	ErrNotFound       = fmt.Errorf("data file not found")
	ErrLoad           = fmt.Errorf("failed to load data")
	ErrEmptySelection = fmt.Errorf("no genres selected")
	ErrSampleBounds   = fmt.Errorf("sample size out of bounds")

	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
