package disc

import "time"

// Title captures the metadata for a single title discovered on a disc.
type Title struct {
	Label    string
	Duration time.Duration
	Chapters []time.Duration
}

// Disc aggregates a physical disc's label and its titles.
type Disc struct {
	Label  string
	Titles []Title
}
