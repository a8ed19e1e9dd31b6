package model

import "time"

// Summary captures metrics from a single extraction run.
type Summary struct {
	RunID        string
	Source       string
	SourceSHA256 string
	RecordsRead  int64
	Matches      int64
	Converted    int64
	Unrecognized int64
	ByPattern    map[string]int64
	DurationRead time.Duration
	Duration     time.Duration
}
