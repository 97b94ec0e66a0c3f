// Package sampledata generates synthetic transfer portal datasets for local
// runs and demos, and can check a running server against them.
package sampledata

import (
	"runtime"
	"time"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config holds configuration for one generation run.
type Config struct {
	Output    string        // Destination file; the format follows its extension unless Format is set
	Format    string        // csv or xlsx
	Records   int           // Number of transfer records
	Schools   int           // Number of distinct schools to draw from
	FirstYear int           // Earliest season
	LastYear  int           // Latest season
	NullRate  float64       // Probability that a nullable field is left empty
	Seed      uint64        // Generator seed; the same seed yields the same dataset
	VerifyURL string        // Base URL of a server already serving Output; empty skips verification
	Timeout   time.Duration // HTTP request timeout for verification
	Workers   int           // Concurrent verification requests
}

// DefaultConfig returns the settings used by the CLI when no flags are given.
func DefaultConfig() *Config {
	return &Config{
		Output:    "data/transfer_portal.csv",
		Records:   2000,
		Schools:   40,
		FirstYear: 2021,
		LastYear:  2024,
		NullRate:  0.05,
		Seed:      2023,
		Timeout:   10 * time.Second,
		Workers:   runtime.NumCPU() * 2,
	}
}

// Stats summarizes a run.
type Stats struct {
	Records        int
	Schools        int
	Seasons        int
	ReportsChecked int
	StartTime      time.Time
	Duration       time.Duration
}
