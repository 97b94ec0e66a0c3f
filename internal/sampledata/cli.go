package sampledata

import "os"

// ShowHelp prints usage information for the sample data tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Transfer Portal Sample Data
===========================

Writes a synthetic transfer portal dataset for local runs and demos. The
same seed always produces the same file.

Usage:
  go run ./cmd/sample-data [options]

Options:
  -output string
        Destination file (default "data/transfer_portal.csv")
  -format string
        csv or xlsx (default: taken from the output extension)
  -records int
        Number of transfer records (default 2000)
  -schools int
        Number of distinct schools (default 40)
  -first-season int
        Earliest season (default 2021)
  -last-season int
        Latest season (default 2024)
  -null-rate float
        Probability that a nullable field is left empty (default 0.05)
  -seed uint
        Generator seed (default 2023)
  -verify string
        Base URL of a server already serving the output; compares every
        school and season against the generated data
  -timeout duration
        HTTP request timeout for -verify (default 10s)
  -workers int
        Concurrent verification requests (default 2 x CPUs)
  -help
        Show this help

Examples:
  go run ./cmd/sample-data -records 500 -output data/small.csv
  go run ./cmd/sample-data -output data/transfer_portal.xlsx -seed 7
  go run ./cmd/sample-data -verify http://localhost:8080
`)
}
