package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/portal/internal/sampledata"
	"github.com/okian/portal/pkg/logger"
)

const runTimeout = 5 * time.Minute

func main() {
	defaults := sampledata.DefaultConfig()
	var (
		output    = flag.String("output", defaults.Output, "Destination file")
		format    = flag.String("format", "", "csv or xlsx (default: from the output extension)")
		records   = flag.Int("records", defaults.Records, "Number of transfer records")
		schools   = flag.Int("schools", defaults.Schools, "Number of distinct schools")
		first     = flag.Int("first-season", defaults.FirstYear, "Earliest season")
		last      = flag.Int("last-season", defaults.LastYear, "Latest season")
		nullRate  = flag.Float64("null-rate", defaults.NullRate, "Probability that a nullable field is left empty")
		seed      = flag.Uint64("seed", defaults.Seed, "Generator seed")
		verifyURL = flag.String("verify", "", "Base URL of a server already serving the output")
		timeout   = flag.Duration("timeout", defaults.Timeout, "HTTP request timeout for -verify")
		workers   = flag.Int("workers", defaults.Workers, "Concurrent verification requests")
		logLevel  = flag.String("log-level", "info", "Log level")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.SetLevelString(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := &sampledata.Config{
		Output:    *output,
		Format:    *format,
		Records:   *records,
		Schools:   *schools,
		FirstYear: *first,
		LastYear:  *last,
		NullRate:  *nullRate,
		Seed:      *seed,
		VerifyURL: *verifyURL,
		Timeout:   *timeout,
		Workers:   *workers,
	}

	if _, err := sampledata.Run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "sample data failed: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
