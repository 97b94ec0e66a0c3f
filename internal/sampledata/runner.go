package sampledata

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/portal/pkg/logger"
)

// Run generates the dataset, writes it and optionally verifies a server
// against it.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "generating sample dataset",
		logger.String("output", cfg.Output),
		logger.Int("records", cfg.Records),
		logger.Int("schools", cfg.Schools),
		logger.Int("firstSeason", cfg.FirstYear),
		logger.Int("lastSeason", cfg.LastYear),
		logger.Float64("nullRate", cfg.NullRate),
		logger.Any("seed", cfg.Seed))

	records, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	if err := Write(cfg.Output, cfg.Format, records); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}
	stats.Records = len(records)
	stats.Schools = cfg.Schools
	stats.Seasons = cfg.LastYear - cfg.FirstYear + 1

	if cfg.VerifyURL != "" {
		checked, err := Verify(ctx, cfg.VerifyURL, cfg.Timeout, cfg.Workers, records)
		stats.ReportsChecked = checked
		if err != nil {
			return stats, fmt.Errorf("verify %s: %w", cfg.VerifyURL, err)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "sample dataset written",
		logger.String("output", cfg.Output),
		logger.Int("records", stats.Records),
		logger.Int("reportsChecked", stats.ReportsChecked),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}
