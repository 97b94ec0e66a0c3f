// Package repository loads the transfer dataset and owns the active snapshot.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"
)

// Reload triggers, used as metrics labels.
const (
	TriggerStartup = "startup"
	TriggerWatch   = "watch"
	TriggerAPI     = "api"
)

// Store holds the active dataset as an immutable snapshot. Readers call
// Current and keep the returned table for the whole query; a reload
// publishes a complete new table in one atomic swap, so no reader ever
// sees a partially loaded dataset.
type Store struct {
	path     string
	loadOpts []LoadOption
	logger   logger.Logger

	reloadMu sync.Mutex // serializes loads, never held by readers
	current  atomic.Pointer[model.Table]
	reloads  atomic.Int64
}

// NewStore creates a store for the dataset at path. Until the first
// successful load, Current returns an empty table.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(model.NewTable(path, nil))
	return s
}

// Path returns the dataset location.
func (s *Store) Path() string { return s.path }

// Current returns the active table. It is never nil.
func (s *Store) Current() *model.Table {
	return s.current.Load()
}

// Swap installs t as the active table and returns the previous one.
func (s *Store) Swap(t *model.Table) *model.Table {
	if t == nil {
		t = model.NewTable(s.path, nil)
	}
	old := s.current.Swap(t)
	metrics.UpdateDatasetSize(t.Len(), len(model.DistinctSchools(t)), float64(t.LoadedAt().Unix()))
	return old
}

// Reload reads the dataset again and swaps it in. On failure the previous
// table stays active and the *LoadError is returned.
func (s *Store) Reload(ctx context.Context, trigger string) (*model.Table, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	t, err := Load(ctx, s.path, s.loadOpts...)
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordDatasetLoad(errorKind(err), ms)
	if trigger != TriggerStartup {
		metrics.RecordDatasetReload(trigger, errorKind(err))
	}
	if err != nil {
		s.log().Error(ctx, "dataset load failed",
			logger.String("path", s.path),
			logger.String("trigger", trigger),
			logger.Error(err),
		)
		return nil, err
	}

	s.Swap(t)
	s.reloads.Add(1)
	s.log().Info(ctx, "dataset loaded",
		logger.String("path", s.path),
		logger.String("trigger", trigger),
		logger.String("dataset_id", t.ID()),
		logger.Int("records", t.Len()),
		logger.Float64("duration_ms", ms),
	)
	return t, nil
}

// Loads returns how many loads have succeeded.
func (s *Store) Loads() int64 { return s.reloads.Load() }

func (s *Store) log() logger.Logger {
	if s.logger == nil {
		s.logger = logger.Named("repository")
	}
	return s.logger
}
