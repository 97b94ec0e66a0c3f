package repository

import (
	"time"

	"github.com/okian/portal/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLoadOptions sets the parse options used for every (re)load.
func WithLoadOptions(opts ...LoadOption) Option {
	return func(s *Store) {
		s.loadOpts = append(s.loadOpts, opts...)
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WatcherOption applies a configuration option to the Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets a custom logger for the watcher.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}
