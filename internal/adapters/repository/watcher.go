package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/okian/portal/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads the store whenever its dataset file changes. It watches
// the parent directory so that editors which replace the file by rename
// are picked up too.
type Watcher struct {
	store    *Store
	target   string
	debounce time.Duration
	logger   logger.Logger

	fsw      *fsnotify.Watcher
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewWatcher prepares a watcher for store's dataset path.
func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	target, err := filepath.Abs(store.Path())
	if err != nil {
		return nil, fmt.Errorf("resolve dataset path: %w", err)
	}
	w := &Watcher{
		store:    store,
		target:   target,
		debounce: defaultDebounce,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named("watcher")
	}
	return w, nil
}

// Start begins watching. It returns once the watch is registered.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.target)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.target), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info(ctx, "watching dataset", logger.String("path", w.target), logger.Duration("debounce", w.debounce))
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug(ctx, "dataset changed", logger.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			// A failed reload keeps the previous table; Reload logs it.
			_, _ = w.store.Reload(ctx, TriggerWatch)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "watcher error", logger.Error(err))
		}
	}
}

// Close stops watching and waits for the loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.wg.Wait()
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}
