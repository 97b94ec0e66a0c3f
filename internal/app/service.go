// Package service wires the dataset store, query engine and caches into the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/portal/internal/adapters/cache"
	repository "github.com/okian/portal/internal/adapters/repository"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/portal"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
)

// ErrNotStarted is returned by operations that need a loaded dataset.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the transfer portal.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   *repository.Store
	engine  *portal.Engine
	watcher *repository.Watcher
	cache   portal.Cache
	memory  *cache.Memory
	redis   *cache.Redis

	// Configuration
	datasetPath string
	season      int
	loadOpts    []repository.LoadOption
	cacheSize   int
	redisAddr   string
	redisTTL    time.Duration
	redisOpts   []cache.RedisOption
	watch       bool
	debounce    time.Duration

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatasetPath sets the dataset file loaded on Start.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithSeason sets the default season; 0 follows the latest season.
func WithSeason(season int) Option {
	return func(s *Service) {
		if season >= 0 {
			s.season = season
		}
	}
}

// WithLoadOptions sets the parse options used for every load.
func WithLoadOptions(opts ...repository.LoadOption) Option {
	return func(s *Service) {
		s.loadOpts = append(s.loadOpts, opts...)
	}
}

// WithCache injects a report cache, bypassing the built-in ones.
func WithCache(c portal.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithCacheSize bounds the in-memory report cache. Zero or less disables it.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithRedis enables the shared Redis report cache.
func WithRedis(addr string, ttl time.Duration) Option {
	return func(s *Service) {
		s.redisAddr = addr
		s.redisTTL = ttl
	}
}

// WithRedisOptions tunes the Redis client, e.g. password, database or key
// prefix. It has no effect unless WithRedis is also given.
func WithRedisOptions(opts ...cache.RedisOption) Option {
	return func(s *Service) {
		s.redisOpts = append(s.redisOpts, opts...)
	}
}

// WithWatch enables hot reload when the dataset file changes.
func WithWatch(enabled bool) Option {
	return func(s *Service) {
		s.watch = enabled
	}
}

// WithDebounce sets how long file events settle before a reload.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		season:    portal.DefaultSeason,
		cacheSize: 256,
		redisTTL:  10 * time.Minute,
		debounce:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset and brings up the engine. A dataset that cannot
// be loaded is fatal: the *repository.LoadError is returned and the
// service stays stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting transfer portal service...", logger.String("dataset", s.datasetPath))

	store := repository.NewStore(s.datasetPath,
		repository.WithLoadOptions(s.loadOpts...),
		repository.WithLogger(s.logger.Named("repository")),
	)
	if _, err := store.Reload(ctx, repository.TriggerStartup); err != nil {
		return err
	}
	s.store = store

	var engineOpts []portal.Option
	engineOpts = append(engineOpts, portal.WithDefaultSeason(s.season))
	if c := s.buildCache(ctx); c != nil {
		engineOpts = append(engineOpts, portal.WithCache(c))
	}
	s.engine = portal.NewEngine(store, engineOpts...)

	if s.watch {
		w, err := repository.NewWatcher(store,
			repository.WithDebounce(s.debounce),
			repository.WithWatcherLogger(s.logger.Named("watcher")),
		)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			s.logger.Warn(ctx, "dataset watch disabled", logger.Error(err))
		} else {
			s.watcher = w
		}
	}

	s.started = true
	s.startedAt = time.Now()
	table := store.Current()
	s.logger.Info(ctx, "transfer portal service started",
		logger.String("dataset_id", table.ID()),
		logger.Int("records", table.Len()),
		logger.Int("default_season", s.engine.ResolveSeason(0)),
		logger.Bool("watch", s.watcher != nil),
	)
	return nil
}

// buildCache picks the report cache: injected, then Redis, then memory.
// Must be called with s.mu held.
func (s *Service) buildCache(ctx context.Context) portal.Cache {
	if s.cache != nil {
		return s.cache
	}
	if s.redisAddr != "" {
		opts := append([]cache.RedisOption{
			cache.WithTTL(s.redisTTL),
			cache.WithLogger(s.logger.Named("cache")),
		}, s.redisOpts...)
		r, err := cache.NewRedis(ctx, s.redisAddr, opts...)
		if err == nil {
			s.redis = r
			s.cache = r
			return r
		}
		s.logger.Warn(ctx, "redis cache unavailable, using memory cache",
			logger.String("addr", s.redisAddr), logger.Error(err))
	}
	if s.cacheSize > 0 {
		s.memory = cache.NewMemory(cache.WithMaxSize(s.cacheSize))
		s.cache = s.memory
		return s.memory
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping transfer portal service...")

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn(ctx, "closing watcher", logger.Error(err))
		}
		s.watcher = nil
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn(ctx, "closing redis cache", logger.Error(err))
		}
		s.redis = nil
	}

	s.started = false
	s.logger.Info(ctx, "transfer portal service stopped")
}

// Selection returns the school picker state.
func (s *Service) Selection(_ context.Context) types.Selection {
	e := s.currentEngine()
	if e == nil {
		return portal.BuildSelection(nil)
	}
	return e.Selection()
}

// Seasons lists the seasons available and the default one.
func (s *Service) Seasons(_ context.Context) types.Seasons {
	e := s.currentEngine()
	if e == nil {
		return types.Seasons{Seasons: []int{}, Default: s.season}
	}
	return e.SeasonChoices()
}

// Report answers one (school, season) selection at full precision.
// season 0 uses the default season.
func (s *Service) Report(ctx context.Context, school string, season int) (types.Report, error) {
	e := s.currentEngine()
	if e == nil {
		return types.Report{}, ErrNotStarted
	}
	return e.Report(ctx, school, season), nil
}

// Reload re-reads the dataset and swaps it in atomically. On failure the
// previous dataset keeps serving and the error is returned.
func (s *Service) Reload(ctx context.Context, trigger string) (types.DatasetInfo, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return types.DatasetInfo{}, ErrNotStarted
	}
	table, err := store.Reload(ctx, trigger)
	if err != nil {
		return types.DatasetInfo{}, err
	}
	return datasetInfo(table), nil
}

// Dataset describes the active dataset.
func (s *Service) Dataset(_ context.Context) types.DatasetInfo {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return datasetInfo(nil)
	}
	return datasetInfo(store.Current())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"datasetPath":   s.datasetPath,
		"defaultSeason": s.season,
		"watching":      s.watcher != nil,
		"cache":         s.cacheKind(),
	}

	if s.started {
		info := datasetInfo(s.store.Current())
		stats["datasetId"] = info.ID
		stats["fingerprint"] = info.Fingerprint
		stats["records"] = info.Records
		stats["schools"] = info.Schools
		stats["seasons"] = info.Seasons
		stats["loadedAt"] = info.LoadedAt
		stats["loads"] = s.store.Loads()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		if s.memory != nil {
			stats["cachedReports"] = s.memory.Size()
		}
	}
	return stats
}

// Must be called with s.mu held.
func (s *Service) cacheKind() string {
	switch {
	case s.redis != nil:
		return "redis"
	case s.memory != nil:
		return "memory"
	case s.cache != nil:
		return "custom"
	default:
		return "none"
	}
}

func (s *Service) currentEngine() *portal.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func datasetInfo(t *model.Table) types.DatasetInfo {
	if t == nil {
		return types.DatasetInfo{Seasons: []int{}}
	}
	return types.DatasetInfo{
		ID:          t.ID(),
		Fingerprint: t.Fingerprint(),
		Source:      t.Source(),
		Records:     t.Len(),
		Schools:     len(model.DistinctSchools(t)),
		Seasons:     t.Seasons(),
		LoadedAt:    t.LoadedAt(),
	}
}
