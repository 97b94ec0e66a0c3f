package portal

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/metrics"
)

// DefaultSeason is the season filter applied when none is configured.
const DefaultSeason = 2023

// TableSource hands out the current dataset snapshot.
type TableSource interface {
	Current() *model.Table
}

// Cache memoizes reports. Implementations must return values that share
// no memory with what they stored.
type Cache interface {
	Get(ctx context.Context, key string) (types.Report, bool)
	Set(ctx context.Context, key string, report types.Report)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDefaultSeason sets the season used when a caller passes 0. A value of
// 0 makes the engine follow the latest season in the dataset.
func WithDefaultSeason(season int) Option {
	return func(e *Engine) {
		if season >= 0 {
			e.defaultSeason = season
		}
	}
}

// WithCache enables memoization keyed on (dataset fingerprint, school,
// season). Replicas serving the same content share keys.
func WithCache(c Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// Engine answers school selections against whatever table the source
// currently holds.
type Engine struct {
	source        TableSource
	defaultSeason int
	cache         Cache
}

// NewEngine creates an engine reading from source.
func NewEngine(source TableSource, opts ...Option) *Engine {
	e := &Engine{
		source:        source,
		defaultSeason: DefaultSeason,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveSeason maps a requested season to the one actually queried.
func (e *Engine) ResolveSeason(season int) int {
	return e.resolveSeason(e.source.Current(), season)
}

// resolveSeason resolves against table so that a following query runs on
// the same snapshot the latest season was read from.
func (e *Engine) resolveSeason(table *model.Table, season int) int {
	if season > 0 {
		return season
	}
	if e.defaultSeason > 0 {
		return e.defaultSeason
	}
	return table.LatestSeason()
}

// DefaultSeason returns the configured default; 0 means latest.
func (e *Engine) DefaultSeason() int { return e.defaultSeason }

// Report runs the query for school and wraps it with column descriptors.
// Values are full precision; round with Report.Rounded before display.
func (e *Engine) Report(ctx context.Context, school string, season int) types.Report {
	start := time.Now()
	table := e.source.Current()
	season = e.resolveSeason(table, season)

	key := CacheKey(tableFingerprint(table), school, season)
	if e.cache != nil {
		if r, ok := e.cache.Get(ctx, key); ok {
			metrics.RecordCacheHit()
			metrics.RecordQueryLatency(msSince(start))
			return r
		}
		metrics.RecordCacheMiss()
	}

	res := Query(table, school, season)
	report := types.Report{
		School:         school,
		Season:         season,
		DatasetID:      tableFingerprint(table),
		Outgoing:       res.Outgoing,
		Incoming:       res.Incoming,
		Summary:        res.Summary,
		PlayerColumns:  types.PlayerColumns,
		SummaryColumns: types.SummaryColumns,
	}
	report = report.Clone()

	if e.cache != nil {
		e.cache.Set(ctx, key, report)
	}

	metrics.RecordQuery()
	if len(report.Outgoing) == 0 && len(report.Incoming) == 0 {
		metrics.RecordEmptyQuery()
	}
	metrics.RecordQueryLatency(msSince(start))
	return report
}

// Selection returns the school picker state for the current table.
func (e *Engine) Selection() types.Selection {
	return BuildSelection(e.source.Current())
}

// Seasons lists the seasons present in the current table, newest first.
func (e *Engine) Seasons() []int {
	return e.source.Current().Seasons()
}

// SeasonChoices lists the seasons and the resolved default from a single
// snapshot.
func (e *Engine) SeasonChoices() types.Seasons {
	table := e.source.Current()
	seasons := table.Seasons()
	if seasons == nil {
		seasons = []int{}
	}
	return types.Seasons{Seasons: seasons, Default: e.resolveSeason(table, 0)}
}

// BuildSelection turns the distinct schools of table into picker state.
// No schools is a valid state: Empty is set and Default is nil.
func BuildSelection(table *model.Table) types.Selection {
	schools := model.DistinctSchools(table).Sorted()
	if len(schools) == 0 {
		return types.Selection{Schools: []string{}, Empty: true}
	}
	first := schools[0]
	return types.Selection{Schools: schools, Default: &first}
}

// CacheKey builds the memoization key for one query.
func CacheKey(datasetID, school string, season int) string {
	var b strings.Builder
	b.WriteString(datasetID)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(season))
	b.WriteByte('|')
	b.WriteString(school)
	return b.String()
}

func tableFingerprint(t *model.Table) string {
	if t == nil {
		return ""
	}
	return t.Fingerprint()
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
