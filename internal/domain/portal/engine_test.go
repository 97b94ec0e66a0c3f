package portal_test

import (
	"context"
	"testing"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/portal"
	"github.com/okian/portal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type staticSource struct {
	table *model.Table
}

func (s *staticSource) Current() *model.Table { return s.table }

// swappingSource hands out its tables in turn, like a store reloading
// between two reads.
type swappingSource struct {
	tables []*model.Table
	calls  int
}

func (s *swappingSource) Current() *model.Table {
	t := s.tables[min(s.calls, len(s.tables)-1)]
	s.calls++
	return t
}

type mapCache struct {
	data map[string]types.Report
	gets int
	hits int
}

func (c *mapCache) Get(_ context.Context, key string) (types.Report, bool) {
	c.gets++
	r, ok := c.data[key]
	if ok {
		c.hits++
		return r.Clone(), true
	}
	return types.Report{}, false
}

func (c *mapCache) Set(_ context.Context, key string, r types.Report) {
	c.data[key] = r.Clone()
}

func TestEngineReport(t *testing.T) {
	Convey("Given an engine over a two-season dataset", t, func() {
		table := build(
			rec{"Old", "A", "Alpha U", "Beta U", 2022, model.Float64Ptr(80), model.IntPtr(3)},
			rec{"New", "A", "Alpha U", "Beta U", 2024, model.Float64Ptr(90), model.IntPtr(4)},
			rec{"Mid", "A", "Alpha U", "Beta U", 2023, model.Float64Ptr(85), model.IntPtr(5)},
		)
		src := &staticSource{table: table}
		ctx := context.Background()

		Convey("When no season is configured", func() {
			engine := portal.NewEngine(src)

			Convey("Then 2023 is used by default", func() {
				r := engine.Report(ctx, "Alpha U", 0)
				So(r.Season, ShouldEqual, 2023)
				So(r.Outgoing[0].FirstName, ShouldEqual, "Mid")
			})

			Convey("Then an explicit season wins", func() {
				r := engine.Report(ctx, "Alpha U", 2022)
				So(r.Season, ShouldEqual, 2022)
				So(r.Outgoing[0].FirstName, ShouldEqual, "Old")
			})

			Convey("Then the report carries columns and the dataset ID", func() {
				r := engine.Report(ctx, "Beta U", 0)
				So(r.DatasetID, ShouldEqual, table.Fingerprint())
				So(r.PlayerColumns, ShouldResemble, types.PlayerColumns)
				So(r.SummaryColumns, ShouldResemble, types.SummaryColumns)
				So(len(r.Incoming), ShouldEqual, 1)
			})
		})

		Convey("When the engine follows the latest season", func() {
			engine := portal.NewEngine(src, portal.WithDefaultSeason(0))

			Convey("Then the newest season is queried", func() {
				So(engine.ResolveSeason(0), ShouldEqual, 2024)
				r := engine.Report(ctx, "Alpha U", 0)
				So(r.Outgoing[0].FirstName, ShouldEqual, "New")
			})
		})

		Convey("When a cache is attached", func() {
			cache := &mapCache{data: map[string]types.Report{}}
			engine := portal.NewEngine(src, portal.WithCache(cache))
			plain := portal.NewEngine(src)

			first := engine.Report(ctx, "Alpha U", 2023)
			second := engine.Report(ctx, "Alpha U", 2023)

			Convey("Then the second call is served from cache", func() {
				So(cache.gets, ShouldEqual, 2)
				So(cache.hits, ShouldEqual, 1)
			})

			Convey("Then cached and uncached results are identical", func() {
				So(second, ShouldResemble, first)
				So(second, ShouldResemble, plain.Report(ctx, "Alpha U", 2023))
			})

			Convey("Then a new dataset load misses the cache", func() {
				src.table = build(rec{"Other", "A", "Alpha U", "Beta U", 2023, nil, nil})
				r := engine.Report(ctx, "Alpha U", 2023)
				So(r.Outgoing[0].FirstName, ShouldEqual, "Other")
				So(cache.hits, ShouldEqual, 1)
			})
		})
	})
}

func TestEngineSnapshots(t *testing.T) {
	Convey("Given an engine following the latest season while the data reloads", t, func() {
		older := build(rec{"Old", "A", "Alpha U", "Beta U", 2022, nil, model.IntPtr(3)})
		newer := build(rec{"New", "A", "Gamma U", "Beta U", 2024, nil, model.IntPtr(4)})
		ctx := context.Background()

		Convey("When a report is computed", func() {
			src := &swappingSource{tables: []*model.Table{older, newer}}
			engine := portal.NewEngine(src, portal.WithDefaultSeason(0))
			r := engine.Report(ctx, "Alpha U", 0)

			Convey("Then the season and the rows come from the same snapshot", func() {
				So(src.calls, ShouldEqual, 1)
				So(r.Season, ShouldEqual, 2022)
				So(len(r.Outgoing), ShouldEqual, 1)
				So(r.DatasetID, ShouldEqual, older.Fingerprint())
			})
		})

		Convey("When the season choices are listed", func() {
			src := &swappingSource{tables: []*model.Table{older, newer}}
			choices := portal.NewEngine(src, portal.WithDefaultSeason(0)).SeasonChoices()

			Convey("Then the default is one of the listed seasons", func() {
				So(src.calls, ShouldEqual, 1)
				So(choices.Seasons, ShouldResemble, []int{2022})
				So(choices.Default, ShouldEqual, 2022)
			})
		})
	})

	Convey("Given two replicas that loaded the same records separately", t, func() {
		rows := []rec{
			{"Sam", "Lee", "Alpha U", "Beta U", 2023, model.Float64Ptr(90), model.IntPtr(4)},
			{"Ann", "Poe", "Beta U", "Alpha U", 2023, model.Float64Ptr(80), model.IntPtr(3)},
		}
		first, second := build(rows...), build(rows...)
		shared := &mapCache{data: map[string]types.Report{}}
		ctx := context.Background()

		a := portal.NewEngine(&staticSource{table: first}, portal.WithCache(shared))
		b := portal.NewEngine(&staticSource{table: second}, portal.WithCache(shared))
		fromA := a.Report(ctx, "Alpha U", 2023)
		fromB := b.Report(ctx, "Alpha U", 2023)

		Convey("Then the second replica is served from the shared cache", func() {
			So(first.ID(), ShouldNotEqual, second.ID())
			So(shared.hits, ShouldEqual, 1)
			So(fromB, ShouldResemble, fromA)
		})
	})
}

func TestSelection(t *testing.T) {
	Convey("Given a dataset with schools", t, func() {
		table := build(
			rec{"A", "A", "Gamma U", "Alpha U", 2023, nil, nil},
			rec{"B", "B", "Beta U", "", 2023, nil, nil},
		)

		Convey("Then the picker lists sorted schools with a default", func() {
			sel := portal.BuildSelection(table)
			So(sel.Empty, ShouldBeFalse)
			So(sel.Schools, ShouldResemble, []string{"Alpha U", "Beta U", "Gamma U"})
			So(*sel.Default, ShouldEqual, "Alpha U")
		})
	})

	Convey("Given an empty dataset", t, func() {
		engine := portal.NewEngine(&staticSource{table: build()})

		Convey("Then the picker is in the empty state instead of failing", func() {
			sel := engine.Selection()
			So(sel.Empty, ShouldBeTrue)
			So(sel.Default, ShouldBeNil)
			So(sel.Schools, ShouldBeEmpty)
		})

		Convey("Then queries still return empty reports", func() {
			r := engine.Report(context.Background(), "Anything", 0)
			So(r.Outgoing, ShouldBeEmpty)
			So(r.Incoming, ShouldBeEmpty)
			So(engine.Seasons(), ShouldBeEmpty)
		})
	})
}

func TestCacheKey(t *testing.T) {
	Convey("Given cache keys", t, func() {
		So(portal.CacheKey("ds", "Alpha U", 2023), ShouldEqual, "ds|2023|Alpha U")
		So(portal.CacheKey("ds", "Alpha U", 2023), ShouldNotEqual, portal.CacheKey("ds2", "Alpha U", 2023))
		So(portal.CacheKey("ds", "Alpha U", 2023), ShouldNotEqual, portal.CacheKey("ds", "Alpha U", 2022))
	})
}
