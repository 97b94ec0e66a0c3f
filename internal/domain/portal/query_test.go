package portal_test

import (
	"testing"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/portal"
	"github.com/okian/portal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type rec struct {
	first, last  string
	origin, dest string
	season       int
	rating       *float64
	stars        *int
}

func build(rows ...rec) *model.Table {
	records := make([]model.TransferRecord, len(rows))
	for i, r := range rows {
		records[i] = model.TransferRecord{
			FirstName: r.first,
			LastName:  r.last,
			Season:    r.season,
			Rating:    r.rating,
			Stars:     r.stars,
		}
		if r.origin != "" {
			records[i].Origin = model.StringPtr(r.origin)
		}
		if r.dest != "" {
			records[i].Destination = model.StringPtr(r.dest)
		}
	}
	return model.NewTable("fixture.csv", records)
}

func summaryFor(rows []types.SummaryRow, name string) types.SummaryRow {
	for _, r := range rows {
		if r.Metric == name {
			return r
		}
	}
	return types.SummaryRow{}
}

func TestQuerySingleRecord(t *testing.T) {
	Convey("Given a dataset with one transfer from Alpha U to Beta U", t, func() {
		table := build(rec{"Sam", "Lee", "Alpha U", "Beta U", 2023, model.Float64Ptr(90.0), model.IntPtr(4)})

		Convey("When querying Alpha U in 2023", func() {
			res := portal.Query(table, "Alpha U", 2023)

			Convey("Then the player is outgoing only", func() {
				So(len(res.Outgoing), ShouldEqual, 1)
				So(res.Incoming, ShouldBeEmpty)
				row := res.Outgoing[0]
				So(row.FirstName, ShouldEqual, "Sam")
				So(row.LastName, ShouldEqual, "Lee")
				So(*row.OriginSchool, ShouldEqual, "Alpha U")
				So(*row.DestinationSchool, ShouldEqual, "Beta U")
				So(*row.Rating, ShouldEqual, 90.0)
				So(*row.Stars, ShouldEqual, 4)
			})

			Convey("Then incoming means and both scores are undefined", func() {
				rating := summaryFor(res.Summary, types.MetricRating)
				So(*rating.Outgoing, ShouldEqual, 90.0)
				So(rating.Incoming, ShouldBeNil)
				So(rating.Score, ShouldBeNil)
			})
		})

		Convey("When querying Beta U in 2023", func() {
			res := portal.Query(table, "Beta U", 2023)

			Convey("Then the player is incoming only", func() {
				So(res.Outgoing, ShouldBeEmpty)
				So(len(res.Incoming), ShouldEqual, 1)
				So(res.Incoming[0].FirstName, ShouldEqual, "Sam")
			})

			Convey("Then outgoing means are null and scores never divide by zero", func() {
				for _, m := range []string{types.MetricRating, types.MetricStars} {
					row := summaryFor(res.Summary, m)
					So(row.Outgoing, ShouldBeNil)
					So(row.Score, ShouldBeNil)
				}
			})
		})

		Convey("When querying Alpha U in another season", func() {
			res := portal.Query(table, "Alpha U", 2022)

			Convey("Then both views are empty", func() {
				So(res.Outgoing, ShouldBeEmpty)
				So(res.Incoming, ShouldBeEmpty)
			})
		})

		Convey("When querying an unknown school", func() {
			res := portal.Query(table, "Nowhere", 2023)

			Convey("Then the result is empty, not an error", func() {
				So(res.Outgoing, ShouldBeEmpty)
				So(res.Incoming, ShouldBeEmpty)
				So(len(res.Summary), ShouldEqual, 2)
			})
		})
	})
}

func TestQueryOrdering(t *testing.T) {
	Convey("Given two outgoing players with stars 3 and 5", t, func() {
		table := build(
			rec{"Three", "A", "Alpha U", "Beta U", 2023, nil, model.IntPtr(3)},
			rec{"Five", "B", "Alpha U", "Gamma U", 2023, nil, model.IntPtr(5)},
		)

		Convey("Then the five-star player is listed first", func() {
			res := portal.Query(table, "Alpha U", 2023)
			So(res.Outgoing[0].FirstName, ShouldEqual, "Five")
			So(res.Outgoing[1].FirstName, ShouldEqual, "Three")
		})
	})

	Convey("Given ties and null stars", t, func() {
		table := build(
			rec{"NullFirst", "A", "Alpha U", "X", 2023, nil, nil},
			rec{"TieA", "A", "Alpha U", "X", 2023, nil, model.IntPtr(4)},
			rec{"Low", "A", "Alpha U", "X", 2023, nil, model.IntPtr(1)},
			rec{"TieB", "A", "Alpha U", "X", 2023, nil, model.IntPtr(4)},
			rec{"TieC", "A", "Alpha U", "X", 2023, nil, model.IntPtr(4)},
		)

		Convey("Then ties keep dataset order and nulls go last", func() {
			res := portal.Query(table, "Alpha U", 2023)
			names := make([]string, len(res.Outgoing))
			for i, r := range res.Outgoing {
				names[i] = r.FirstName
			}
			So(names, ShouldResemble, []string{"TieA", "TieB", "TieC", "Low", "NullFirst"})
		})

		Convey("Then adjacent rows never increase in stars", func() {
			res := portal.Query(table, "Alpha U", 2023)
			for i := 0; i+1 < len(res.Outgoing); i++ {
				a, b := res.Outgoing[i].Stars, res.Outgoing[i+1].Stars
				if a != nil && b != nil {
					So(*a, ShouldBeGreaterThanOrEqualTo, *b)
				}
				if a == nil {
					So(b, ShouldBeNil)
				}
			}
		})
	})
}

func TestQueryFiltering(t *testing.T) {
	Convey("Given a mixed dataset", t, func() {
		table := build(
			rec{"P1", "A", "Alpha U", "Beta U", 2023, model.Float64Ptr(80), model.IntPtr(3)},
			rec{"P2", "A", "Beta U", "Alpha U", 2023, model.Float64Ptr(90), model.IntPtr(4)},
			rec{"P3", "A", "Alpha U", "", 2023, model.Float64Ptr(70), model.IntPtr(2)},
			rec{"P4", "A", "", "Alpha U", 2023, model.Float64Ptr(95), model.IntPtr(5)},
			rec{"P5", "A", "Alpha U", "Gamma U", 2022, model.Float64Ptr(60), model.IntPtr(1)},
			rec{"P6", "A", "Alpha U", "Alpha U", 2023, nil, nil},
		)

		Convey("Then every outgoing row leaves the school in the season", func() {
			res := portal.Query(table, "Alpha U", 2023)
			So(len(res.Outgoing), ShouldEqual, 3)
			for _, r := range res.Outgoing {
				So(r.OriginSchool, ShouldNotBeNil)
				So(*r.OriginSchool, ShouldEqual, "Alpha U")
			}
		})

		Convey("Then every incoming row joins the school in the season", func() {
			res := portal.Query(table, "Alpha U", 2023)
			So(len(res.Incoming), ShouldEqual, 3)
			for _, r := range res.Incoming {
				So(r.DestinationSchool, ShouldNotBeNil)
				So(*r.DestinationSchool, ShouldEqual, "Alpha U")
			}
		})

		Convey("Then null origins and destinations keep both school columns", func() {
			res := portal.Query(table, "Alpha U", 2023)
			var p3, p4 *types.PlayerRow
			for i := range res.Outgoing {
				if res.Outgoing[i].FirstName == "P3" {
					p3 = &res.Outgoing[i]
				}
			}
			for i := range res.Incoming {
				if res.Incoming[i].FirstName == "P4" {
					p4 = &res.Incoming[i]
				}
			}
			So(p3, ShouldNotBeNil)
			So(p3.DestinationSchool, ShouldBeNil)
			So(p4, ShouldNotBeNil)
			So(p4.OriginSchool, ShouldBeNil)
		})

		Convey("Then summary means skip nulls", func() {
			res := portal.Query(table, "Alpha U", 2023)
			rating := summaryFor(res.Summary, types.MetricRating)
			stars := summaryFor(res.Summary, types.MetricStars)
			So(*rating.Outgoing, ShouldEqual, 75.0)
			So(*rating.Incoming, ShouldEqual, 92.5)
			So(*stars.Outgoing, ShouldEqual, 2.5)
			So(*stars.Incoming, ShouldEqual, 4.5)
			So(*stars.Score, ShouldEqual, 1.8)
		})
	})
}

func TestQuerySummary(t *testing.T) {
	Convey("Given outgoing mean rating 80 and incoming mean rating 100", t, func() {
		table := build(
			rec{"Out1", "A", "Alpha U", "X", 2023, model.Float64Ptr(70), model.IntPtr(3)},
			rec{"Out2", "A", "Alpha U", "Y", 2023, model.Float64Ptr(90), model.IntPtr(3)},
			rec{"In1", "A", "Z", "Alpha U", 2023, model.Float64Ptr(100), model.IntPtr(4)},
		)

		Convey("Then the rating score is 1.25", func() {
			res := portal.Query(table, "Alpha U", 2023)
			rating := summaryFor(res.Summary, types.MetricRating)
			So(*rating.Score, ShouldEqual, 1.25)
			So(*types.Round2(rating.Score), ShouldEqual, 1.25)
		})
	})

	Convey("Given an outgoing group whose ratings are all null", t, func() {
		table := build(
			rec{"Out", "A", "Alpha U", "X", 2023, nil, model.IntPtr(0)},
			rec{"In", "A", "Z", "Alpha U", 2023, model.Float64Ptr(88), model.IntPtr(3)},
		)

		Convey("Then the rating mean and score are undefined", func() {
			res := portal.Query(table, "Alpha U", 2023)
			rating := summaryFor(res.Summary, types.MetricRating)
			So(rating.Outgoing, ShouldBeNil)
			So(rating.Score, ShouldBeNil)
		})

		Convey("Then a zero outgoing stars mean gives an undefined score", func() {
			res := portal.Query(table, "Alpha U", 2023)
			stars := summaryFor(res.Summary, types.MetricStars)
			So(*stars.Outgoing, ShouldEqual, 0.0)
			So(stars.Score, ShouldBeNil)
		})
	})
}

func TestQueryDoesNotAlias(t *testing.T) {
	Convey("Given a query result", t, func() {
		table := build(rec{"Sam", "Lee", "Alpha U", "Beta U", 2023, model.Float64Ptr(90), model.IntPtr(4)})
		res := portal.Query(table, "Alpha U", 2023)

		Convey("When the caller mutates it", func() {
			*res.Outgoing[0].Rating = 1
			*res.Outgoing[0].Stars = 1
			*res.Outgoing[0].OriginSchool = "Changed"

			Convey("Then the table is untouched", func() {
				r := table.At(0)
				So(*r.Rating, ShouldEqual, 90.0)
				So(*r.Stars, ShouldEqual, 4)
				So(*r.Origin, ShouldEqual, "Alpha U")
			})
		})
	})
}

func TestRatio(t *testing.T) {
	Convey("Given ratio inputs", t, func() {
		So(*portal.Ratio(model.Float64Ptr(100), model.Float64Ptr(80)), ShouldEqual, 1.25)
		So(portal.Ratio(nil, model.Float64Ptr(80)), ShouldBeNil)
		So(portal.Ratio(model.Float64Ptr(100), nil), ShouldBeNil)
		So(portal.Ratio(model.Float64Ptr(100), model.Float64Ptr(0)), ShouldBeNil)
		So(*portal.Ratio(model.Float64Ptr(0), model.Float64Ptr(5)), ShouldEqual, 0.0)
	})
}
