package model_test

import (
	"testing"

	model "github.com/okian/portal/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func record(first, origin, dest string, season int) model.TransferRecord {
	r := model.TransferRecord{FirstName: first, LastName: "Doe", Season: season}
	if origin != "" {
		r.Origin = model.StringPtr(origin)
	}
	if dest != "" {
		r.Destination = model.StringPtr(dest)
	}
	return r
}

func TestTable(t *testing.T) {
	convey.Convey("Given a table built from records", t, func() {
		records := []model.TransferRecord{
			record("Sam", "Alpha U", "Beta U", 2023),
			record("Ann", "Beta U", "", 2022),
			record("Joe", "", "Gamma U", 2023),
		}
		table := model.NewTable("portal.csv", records)

		convey.Convey("Then it keeps order, source and a load ID", func() {
			convey.So(table.Len(), convey.ShouldEqual, 3)
			convey.So(table.At(0).FirstName, convey.ShouldEqual, "Sam")
			convey.So(table.At(2).FirstName, convey.ShouldEqual, "Joe")
			convey.So(table.Source(), convey.ShouldEqual, "portal.csv")
			convey.So(table.ID(), convey.ShouldNotBeEmpty)
			convey.So(table.LoadedAt().IsZero(), convey.ShouldBeFalse)
		})

		convey.Convey("Then mutating the input slice does not leak into the table", func() {
			records[0].FirstName = "Changed"
			convey.So(table.At(0).FirstName, convey.ShouldEqual, "Sam")
		})

		convey.Convey("Then Records returns a copy", func() {
			out := table.Records()
			out[0].FirstName = "Changed"
			convey.So(table.At(0).FirstName, convey.ShouldEqual, "Sam")
		})

		convey.Convey("Then seasons are distinct and newest first", func() {
			convey.So(table.Seasons(), convey.ShouldResemble, []int{2023, 2022})
			convey.So(table.LatestSeason(), convey.ShouldEqual, 2023)
		})

		convey.Convey("Then each load gets its own ID", func() {
			other := model.NewTable("portal.csv", records)
			convey.So(other.ID(), convey.ShouldNotEqual, table.ID())
		})

		convey.Convey("Then the fingerprint follows content, not the load", func() {
			same := model.NewTable("copy.xlsx", records)
			convey.So(table.Fingerprint(), convey.ShouldHaveLength, 64)
			convey.So(same.Fingerprint(), convey.ShouldEqual, table.Fingerprint())

			changed := append([]model.TransferRecord(nil), records...)
			changed[1].Season = 2021
			convey.So(model.NewTable("portal.csv", changed).Fingerprint(), convey.ShouldNotEqual, table.Fingerprint())

			reordered := []model.TransferRecord{records[1], records[0], records[2]}
			convey.So(model.NewTable("portal.csv", reordered).Fingerprint(), convey.ShouldNotEqual, table.Fingerprint())
		})

		convey.Convey("Then a null school and an empty one fingerprint differently", func() {
			empty := append([]model.TransferRecord(nil), records...)
			empty[1].Destination = model.StringPtr("")
			convey.So(records[1].Destination, convey.ShouldBeNil)
			convey.So(model.Fingerprint(empty), convey.ShouldNotEqual, table.Fingerprint())
		})
	})

	convey.Convey("Given an empty table", t, func() {
		table := model.NewTable("empty.csv", nil)

		convey.Convey("Then it reports no seasons", func() {
			convey.So(table.Len(), convey.ShouldEqual, 0)
			convey.So(table.Seasons(), convey.ShouldBeEmpty)
			convey.So(table.LatestSeason(), convey.ShouldEqual, 0)
		})
	})
}

func TestTransferRecordMatching(t *testing.T) {
	convey.Convey("Given records with null schools", t, func() {
		r := record("Sam", "", "Beta U", 2023)

		convey.Convey("Then a null origin never matches", func() {
			convey.So(r.OriginIs(""), convey.ShouldBeFalse)
			convey.So(r.OriginIs("Beta U"), convey.ShouldBeFalse)
		})

		convey.Convey("Then the destination matches exactly", func() {
			convey.So(r.DestinationIs("Beta U"), convey.ShouldBeTrue)
			convey.So(r.DestinationIs("beta u"), convey.ShouldBeFalse)
		})
	})
}

func TestDistinctSchools(t *testing.T) {
	convey.Convey("Given records with overlapping and missing schools", t, func() {
		records := []model.TransferRecord{
			record("Sam", "Alpha U", "Beta U", 2023),
			record("Ann", "Beta U", "", 2022),
			record("Joe", "", "Gamma U", 2023),
			{FirstName: "Empty", Origin: model.StringPtr(""), Destination: model.StringPtr("Alpha U")},
		}
		set := model.DistinctSchools(model.NewTable("portal.csv", records))

		convey.Convey("Then the set is the de-duplicated non-empty union", func() {
			convey.So(set.Sorted(), convey.ShouldResemble, []string{"Alpha U", "Beta U", "Gamma U"})
			convey.So(set.Contains(""), convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given an empty or nil table", t, func() {
		convey.Convey("Then the set is empty rather than an error", func() {
			convey.So(model.DistinctSchools(model.NewTable("x.csv", nil)), convey.ShouldBeEmpty)
			convey.So(model.DistinctSchools(nil), convey.ShouldBeEmpty)
		})
	})
}
