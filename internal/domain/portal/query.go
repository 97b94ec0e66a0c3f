// Package portal computes the transfer views for one school and season.
//
// Query is a pure function of (table, school, season). It never mutates the
// table and every returned value is freshly allocated.
package portal

import (
	"cmp"
	"slices"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/types"
)

// Result holds the three derived views for one selection.
type Result struct {
	Outgoing []types.PlayerRow
	Incoming []types.PlayerRow
	Summary  []types.SummaryRow
}

// Query filters, sorts and aggregates table for school in season. An
// unknown school or season yields empty views and undefined summary
// values; it is not an error.
func Query(table *model.Table, school string, season int) Result {
	var out, in []model.TransferRecord
	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		if r.Season != season {
			continue
		}
		if r.OriginIs(school) {
			out = append(out, r)
		}
		if r.DestinationIs(school) {
			in = append(in, r)
		}
	}

	sortByStarsDesc(out)
	sortByStarsDesc(in)

	return Result{
		Outgoing: project(out),
		Incoming: project(in),
		Summary:  summarize(out, in),
	}
}

// sortByStarsDesc orders by stars descending with null stars last. The sort
// is stable so ties keep dataset order.
func sortByStarsDesc(records []model.TransferRecord) {
	slices.SortStableFunc(records, func(a, b model.TransferRecord) int {
		switch {
		case a.Stars == nil && b.Stars == nil:
			return 0
		case a.Stars == nil:
			return 1
		case b.Stars == nil:
			return -1
		}
		return cmp.Compare(*b.Stars, *a.Stars)
	})
}

func project(records []model.TransferRecord) []types.PlayerRow {
	rows := make([]types.PlayerRow, len(records))
	for i, r := range records {
		rows[i] = types.PlayerRow{
			FirstName:         r.FirstName,
			LastName:          r.LastName,
			OriginSchool:      cloneString(r.Origin),
			DestinationSchool: cloneString(r.Destination),
			Rating:            cloneFloat(r.Rating),
		}
		if r.Stars != nil {
			s := *r.Stars
			rows[i].Stars = &s
		}
	}
	return rows
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
