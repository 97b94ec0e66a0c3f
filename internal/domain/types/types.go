// Package types contains the shapes handed across the presentation boundary.
package types

import (
	"math"
	"slices"
	"time"
)

// Column describes one renderable column.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerRow is the projection shown in the incoming and outgoing tables.
type PlayerRow struct {
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	OriginSchool      *string  `json:"origin_school"`
	DestinationSchool *string  `json:"destination_school"`
	Rating            *float64 `json:"rating"`
	Stars             *int     `json:"stars"`
}

// PlayerColumns lists the PlayerRow columns in display order.
var PlayerColumns = []Column{
	{ID: "first_name", Name: "First Name"},
	{ID: "last_name", Name: "Last Name"},
	{ID: "origin_school", Name: "Origin School"},
	{ID: "destination_school", Name: "Destination School"},
	{ID: "rating", Name: "Rating"},
	{ID: "stars", Name: "Stars"},
}

// Metric names used in summary rows.
const (
	MetricRating = "Rating"
	MetricStars  = "Stars"
)

// SummaryRow compares one metric between the outgoing and incoming groups.
// Nil means undefined: an empty or all-null group, or a ratio whose
// denominator is undefined or zero.
type SummaryRow struct {
	Metric   string   `json:"metric"`
	Outgoing *float64 `json:"outgoing"`
	Incoming *float64 `json:"incoming"`
	Score    *float64 `json:"score"`
}

// SummaryColumns lists the SummaryRow columns in display order.
var SummaryColumns = []Column{
	{ID: "metric", Name: "Metric"},
	{ID: "outgoing", Name: "Average Leaving"},
	{ID: "incoming", Name: "Average Joining"},
	{ID: "score", Name: "Score"},
}

// Report is the full answer for one (school, season) selection.
type Report struct {
	School         string       `json:"school"`
	Season         int          `json:"season"`
	DatasetID      string       `json:"dataset_id"` // content fingerprint
	Outgoing       []PlayerRow  `json:"outgoing"`
	Incoming       []PlayerRow  `json:"incoming"`
	Summary        []SummaryRow `json:"summary"`
	PlayerColumns  []Column     `json:"player_columns"`
	SummaryColumns []Column     `json:"summary_columns"`
}

// Rounded returns a deep copy with every reported number rounded to two
// decimals. The receiver keeps full precision.
func (r Report) Rounded() Report {
	return r.copyWith(Round2)
}

// Clone returns a deep copy that shares no memory with r.
func (r Report) Clone() Report {
	return r.copyWith(copyFloat)
}

func (r Report) copyWith(num func(*float64) *float64) Report {
	out := r
	out.Outgoing = copyPlayers(r.Outgoing, num)
	out.Incoming = copyPlayers(r.Incoming, num)
	out.Summary = make([]SummaryRow, len(r.Summary))
	for i, s := range r.Summary {
		out.Summary[i] = SummaryRow{
			Metric:   s.Metric,
			Outgoing: num(s.Outgoing),
			Incoming: num(s.Incoming),
			Score:    num(s.Score),
		}
	}
	out.PlayerColumns = slices.Clone(r.PlayerColumns)
	out.SummaryColumns = slices.Clone(r.SummaryColumns)
	return out
}

func copyPlayers(rows []PlayerRow, num func(*float64) *float64) []PlayerRow {
	out := make([]PlayerRow, len(rows))
	for i, p := range rows {
		out[i] = p
		out[i].OriginSchool = copyString(p.OriginSchool)
		out[i].DestinationSchool = copyString(p.DestinationSchool)
		out[i].Rating = num(p.Rating)
		if p.Stars != nil {
			v := *p.Stars
			out[i].Stars = &v
		}
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Selection feeds the school picker. Empty is true when the dataset yields
// no schools; Default is nil in that case.
type Selection struct {
	Schools []string `json:"schools"`
	Default *string  `json:"default"`
	Empty   bool     `json:"empty"`
}

// Round2 rounds v to two decimal places. Nil, NaN and infinities become nil.
func Round2(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

// Seasons lists the seasons in the active dataset, newest first, with the
// season a request without one resolves to.
type Seasons struct {
	Seasons []int `json:"seasons"`
	Default int   `json:"default"`
}

// DatasetInfo describes the active dataset snapshot.
// ID changes on every load; Fingerprint only when the content does.
type DatasetInfo struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	Records     int       `json:"records"`
	Schools     int       `json:"schools"`
	Seasons     []int     `json:"seasons"`
	LoadedAt    time.Time `json:"loaded_at"`
}
