package portal

import (
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/types"
)

// metric extracts one numeric value from a record; ok is false for null.
type metric struct {
	name  string
	value func(model.TransferRecord) (float64, bool)
}

var summaryMetrics = []metric{
	{name: types.MetricRating, value: func(r model.TransferRecord) (float64, bool) {
		if r.Rating == nil {
			return 0, false
		}
		return *r.Rating, true
	}},
	{name: types.MetricStars, value: func(r model.TransferRecord) (float64, bool) {
		if r.Stars == nil {
			return 0, false
		}
		return float64(*r.Stars), true
	}},
}

func summarize(outgoing, incoming []model.TransferRecord) []types.SummaryRow {
	rows := make([]types.SummaryRow, len(summaryMetrics))
	for i, m := range summaryMetrics {
		out := mean(outgoing, m)
		in := mean(incoming, m)
		rows[i] = types.SummaryRow{
			Metric:   m.name,
			Outgoing: out,
			Incoming: in,
			Score:    Ratio(in, out),
		}
	}
	return rows
}

// mean averages the non-null values of m; nil when there are none.
func mean(records []model.TransferRecord, m metric) *float64 {
	var sum float64
	var n int
	for _, r := range records {
		if v, ok := m.value(r); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// Ratio returns incoming / outgoing, or nil when either side is undefined
// or the denominator is zero.
func Ratio(incoming, outgoing *float64) *float64 {
	if incoming == nil || outgoing == nil || *outgoing == 0 {
		return nil
	}
	r := *incoming / *outgoing
	return &r
}
