package api

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/okian/portal/internal/domain/types"
)

// Section titles of the report page.
const (
	titleSummary  = "Average Ratings and Stars"
	titleIncoming = "Who is Coming?"
	titleOutgoing = "Who is Leaving?"
)

func reportPage(v reportView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		// Nothing is written once the request is cancelled.
		if err := ctx.Err(); err != nil {
			return err
		}
		pw := &pageWriter{w: w}
		pw.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		pw.raw(`<title>Transfer Portal`)
		if v.Report != nil {
			pw.raw(` - `)
			pw.text(v.Report.School)
		}
		pw.raw(`</title><link rel="stylesheet" href="/style.css"></head><body><main>`)
		pw.raw(`<h1>Transfer Portal</h1>`)
		if pw.err != nil {
			return pw.err
		}

		if v.Selection.Empty {
			pw.raw(`<p class="empty">No schools are available in the current dataset.</p>`)
			pw.raw(`</main></body></html>`)
			return pw.err
		}

		if err := pickerForm(v).Render(ctx, w); err != nil {
			return err
		}
		if v.Report != nil {
			for _, c := range []templ.Component{
				summaryTable(v.Report),
				playerTable(titleIncoming, "incoming", v.Report.PlayerColumns, v.Report.Incoming),
				playerTable(titleOutgoing, "outgoing", v.Report.PlayerColumns, v.Report.Outgoing),
			} {
				if err := c.Render(ctx, w); err != nil {
					return err
				}
			}
		}
		pw.raw(`</main></body></html>`)
		return pw.err
	})
}

func pickerForm(v reportView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		pw := &pageWriter{w: w}
		pw.raw(`<form method="get" action="/report"><label>School <select name="school" onchange="this.form.submit()">`)
		for _, s := range v.Selection.Schools {
			pw.option(s, s, s == v.School)
		}
		pw.raw(`</select></label> <label>Season <select name="season" onchange="this.form.submit()">`)
		current := v.Seasons.Default
		if v.Report != nil {
			current = v.Report.Season
		}
		for _, s := range v.Seasons.Seasons {
			str := strconv.Itoa(s)
			pw.option(str, str, s == current)
		}
		pw.raw(`</select></label> <noscript><button type="submit">Show</button></noscript></form>`)
		return pw.err
	})
}

func summaryTable(r *types.Report) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		pw := &pageWriter{w: w}
		pw.raw(`<section id="summary"><h2>`)
		pw.text(titleSummary)
		pw.raw(`</h2><table><thead><tr>`)
		for _, c := range r.SummaryColumns {
			pw.cell("th", c.Name)
		}
		pw.raw(`</tr></thead><tbody>`)
		for _, row := range r.Summary {
			pw.raw(`<tr>`)
			pw.cell("th", row.Metric)
			pw.cell("td", formatFloat(row.Outgoing))
			pw.cell("td", formatFloat(row.Incoming))
			pw.cell("td", formatFloat(row.Score))
			pw.raw(`</tr>`)
		}
		pw.raw(`</tbody></table></section>`)
		return pw.err
	})
}

func playerTable(title, id string, cols []types.Column, rows []types.PlayerRow) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		pw := &pageWriter{w: w}
		pw.raw(`<section id="`)
		pw.text(id)
		pw.raw(`"><h2>`)
		pw.text(title)
		pw.raw(`</h2><table><thead><tr>`)
		for _, c := range cols {
			pw.cell("th", c.Name)
		}
		pw.raw(`</tr></thead><tbody>`)
		if len(rows) == 0 {
			pw.raw(`<tr><td class="empty" colspan="`)
			pw.raw(strconv.Itoa(len(cols)))
			pw.raw(`">No players</td></tr>`)
		}
		for _, p := range rows {
			pw.raw(`<tr>`)
			pw.cell("td", p.FirstName)
			pw.cell("td", p.LastName)
			pw.cell("td", formatString(p.OriginSchool))
			pw.cell("td", formatString(p.DestinationSchool))
			pw.cell("td", formatFloat(p.Rating))
			pw.cell("td", formatInt(p.Stars))
			pw.raw(`</tr>`)
		}
		pw.raw(`</tbody></table></section>`)
		return pw.err
	})
}

// pageWriter keeps the first write error so components can write freely
// and check once.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) cell(tag, s string) {
	p.raw("<" + tag + ">")
	p.text(s)
	p.raw("</" + tag + ">")
}

func (p *pageWriter) option(value, label string, selected bool) {
	p.raw(`<option value="`)
	p.text(value)
	p.raw(`"`)
	if selected {
		p.raw(` selected`)
	}
	p.raw(`>`)
	p.text(label)
	p.raw(`</option>`)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
