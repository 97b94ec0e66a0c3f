package api

import (
	"bytes"
	"net/http"

	"github.com/okian/portal/internal/domain/types"
)

// ReportHandler renders a selection as a standalone HTML page.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /report?school=S&season=Y requests. Without a
// school the picker default is shown; an empty dataset renders the empty
// state instead of failing.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	school, season, err := selectionParams(op, r, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := r.Context()
	view := reportView{
		Selection: h.deps.Selection(ctx),
		Seasons:   h.deps.Seasons(ctx),
		School:    school,
	}
	if view.School == "" && view.Selection.Default != nil {
		view.School = *view.Selection.Default
	}
	if view.School != "" {
		report, err := h.deps.Report(ctx, view.School, season)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		rounded := report.Rounded()
		view.Report = &rounded
	}

	var buf bytes.Buffer
	if err := reportPage(view).Render(ctx, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// reportView is everything the report page renders.
type reportView struct {
	Selection types.Selection
	Seasons   types.Seasons
	School    string
	Report    *types.Report
}
