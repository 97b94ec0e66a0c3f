package api

import (
	"net/http"
)

// TransfersHandler answers school selections as JSON.
type TransfersHandler struct {
	deps Dependencies
}

// NewTransfersHandler creates a new transfers handler.
func NewTransfersHandler(deps Dependencies) *TransfersHandler {
	return &TransfersHandler{deps: deps}
}

// HandleGetTransfers handles GET /transfers?school=S&season=Y requests.
// Numbers are rounded to two decimals; undefined values are null.
func (h *TransfersHandler) HandleGetTransfers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_transfers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	school, season, err := selectionParams(op, r, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	report, err := h.deps.Report(r.Context(), school, season)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report.Rounded())
}
