package api

import (
	"net/http"
)

// SchoolsHandler serves the school picker.
type SchoolsHandler struct {
	deps Dependencies
}

// NewSchoolsHandler creates a new schools handler.
func NewSchoolsHandler(deps Dependencies) *SchoolsHandler {
	return &SchoolsHandler{deps: deps}
}

// HandleGetSchools handles GET /schools requests. An empty dataset is a
// 200 with empty=true, not an error.
func (h *SchoolsHandler) HandleGetSchools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Selection(r.Context()))
}

// SeasonsHandler serves the available seasons.
type SeasonsHandler struct {
	deps Dependencies
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps Dependencies) *SeasonsHandler {
	return &SeasonsHandler{deps: deps}
}

// HandleGetSeasons handles GET /seasons requests.
func (h *SeasonsHandler) HandleGetSeasons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Seasons(r.Context()))
}
