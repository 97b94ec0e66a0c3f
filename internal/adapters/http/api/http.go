// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/portal/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Selection returns the school picker state, including the empty state.
	Selection(ctx context.Context) types.Selection

	// Seasons lists the seasons in the dataset and the default one.
	Seasons(ctx context.Context) types.Seasons

	// Report answers one (school, season) selection; season 0 means default.
	Report(ctx context.Context, school string, season int) (types.Report, error)

	// Reload swaps in a freshly loaded dataset.
	Reload(ctx context.Context, trigger string) (types.DatasetInfo, error)

	// Dataset describes the active dataset.
	Dataset(ctx context.Context) types.DatasetInfo
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	schoolsHandler   *SchoolsHandler
	seasonsHandler   *SeasonsHandler
	transfersHandler *TransfersHandler
	reportHandler    *ReportHandler
	reloadHandler    *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		schoolsHandler:   NewSchoolsHandler(deps),
		seasonsHandler:   NewSeasonsHandler(deps),
		transfersHandler: NewTransfersHandler(deps),
		reportHandler:    NewReportHandler(deps),
		reloadHandler:    NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.Handle("/healthz", instrument(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.Handle("/stats", instrument(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/schools", instrument(s.schoolsHandler.HandleGetSchools, "schools"))
	mux.Handle("/seasons", instrument(s.seasonsHandler.HandleGetSeasons, "seasons"))
	mux.Handle("/transfers", instrument(s.transfersHandler.HandleGetTransfers, "transfers"))
	mux.Handle("/report", instrument(s.reportHandler.HandleGetReport, "report"))
	mux.Handle("/reload", instrument(s.reloadHandler.HandlePostReload, "reload"))
}

func instrument(h http.HandlerFunc, endpoint string) http.Handler {
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// selectionParams reads ?school= and ?season= from r. The school is matched
// exactly as sent; a blank one counts as absent. An absent season is 0,
// which the engine resolves to its default.
func selectionParams(op string, r *http.Request, requireSchool bool) (string, int, error) {
	q := r.URL.Query()
	school := q.Get("school")
	if strings.TrimSpace(school) == "" {
		if requireSchool {
			return "", 0, NewKind(op, ErrMissingSchool)
		}
		school = ""
	}

	season := 0
	if raw := strings.TrimSpace(q.Get("season")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return "", 0, NewKind(op, ErrInvalidSeason)
		}
		season = n
	}
	return school, season, nil
}
