package api

import (
	"net/http"

	"github.com/okian/portal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status    string `json:"status"`
	DatasetID string `json:"dataset_id"`
	Records   int    `json:"records"`
}

// HandleHealth handles GET /healthz requests with a JSON liveness body.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	info := h.deps.Dataset(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DatasetID: info.ID, Records: info.Records})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
