package api

import (
	"errors"
	"net/http"

	repository "github.com/okian/portal/internal/adapters/repository"
)

// ReloadHandler triggers dataset reloads.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandlePostReload handles POST /reload requests. A dataset that fails to
// load leaves the previous one serving and answers 422.
func (h *ReloadHandler) HandlePostReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reload"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	info, err := h.deps.Reload(r.Context(), repository.TriggerAPI)
	switch {
	case errors.Is(err, repository.ErrLoad):
		writeError(w, http.StatusUnprocessableEntity, "reload_failed", WrapKind(op, ErrReload, err))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	default:
		writeJSON(w, http.StatusOK, info)
	}
}
