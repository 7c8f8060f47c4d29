package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/wrapped/internal/domain/model"
)

// ManagerDependencies defines the interface for per-manager reads.
type ManagerDependencies interface {
	Manager(ctx context.Context, name string) (model.ManagerReport, error)
}

// ManagerHandler handles manager report requests.
type ManagerHandler struct {
	deps ManagerDependencies
}

// NewManagerHandler creates a new manager handler.
func NewManagerHandler(deps ManagerDependencies) *ManagerHandler {
	return &ManagerHandler{deps: deps}
}

// HandleGetManager handles GET /managers/{name} requests.
func (h *ManagerHandler) HandleGetManager(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_manager"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /managers/
	name := strings.TrimPrefix(r.URL.Path, "/managers/")
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
		return
	}
	report, err := h.deps.Manager(r.Context(), name)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
