package api

import (
	"context"
	"net/http"

	"github.com/okian/wrapped/internal/domain/model"
)

// RecapDependencies defines the interface for recap reads.
type RecapDependencies interface {
	Recap(ctx context.Context) (*model.Recap, error)
}

// RecapHandler handles recap requests.
type RecapHandler struct {
	deps RecapDependencies
}

// NewRecapHandler creates a new recap handler.
func NewRecapHandler(deps RecapDependencies) *RecapHandler {
	return &RecapHandler{deps: deps}
}

// HandleGetRecap handles GET /recap requests.
func (h *RecapHandler) HandleGetRecap(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recap"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	recap, err := h.deps.Recap(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, recap)
}
