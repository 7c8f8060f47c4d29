package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/wrapped/internal/domain/model"
)

// TableDependencies defines the interface for league table reads.
type TableDependencies interface {
	Table(ctx context.Context, gameweek int) ([]model.DenseRecord, error)
}

// TableHandler handles league table requests.
type TableHandler struct {
	deps TableDependencies
}

// NewTableHandler creates a new table handler.
func NewTableHandler(deps TableDependencies) *TableHandler {
	return &TableHandler{deps: deps}
}

// HandleGetTable handles GET /table?gameweek=N requests. Without gameweek
// the whole season is returned.
func (h *TableHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_table"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gameweek := 0
	if raw := r.URL.Query().Get("gameweek"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
			return
		}
		gameweek = n
	}
	rows, err := h.deps.Table(r.Context(), gameweek)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
