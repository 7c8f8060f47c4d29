// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/wrapped/internal/app"
	"github.com/okian/wrapped/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RecapDependencies
	ManagerDependencies
	TableDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	recapHandler   *RecapHandler
	managerHandler *ManagerHandler
	tableHandler   *TableHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		recapHandler:   NewRecapHandler(deps),
		managerHandler: NewManagerHandler(deps),
		tableHandler:   NewTableHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recap", MetricsMiddleware(s.recapHandler.HandleGetRecap, "recap"))
	mux.HandleFunc("/managers/", MetricsMiddleware(s.managerHandler.HandleGetManager, "managers"))
	mux.HandleFunc("/table", MetricsMiddleware(s.tableHandler.HandleGetTable, "table"))
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

// writeServiceError translates service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrManagerNotFound):
		writeError(w, http.StatusNotFound, "not_found", wrap(op, err))
	case errors.Is(err, service.ErrGameweekOutOfRange):
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, err))
	case errors.Is(err, model.ErrDataFormat):
		writeError(w, http.StatusInternalServerError, "data_format", wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, err))
	}
}
