// Package site serves the browser recap page and the season chart.
package site

import (
	"context"
	"errors"
	"net/http"
	"os"
)

// Error constants
var (
	ErrNoChart = errors.New("no chart image configured")
)

// Register attaches the recap page and chart routes to mux.
//
//	GET /       -> embedded recap page
//	GET /chart  -> chartImage served as-is
func Register(_ context.Context, mux *http.ServeMux, chartImage string) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/chart", NewChartHandler(chartImage))

	// Serve the embedded recap page at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}

// ChartHandler passes the pre-rendered league rank chart through untouched.
type ChartHandler struct {
	path string
}

// NewChartHandler creates a chart handler for the image at path.
func NewChartHandler(path string) *ChartHandler {
	return &ChartHandler{path: path}
}

// ServeHTTP handles GET /chart requests.
func (h *ChartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if h.path == "" {
		http.Error(w, ErrNoChart.Error(), http.StatusNotFound)
		return
	}
	if _, err := os.Stat(h.path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, h.path)
}
