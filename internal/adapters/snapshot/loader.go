// Package snapshot reads per-manager weekly history files from disk.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/pkg/logger"
	"github.com/okian/wrapped/pkg/metrics"
)

// entry is one element of a snapshot's "current" array. Field names follow
// the upstream history export; toRecord maps them to canonical names.
type entry struct {
	Event          *int `json:"event"`
	Points         *int `json:"points"`
	TotalPoints    *int `json:"total_points"`
	Rank           *int `json:"rank"`
	PointsOnBench  *int `json:"points_on_bench"`
	EventTransfers *int `json:"event_transfers"`
}

func (e entry) toRecord(manager string) model.WeeklyRecord {
	return model.WeeklyRecord{
		Manager:        manager,
		Gameweek:       *e.Event,
		Points:         e.Points,
		TotalPoints:    e.TotalPoints,
		OverallRank:    e.Rank,
		BenchPoints:    e.PointsOnBench,
		EventTransfers: e.EventTransfers,
	}
}

// Loader reads snapshot files relative to a root directory.
type Loader struct {
	root    string
	workers int
	logger  logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithRoot resolves relative sources against dir.
func WithRoot(dir string) Option {
	return func(l *Loader) {
		l.root = dir
	}
}

// WithWorkers bounds how many snapshot files LoadAll reads at once.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// NewLoader creates a Loader. Without WithLogger it uses the global logger.
// Workers default to the number of CPUs.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Named("snapshot")
	}
	return l
}

// Path resolves source against the loader root.
func (l *Loader) Path(source string) string {
	if l.root == "" || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(l.root, source)
}

// Load reads one manager's weekly history and tags every record with manager.
func (l *Loader) Load(ctx context.Context, manager, source string) ([]model.WeeklyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	path := l.Path(source)

	body, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordSnapshotError("io")
		return nil, fmt.Errorf("read snapshot for %s: %w", manager, err)
	}

	records, err := decodeHistory(path, manager, body)
	if err != nil {
		metrics.RecordSnapshotError("data_format")
		return nil, err
	}

	metrics.RecordSnapshotLoaded(manager, len(records))
	metrics.RecordSnapshotLoadLatency(float64(time.Since(start).Microseconds()) / 1000)
	l.logger.Debug(ctx, "snapshot loaded",
		logger.String("manager", manager),
		logger.String("path", path),
		logger.Int("records", len(records)),
	)
	return records, nil
}

func decodeHistory(path, manager string, body []byte) ([]model.WeeklyRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &model.DataFormatError{Source: path, Reason: "not a JSON object", Err: err}
	}
	raw, ok := doc["current"]
	if !ok {
		return nil, &model.DataFormatError{Source: path, Reason: `missing "current" collection`}
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &model.DataFormatError{Source: path, Reason: `"current" is not a list of gameweek entries`, Err: err}
	}
	if entries == nil {
		return nil, &model.DataFormatError{Source: path, Reason: `"current" is null`}
	}

	records := make([]model.WeeklyRecord, 0, len(entries))
	for i, e := range entries {
		if e.Event == nil {
			return nil, &model.DataFormatError{Source: path, Reason: fmt.Sprintf("entry %d has no event", i)}
		}
		if *e.Event < 1 {
			return nil, &model.DataFormatError{Source: path, Reason: fmt.Sprintf("entry %d has invalid event %d", i, *e.Event)}
		}
		records = append(records, e.toRecord(manager))
	}
	return records, nil
}

// LoadCaptainPoints reads the captain-points side table: a JSON list of
// {"manager": string, "captain_points": int} objects.
func (l *Loader) LoadCaptainPoints(ctx context.Context, source string) ([]model.CaptainPoints, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := l.Path(source)
	body, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordSnapshotError("io")
		return nil, fmt.Errorf("read captain points: %w", err)
	}

	var rows []struct {
		Manager       *string `json:"manager"`
		CaptainPoints *int    `json:"captain_points"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		metrics.RecordSnapshotError("data_format")
		return nil, &model.DataFormatError{Source: path, Reason: "not a list of captain point rows", Err: err}
	}

	out := make([]model.CaptainPoints, 0, len(rows))
	for i, r := range rows {
		if r.Manager == nil || *r.Manager == "" || r.CaptainPoints == nil {
			metrics.RecordSnapshotError("data_format")
			return nil, &model.DataFormatError{Source: path, Reason: fmt.Sprintf("row %d needs manager and captain_points", i)}
		}
		out = append(out, model.CaptainPoints{Manager: *r.Manager, CaptainPoints: *r.CaptainPoints})
	}
	l.logger.Debug(ctx, "captain points loaded", logger.String("path", path), logger.Int("rows", len(out)))
	return out, nil
}

// Stamp returns the latest modification time among sources.
func (l *Loader) Stamp(sources ...string) (time.Time, error) {
	var latest time.Time
	for _, s := range sources {
		if s == "" {
			continue
		}
		info, err := os.Stat(l.Path(s))
		if err != nil {
			return time.Time{}, fmt.Errorf("stamp %s: %w", s, err)
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest, nil
}
