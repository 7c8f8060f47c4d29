// Package service runs the recap pipeline and serves its result to the
// HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wrapped/internal/adapters/snapshot"
	"github.com/okian/wrapped/internal/domain/awards"
	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/internal/domain/ranking"
	"github.com/okian/wrapped/internal/domain/table"
	"github.com/okian/wrapped/pkg/logger"
	"github.com/okian/wrapped/pkg/metrics"
)

// Pipeline stage names used for latency metrics.
const (
	stageLoad      = "load"
	stageBuild     = "build"
	stageFill      = "fill"
	stageRank      = "rank"
	stageAggregate = "aggregate"
)

// Loader reads manager histories and the captain-points side table.
type Loader interface {
	LoadAll(ctx context.Context, sources map[string]string) (map[string][]model.WeeklyRecord, error)
	LoadCaptainPoints(ctx context.Context, source string) ([]model.CaptainPoints, error)
	Stamp(sources ...string) (time.Time, error)
}

// Service implements the API dependencies for the recap.
type Service struct {
	mu sync.RWMutex

	// Inputs
	loader        Loader
	sources       map[string]string
	captains      []model.CaptainPoints
	captainSource string
	chartImage    string
	gameweeks     int
	clock         func() time.Time

	// Cached result of the last successful run
	recap *model.Recap
	dense table.Dense
	stamp time.Time

	// State
	started   bool
	runs      int
	cacheHits int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGameweeks sets the season length.
func WithGameweeks(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.gameweeks = n
		}
	}
}

// WithSources sets the snapshot source of every manager.
func WithSources(sources map[string]string) Option {
	return func(s *Service) {
		s.sources = make(map[string]string, len(sources))
		for name, src := range sources {
			s.sources[name] = src
		}
	}
}

// WithCaptainPoints sets the captain-points side table inline.
func WithCaptainPoints(rows []model.CaptainPoints) Option {
	return func(s *Service) {
		s.captains = append([]model.CaptainPoints(nil), rows...)
	}
}

// WithCaptainSource reads the captain-points side table from a file on
// every run. It takes precedence over WithCaptainPoints.
func WithCaptainSource(source string) Option {
	return func(s *Service) {
		s.captainSource = source
	}
}

// WithChartImage sets the pre-rendered rank chart shown with the recap.
func WithChartImage(path string) Option {
	return func(s *Service) {
		s.chartImage = path
	}
}

// WithLoader replaces the file-system snapshot loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithClock sets the time source used to stamp recaps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sources:   map[string]string{},
		gameweeks: model.DefaultGameweeks,
		clock:     time.Now,
		logger:    nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ensureDefaults must be called with s.mu held.
func (s *Service) ensureDefaults() {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		s.loader = snapshot.NewLoader(snapshot.WithLogger(s.logger.Named("snapshot")))
	}
}

// Start runs the pipeline once and caches the recap.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.ensureDefaults()

	s.logger.Info(ctx, "starting recap service...",
		logger.Int("managers", len(s.sources)),
		logger.Int("gameweeks", s.gameweeks),
	)
	if _, err := s.refresh(ctx); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "recap service started", logger.String("runID", s.recap.RunID))
	return nil
}

// Stop drops the cached recap.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.recap = nil
	s.dense = table.Dense{}
	s.stamp = time.Time{}
	s.started = false
	s.logger.Info(context.Background(), "recap service stopped")
}

// Run executes the whole pipeline and caches its result.
func (s *Service) Run(ctx context.Context) (*model.Recap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureDefaults()
	return s.refresh(ctx)
}

// Recap returns the cached recap, recomputing it when a source changed
// after the last run.
func (s *Service) Recap(ctx context.Context) (*model.Recap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureDefaults()
	if s.recap != nil {
		stamp, err := s.loader.Stamp(s.stampSources()...)
		if err != nil {
			s.logger.Warn(ctx, "cannot stat sources; serving cached recap", logger.Error(err))
			s.cacheHits++
			metrics.RecordRecapCacheHit()
			return s.recap, nil
		}
		if !stamp.After(s.stamp) {
			s.cacheHits++
			metrics.RecordRecapCacheHit()
			return s.recap, nil
		}
		s.logger.Info(ctx, "sources changed; recomputing recap")
	}
	return s.refresh(ctx)
}

// Manager returns the report of one manager.
func (s *Service) Manager(ctx context.Context, name string) (model.ManagerReport, error) {
	recap, err := s.Recap(ctx)
	if err != nil {
		return model.ManagerReport{}, err
	}

	summary, ok := recap.Summary(name)
	if !ok {
		return model.ManagerReport{}, fmt.Errorf("%w: %s", ErrManagerNotFound, name)
	}

	report := model.ManagerReport{
		RunID:    recap.RunID,
		Summary:  summary,
		Extremes: recap.Extremes[name],
		Standing: model.Standing{Manager: name},
	}
	for _, st := range recap.Standings {
		if st.Manager == name {
			report.Standing = st
			break
		}
	}

	s.mu.RLock()
	report.History = append([]model.DenseRecord(nil), s.dense.Manager(name)...)
	s.mu.RUnlock()

	return report, nil
}

// Table returns the ranked rows for gameweek, or every row when gameweek is 0.
func (s *Service) Table(ctx context.Context, gameweek int) ([]model.DenseRecord, error) {
	if _, err := s.Recap(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if gameweek == 0 {
		return append([]model.DenseRecord(nil), s.dense.Rows...), nil
	}
	if gameweek < 0 || gameweek > s.dense.Gameweeks {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrGameweekOutOfRange, gameweek, s.dense.Gameweeks)
	}
	return s.dense.Gameweek(gameweek), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"gameweeks": s.gameweeks,
		"managers":  len(s.sources),
		"runs":      s.runs,
		"cacheHits": s.cacheHits,
	}

	if s.recap != nil {
		stats["runID"] = s.recap.RunID
		stats["generatedAt"] = s.recap.GeneratedAt
		stats["finalGameweek"] = s.recap.FinalGameweek
		stats["sourcesModifiedAt"] = s.stamp
	}

	return stats
}

// ChartImage returns the configured chart image path.
func (s *Service) ChartImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chartImage
}

func (s *Service) stampSources() []string {
	out := make([]string, 0, len(s.sources)+1)
	for _, src := range s.sources {
		out = append(out, src)
	}
	if s.captainSource != "" {
		out = append(out, s.captainSource)
	}
	return out
}

// refresh runs the pipeline and swaps the cache on success.
// It must be called with s.mu held.
func (s *Service) refresh(ctx context.Context) (*model.Recap, error) {
	if len(s.sources) == 0 {
		metrics.RecordPipelineRun("error")
		return nil, ErrNoSources
	}

	// Stamp before reading so a write during the run triggers another one.
	stamp, err := s.loader.Stamp(s.stampSources()...)
	if err != nil {
		metrics.RecordPipelineRun("error")
		return nil, fmt.Errorf("stamp sources: %w", err)
	}

	start := time.Now()
	recap, dense, err := s.run(ctx)
	metrics.RecordPipelineDuration(msSince(start))
	if err != nil {
		metrics.RecordPipelineRun("error")
		s.logger.Error(ctx, "pipeline run failed", logger.Error(err))
		return nil, err
	}

	s.recap = recap
	s.dense = dense
	s.stamp = stamp
	s.runs++

	metrics.RecordPipelineRun("success")
	metrics.UpdatePipelineLastSuccess(recap.GeneratedAt.Unix())
	metrics.UpdateManagerCount(len(dense.Managers))
	s.logger.Info(ctx, "pipeline run completed",
		logger.String("runID", recap.RunID),
		logger.Int("managers", len(dense.Managers)),
		logger.Int("finalGameweek", recap.FinalGameweek),
		logger.Duration("took", time.Since(start)),
	)
	return recap, nil
}

func (s *Service) run(ctx context.Context) (*model.Recap, table.Dense, error) {
	t0 := time.Now()
	histories, err := s.loader.LoadAll(ctx, s.sources)
	if err != nil {
		return nil, table.Dense{}, fmt.Errorf("load snapshots: %w", err)
	}
	captains := s.captains
	if s.captainSource != "" {
		captains, err = s.loader.LoadCaptainPoints(ctx, s.captainSource)
		if err != nil {
			return nil, table.Dense{}, fmt.Errorf("load captain points: %w", err)
		}
	}
	metrics.RecordStageDuration(stageLoad, msSince(t0))

	t0 = time.Now()
	managers := make([]string, 0, len(histories))
	for name := range histories {
		managers = append(managers, name)
	}
	sort.Strings(managers)
	sets := make([][]model.WeeklyRecord, 0, len(managers))
	for _, name := range managers {
		sets = append(sets, histories[name])
	}
	tbl := table.Build(managers, sets...)
	metrics.RecordStageDuration(stageBuild, msSince(t0))

	t0 = time.Now()
	dense, fill := table.FillGaps(tbl, s.gameweeks)
	metrics.RecordGapFill(fill.Filled, fill.Duplicates, fill.OutOfRange)
	metrics.RecordStageDuration(stageFill, msSince(t0))
	if fill.Duplicates > 0 || fill.OutOfRange > 0 {
		s.logger.Warn(ctx, "dropped snapshot records",
			logger.Int("duplicates", fill.Duplicates),
			logger.Int("outOfRange", fill.OutOfRange),
		)
	}
	s.logger.Debug(ctx, "gaps filled", logger.Int("filled", fill.Filled))

	t0 = time.Now()
	ranked := ranking.Derive(dense)
	metrics.RecordStageDuration(stageRank, msSince(t0))

	t0 = time.Now()
	summaries, err := awards.Summarize(ranked, captains)
	if err != nil {
		return nil, table.Dense{}, fmt.Errorf("summarize: %w", err)
	}
	winners, err := awards.Select(summaries)
	if err != nil {
		return nil, table.Dense{}, fmt.Errorf("select awards: %w", err)
	}

	extremes := make(map[string]*model.GameweekExtremes, len(ranked.Managers))
	empty := 0
	for _, m := range ranked.Managers {
		ex, err := awards.Extremes(ranked, m)
		if errors.Is(err, model.ErrEmptyHistory) {
			empty++
			extremes[m] = nil
			s.logger.Warn(ctx, "manager has no recorded points", logger.String("manager", m))
			continue
		}
		if err != nil {
			return nil, table.Dense{}, err
		}
		extremes[m] = &ex
	}
	metrics.UpdateEmptyHistories(empty)
	metrics.RecordStageDuration(stageAggregate, msSince(t0))

	final := ranked.FinalGameweek()
	recap := &model.Recap{
		RunID:         uuid.NewString(),
		GeneratedAt:   s.clock(),
		FinalGameweek: final,
		Awards:        winners,
		Summaries:     summaries,
		Extremes:      extremes,
		Standings:     ranking.Standings(ranked, final),
		ChartImage:    s.chartImage,
	}
	return recap, ranked, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
