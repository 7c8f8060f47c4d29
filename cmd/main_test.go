package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	app "github.com/okian/wrapped/internal/app"
	"github.com/okian/wrapped/internal/config"
	"github.com/okian/wrapped/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const snapshotA = `{"current": [
  {"event": 1, "points": 70, "total_points": 70, "rank": 100, "points_on_bench": 9, "event_transfers": 0},
  {"event": 2, "points": 55, "total_points": 125, "rank": 90, "points_on_bench": 3, "event_transfers": 2}
]}`

const snapshotB = `{"current": [
  {"event": 1, "points": 60, "total_points": 60, "rank": 200, "points_on_bench": 14, "event_transfers": 1},
  {"event": 2, "points": 50, "total_points": 110, "rank": 210, "points_on_bench": 8, "event_transfers": 0}
]}`

// writeLeague lays out snapshots, a chart and a config file under dir and
// returns the config path.
func writeLeague(dir string) string {
	files := map[string]string{
		"a.json":    snapshotA,
		"b.json":    snapshotB,
		"chart.gif": "GIF89a\x01\x00\x01\x00\x00\x00\x00;",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			panic(err)
		}
	}
	cfg := "addr: \":0\"\n" +
		"gameweeks: 2\n" +
		"chart_image: " + filepath.Join(dir, "chart.gif") + "\n" +
		"managers:\n" +
		"  A: " + filepath.Join(dir, "a.json") + "\n" +
		"  B: " + filepath.Join(dir, "b.json") + "\n" +
		"captain_points:\n" +
		"  A: 40\n" +
		"  B: 52\n"
	path := filepath.Join(dir, "wrapped.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		panic(err)
	}
	return path
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given a league configured on disk", t, func() {
		dir := t.TempDir()
		_ = os.Setenv("WRAPPED_CONFIG", writeLeague(dir))
		defer func() { _ = os.Unsetenv("WRAPPED_CONFIG") }()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Gameweeks, convey.ShouldEqual, 2)

		svc := app.New(
			app.WithGameweeks(cfg.Gameweeks),
			app.WithSources(cfg.Managers),
			app.WithCaptainPoints(cfg.CaptainTable()),
			app.WithCaptainSource(cfg.CaptainPointsFile),
			app.WithChartImage(cfg.ChartImage),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, svc)

		get := func(target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", target, http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		convey.Convey("When requesting every route", func() {
			convey.Convey("Then the recap is served", func() {
				w := get("/recap")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"king_of_the_bench":"B"`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"captain_genius":"B"`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"most_transfers":"A"`)
			})

			convey.Convey("And manager reports are served", func() {
				convey.So(get("/managers/A").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/managers/nobody").Code, convey.ShouldEqual, http.StatusNotFound)
			})

			convey.Convey("And the table is served", func() {
				convey.So(get("/table?gameweek=2").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/table?gameweek=3").Code, convey.ShouldEqual, http.StatusBadRequest)
			})

			convey.Convey("And the page, chart, docs and metrics are served", func() {
				for _, target := range []string{"/", "/chart", "/openapi.yaml", "/api-docs", "/healthz", "/stats"} {
					convey.So(get(target).Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("WRAPPED_ADDR", "")
			_ = os.Setenv("WRAPPED_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer func() {
				_ = os.Unsetenv("WRAPPED_ADDR")
				_ = os.Unsetenv("WRAPPED_CONFIG")
			}()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}
