package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/wrapped/internal/adapters/http/api"
	service "github.com/okian/wrapped/internal/app"
	"github.com/okian/wrapped/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	recap     *model.Recap
	recapErr  error
	report    model.ManagerReport
	reportErr error
	rows      []model.DenseRecord
	tableErr  error

	lastManager  string
	lastGameweek int
}

func (m *mockDependencies) Recap(context.Context) (*model.Recap, error) {
	return m.recap, m.recapErr
}

func (m *mockDependencies) Manager(_ context.Context, name string) (model.ManagerReport, error) {
	m.lastManager = name
	return m.report, m.reportErr
}

func (m *mockDependencies) Table(_ context.Context, gameweek int) ([]model.DenseRecord, error) {
	m.lastGameweek = gameweek
	return m.rows, m.tableErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func sampleRecap() *model.Recap {
	return &model.Recap{
		RunID:         "run-1",
		GeneratedAt:   time.Date(2025, 5, 26, 9, 0, 0, 0, time.UTC),
		FinalGameweek: 38,
		Awards:        model.Awards{KingOfTheBench: "B", CaptainGenius: "A", MostTransfers: "A"},
		Summaries: []model.ManagerSeasonSummary{
			{Manager: "A", TotalPoints: model.Int(2000), TotalTransfers: 20, TotalBenchPoints: 150, CaptainPoints: 700},
			{Manager: "B", TotalPoints: model.Int(1800), TotalTransfers: 15, TotalBenchPoints: 200, CaptainPoints: 650},
		},
		Standings: []model.Standing{
			{Manager: "A", LeagueRank: model.Int(1), TotalPoints: model.Int(2000)},
			{Manager: "B", LeagueRank: model.Int(2), TotalPoints: model.Int(1800)},
		},
	}
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{recap: sampleRecap()}
		server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then health endpoint should expose metrics", func() {
				w := do(mux, "GET", "/healthz")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				w := do(mux, "GET", "/stats")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})

			Convey("And recap endpoint should be accessible", func() {
				w := do(mux, "GET", "/recap")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And managers endpoint should be accessible", func() {
				w := do(mux, "GET", "/managers/A")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And table endpoint should be accessible", func() {
				w := do(mux, "GET", "/table")
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When registering on a nil mux", func() {
			Convey("Then it should panic", func() {
				So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
			})
		})
	})
}

func TestRecapHandler_HandleGetRecap(t *testing.T) {
	Convey("Given a recap handler", t, func() {
		deps := &mockDependencies{recap: sampleRecap()}
		handler := api.NewRecapHandler(deps)

		Convey("When requesting the recap", func() {
			req := httptest.NewRequest("GET", "/recap", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetRecap(w, req)

			Convey("Then it should return the recap as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")

				var got model.Recap
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.RunID, ShouldEqual, "run-1")
				So(got.Awards.KingOfTheBench, ShouldEqual, "B")
				So(*got.Summaries[0].TotalPoints, ShouldEqual, 2000)
			})
		})

		Convey("When the pipeline fails on bad data", func() {
			deps.recapErr = fmt.Errorf("load snapshots: %w", &model.DataFormatError{Source: "a.json", Reason: "broken"})
			req := httptest.NewRequest("GET", "/recap", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetRecap(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, "data_format")
			})
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("POST", "/recap", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetRecap(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestManagerHandler_HandleGetManager(t *testing.T) {
	Convey("Given a manager handler", t, func() {
		deps := &mockDependencies{
			report: model.ManagerReport{
				RunID:   "run-1",
				Summary: model.ManagerSeasonSummary{Manager: "Juan Diego", CaptainPoints: 338},
				Extremes: &model.GameweekExtremes{
					Best:  model.GameweekPoints{Gameweek: 7, Points: 98},
					Worst: model.GameweekPoints{Gameweek: 2, Points: 21},
				},
			},
		}
		handler := api.NewManagerHandler(deps)

		Convey("When requesting an existing manager with an escaped name", func() {
			req := httptest.NewRequest("GET", "/managers/Juan%20Diego", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetManager(w, req)

			Convey("Then it should return the report", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastManager, ShouldEqual, "Juan Diego")

				var got model.ManagerReport
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.Summary.CaptainPoints, ShouldEqual, 338)
				So(got.Extremes.Best.Points, ShouldEqual, 98)
			})
		})

		Convey("When requesting a non-existent manager", func() {
			deps.reportErr = fmt.Errorf("%w: Z", service.ErrManagerNotFound)
			req := httptest.NewRequest("GET", "/managers/Z", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetManager(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the name is missing", func() {
			req := httptest.NewRequest("GET", "/managers/", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetManager(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service returns another error", func() {
			deps.reportErr = errors.New("boom")
			req := httptest.NewRequest("GET", "/managers/A", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetManager(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["message"], ShouldEqual, "api.get_manager: boom")
			})
		})
	})
}

func TestTableHandler_HandleGetTable(t *testing.T) {
	Convey("Given a table handler", t, func() {
		deps := &mockDependencies{
			rows: []model.DenseRecord{
				{WeeklyRecord: model.WeeklyRecord{Manager: "A", Gameweek: 3, TotalPoints: model.Int(180)}, LeagueRank: model.Int(1)},
			},
		}
		handler := api.NewTableHandler(deps)

		Convey("When requesting one gameweek", func() {
			req := httptest.NewRequest("GET", "/table?gameweek=3", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetTable(w, req)

			Convey("Then the gameweek is passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastGameweek, ShouldEqual, 3)
				So(w.Body.String(), ShouldContainSubstring, `"league_rank":1`)
			})
		})

		Convey("When no gameweek is given", func() {
			req := httptest.NewRequest("GET", "/table", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetTable(w, req)

			Convey("Then the whole season is requested", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastGameweek, ShouldEqual, 0)
			})
		})

		Convey("When the gameweek is not a positive number", func() {
			for _, q := range []string{"abc", "0", "-1"} {
				req := httptest.NewRequest("GET", "/table?gameweek="+q, http.NoBody)
				w := httptest.NewRecorder()
				handler.HandleGetTable(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the gameweek is beyond the season", func() {
			deps.tableErr = fmt.Errorf("%w: 39 not in 1..38", service.ErrGameweekOutOfRange)
			req := httptest.NewRequest("GET", "/table?gameweek=39", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleGetTable(w, req)

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		handler := api.NewStatsHandler(&mockStatsProvider{stats: map[string]interface{}{"runs": 2}})

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleStats(w, req)

			Convey("Then it should return the stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"runs":2`)
			})
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("DELETE", "/stats", http.NoBody)
			w := httptest.NewRecorder()
			handler.HandleStats(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped in the metrics middleware", t, func() {
		inner := func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}
		handler := api.MetricsMiddleware(inner, "test")

		Convey("When it is invoked", func() {
			req := httptest.NewRequest("GET", "/test", http.NoBody)
			w := httptest.NewRecorder()

			Convey("Then the status code passes through", func() {
				So(func() { handler(w, req) }, ShouldNotPanic)
				So(w.Code, ShouldEqual, http.StatusTeapot)
			})
		})
	})
}
