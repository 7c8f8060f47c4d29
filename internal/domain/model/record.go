// Package model contains domain models passed between pipeline stages.
package model

import "time"

// DefaultGameweeks is the length of a regular season.
const DefaultGameweeks = 38

// WeeklyRecord is one manager's performance in one gameweek.
// Nil fields were absent in the source snapshot.
type WeeklyRecord struct {
	Manager        string `json:"manager"`
	Gameweek       int    `json:"gameweek"`
	Points         *int   `json:"points"`
	TotalPoints    *int   `json:"total_points"`
	OverallRank    *int   `json:"overall_rank"`
	BenchPoints    *int   `json:"bench_points"`
	EventTransfers *int   `json:"event_transfers"`
}

// DenseRecord is a WeeklyRecord of the gap-filled grid plus the manager's
// standing among all managers for that gameweek.
type DenseRecord struct {
	WeeklyRecord
	LeagueRank *int `json:"league_rank"`
}

// CaptainPoints is one row of the captain-points side table.
type CaptainPoints struct {
	Manager       string `json:"manager"`
	CaptainPoints int    `json:"captain_points"`
}

// ManagerSeasonSummary holds season-long totals for a manager.
type ManagerSeasonSummary struct {
	Manager          string `json:"manager"`
	TotalPoints      *int   `json:"total_points"`
	TotalTransfers   int    `json:"total_transfers"`
	TotalBenchPoints int    `json:"total_bench_points"`
	CaptainPoints    int    `json:"captain_points"`
}

// GameweekPoints pairs a gameweek with the points scored in it.
type GameweekPoints struct {
	Gameweek int `json:"gameweek"`
	Points   int `json:"points"`
}

// GameweekExtremes holds a manager's best and worst gameweeks.
type GameweekExtremes struct {
	Best  GameweekPoints `json:"best"`
	Worst GameweekPoints `json:"worst"`
}

// Awards names the winner of each season award.
type Awards struct {
	KingOfTheBench string `json:"king_of_the_bench"`
	CaptainGenius  string `json:"captain_genius"`
	MostTransfers  string `json:"most_transfers"`
}

// Standing is a manager's league position at a given gameweek.
type Standing struct {
	Manager     string `json:"manager"`
	LeagueRank  *int   `json:"league_rank"`
	TotalPoints *int   `json:"total_points"`
}

// Recap is the full result of one pipeline run.
type Recap struct {
	RunID         string                       `json:"run_id"`
	GeneratedAt   time.Time                    `json:"generated_at"`
	FinalGameweek int                          `json:"final_gameweek"`
	Awards        Awards                       `json:"awards"`
	Summaries     []ManagerSeasonSummary       `json:"summaries"`
	Extremes      map[string]*GameweekExtremes `json:"extremes"`
	Standings     []Standing                   `json:"standings"`
	ChartImage    string                       `json:"chart_image,omitempty"`
}

// Summary returns the season summary for manager.
func (r *Recap) Summary(manager string) (ManagerSeasonSummary, bool) {
	for _, s := range r.Summaries {
		if s.Manager == manager {
			return s, true
		}
	}
	return ManagerSeasonSummary{}, false
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }
