package table

import "github.com/okian/wrapped/internal/domain/model"

// Dense is the gap-filled grid: exactly one row per (manager, gameweek),
// ordered by manager then gameweek.
type Dense struct {
	Managers  []string
	Gameweeks int
	Rows      []model.DenseRecord
}

// FillStats describes what FillGaps had to repair.
type FillStats struct {
	// Filled counts synthesized cells with no source record.
	Filled int
	// Duplicates counts source records dropped because an earlier record
	// already occupied the same (manager, gameweek).
	Duplicates int
	// OutOfRange counts source records whose gameweek is outside 1..N.
	OutOfRange int
}

// FillGaps left-joins every (manager, gameweek) pair for gameweeks 1..N
// against t. Missing cells keep nil performance fields except OverallRank,
// which is carried forward from the manager's most recent earlier week.
// Nothing is carried backward.
func FillGaps(t Table, gameweeks int) (Dense, FillStats) {
	var stats FillStats
	if gameweeks < 0 {
		gameweeks = 0
	}

	type key struct {
		manager  string
		gameweek int
	}
	byKey := make(map[key]model.WeeklyRecord, len(t.Rows))
	for _, r := range t.Rows {
		if r.Gameweek < 1 || r.Gameweek > gameweeks {
			stats.OutOfRange++
			continue
		}
		k := key{r.Manager, r.Gameweek}
		if _, ok := byKey[k]; ok {
			stats.Duplicates++
			continue
		}
		byKey[k] = r
	}

	managers := append([]string(nil), t.Managers...)
	rows := make([]model.DenseRecord, 0, len(managers)*gameweeks)
	for _, m := range managers {
		var lastRank *int
		for gw := 1; gw <= gameweeks; gw++ {
			r, ok := byKey[key{m, gw}]
			if !ok {
				stats.Filled++
				r = model.WeeklyRecord{Manager: m, Gameweek: gw}
			}
			if r.OverallRank != nil {
				lastRank = r.OverallRank
			} else if lastRank != nil {
				r.OverallRank = model.Int(*lastRank)
			}
			rows = append(rows, model.DenseRecord{WeeklyRecord: r})
		}
	}

	return Dense{Managers: managers, Gameweeks: gameweeks, Rows: rows}, stats
}

// Manager returns the rows of one manager in gameweek order.
func (d Dense) Manager(name string) []model.DenseRecord {
	for i, m := range d.Managers {
		if m == name {
			start := i * d.Gameweeks
			return d.Rows[start : start+d.Gameweeks]
		}
	}
	return nil
}

// Gameweek returns every manager's row for gw.
func (d Dense) Gameweek(gw int) []model.DenseRecord {
	if gw < 1 || gw > d.Gameweeks {
		return nil
	}
	out := make([]model.DenseRecord, 0, len(d.Managers))
	for i := range d.Managers {
		out = append(out, d.Rows[i*d.Gameweeks+gw-1])
	}
	return out
}

// FinalGameweek returns the highest gameweek present, or 0 if empty.
func (d Dense) FinalGameweek() int {
	final := 0
	for _, r := range d.Rows {
		if r.Gameweek > final {
			final = r.Gameweek
		}
	}
	return final
}
