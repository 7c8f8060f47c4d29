// Package table builds the league table from per-manager snapshots and
// expands it to a dense manager by gameweek grid.
package table

import (
	"sort"

	"github.com/okian/wrapped/internal/domain/model"
)

// Table is the unified raw league table.
type Table struct {
	// Managers lists every manager observed in the input, including those
	// with no recorded gameweeks, in ascending order.
	Managers []string
	// Rows holds all records sorted by (manager, gameweek). Duplicates are kept.
	Rows []model.WeeklyRecord
}

// Build concatenates the per-manager record sets into one table.
// Rows are not dropped or deduplicated.
func Build(managers []string, sets ...[]model.WeeklyRecord) Table {
	seen := make(map[string]struct{}, len(managers))
	names := make([]string, 0, len(managers))
	add := func(m string) {
		if _, ok := seen[m]; ok {
			return
		}
		seen[m] = struct{}{}
		names = append(names, m)
	}
	for _, m := range managers {
		add(m)
	}

	n := 0
	for _, s := range sets {
		n += len(s)
	}
	rows := make([]model.WeeklyRecord, 0, n)
	for _, s := range sets {
		for _, r := range s {
			add(r.Manager)
			rows = append(rows, r)
		}
	}

	sort.Strings(names)
	// Stable so duplicate (manager, gameweek) rows keep input order.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Manager != rows[j].Manager {
			return rows[i].Manager < rows[j].Manager
		}
		return rows[i].Gameweek < rows[j].Gameweek
	})

	return Table{Managers: names, Rows: rows}
}
