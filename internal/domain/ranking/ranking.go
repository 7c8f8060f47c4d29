// Package ranking derives per-gameweek league standings.
//
// Ordering: total points DESC with missing totals last, then manager ASC.
// Ranks use competition ("min") ranking: equal totals share the best rank
// of their group and the next distinct total skips by the group size.
package ranking

import (
	"sort"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/internal/domain/table"
)

// Compare orders two totals for ranking. It returns a negative number when
// a ranks ahead of b, zero when they tie and a positive number otherwise.
// A nil total ranks behind every known total and ties with other nils.
func Compare(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}

// less returns true if row a should be listed before row b.
func less(a, b model.DenseRecord) bool {
	if c := Compare(a.TotalPoints, b.TotalPoints); c != 0 {
		return c < 0
	}
	return a.Manager < b.Manager
}

// Derive returns a copy of d with LeagueRank set on every row. Each
// gameweek is ranked independently across all managers.
func Derive(d table.Dense) table.Dense {
	rows := make([]model.DenseRecord, len(d.Rows))
	copy(rows, d.Rows)

	idx := make([]int, len(d.Managers))
	for gw := 1; gw <= d.Gameweeks; gw++ {
		for i := range d.Managers {
			idx[i] = i*d.Gameweeks + gw - 1
		}
		sort.SliceStable(idx, func(i, j int) bool { return less(rows[idx[i]], rows[idx[j]]) })

		for pos, at := range idx {
			rank := pos + 1
			if pos > 0 {
				prev := rows[idx[pos-1]]
				if Compare(prev.TotalPoints, rows[at].TotalPoints) == 0 {
					rank = *prev.LeagueRank
				}
			}
			rows[at].LeagueRank = model.Int(rank)
		}
	}

	return table.Dense{Managers: d.Managers, Gameweeks: d.Gameweeks, Rows: rows}
}

// Standings returns the gameweek's rows ordered by league rank, then manager.
// Derive must have run on d.
func Standings(d table.Dense, gameweek int) []model.Standing {
	rows := d.Gameweek(gameweek)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })

	out := make([]model.Standing, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Standing{
			Manager:     r.Manager,
			LeagueRank:  r.LeagueRank,
			TotalPoints: r.TotalPoints,
		})
	}
	return out
}
