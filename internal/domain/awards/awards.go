// Package awards reduces the dense league table into season summaries and
// picks the award winners.
package awards

import (
	"fmt"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/internal/domain/table"
)

// Summarize builds one ManagerSeasonSummary per manager in d, in d's
// manager order. Bench points and transfers are summed over known values
// only. TotalPoints is taken from the final gameweek of d and stays nil if
// the manager has no record there.
func Summarize(d table.Dense, captains []model.CaptainPoints) ([]model.ManagerSeasonSummary, error) {
	byManager := make(map[string]int, len(captains))
	for _, c := range captains {
		if _, dup := byManager[c.Manager]; dup {
			return nil, &model.DataFormatError{
				Source: "captain points",
				Reason: fmt.Sprintf("duplicate entry for manager %q", c.Manager),
			}
		}
		byManager[c.Manager] = c.CaptainPoints
	}

	final := d.FinalGameweek()
	out := make([]model.ManagerSeasonSummary, 0, len(d.Managers))
	for _, m := range d.Managers {
		captain, ok := byManager[m]
		if !ok {
			return nil, &model.MissingManagerError{Manager: m}
		}

		s := model.ManagerSeasonSummary{Manager: m, CaptainPoints: captain}
		for _, r := range d.Manager(m) {
			if r.BenchPoints != nil {
				s.TotalBenchPoints += *r.BenchPoints
			}
			if r.EventTransfers != nil {
				s.TotalTransfers += *r.EventTransfers
			}
			if r.Gameweek == final && r.TotalPoints != nil {
				s.TotalPoints = model.Int(*r.TotalPoints)
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// Select picks the award winners. Ties go to the lexicographically
// smallest manager name.
func Select(summaries []model.ManagerSeasonSummary) (model.Awards, error) {
	if len(summaries) == 0 {
		return model.Awards{}, model.ErrNoManagers
	}
	return model.Awards{
		KingOfTheBench: argmax(summaries, func(s model.ManagerSeasonSummary) int { return s.TotalBenchPoints }),
		CaptainGenius:  argmax(summaries, func(s model.ManagerSeasonSummary) int { return s.CaptainPoints }),
		MostTransfers:  argmax(summaries, func(s model.ManagerSeasonSummary) int { return s.TotalTransfers }),
	}, nil
}

func argmax(summaries []model.ManagerSeasonSummary, value func(model.ManagerSeasonSummary) int) string {
	best := summaries[0]
	for _, s := range summaries[1:] {
		v, bv := value(s), value(best)
		if v > bv || (v == bv && s.Manager < best.Manager) {
			best = s
		}
	}
	return best.Manager
}

// Extremes finds the manager's best and worst gameweeks by points. When
// several gameweeks tie, the earliest wins. A manager without any known
// points yields an *model.EmptyHistoryError.
func Extremes(d table.Dense, manager string) (model.GameweekExtremes, error) {
	var (
		ext   model.GameweekExtremes
		found bool
	)
	for _, r := range d.Manager(manager) {
		if r.Points == nil {
			continue
		}
		p := model.GameweekPoints{Gameweek: r.Gameweek, Points: *r.Points}
		if !found {
			ext = model.GameweekExtremes{Best: p, Worst: p}
			found = true
			continue
		}
		if p.Points > ext.Best.Points {
			ext.Best = p
		}
		if p.Points < ext.Worst.Points {
			ext.Worst = p
		}
	}
	if !found {
		return model.GameweekExtremes{}, &model.EmptyHistoryError{Manager: manager}
	}
	return ext, nil
}
