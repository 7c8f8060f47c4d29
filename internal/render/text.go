// Package render prints a recap for terminals.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/okian/wrapped/internal/domain/model"
)

// ErrUnknownManager is returned when the selected manager is not in the recap.
var ErrUnknownManager = errors.New("unknown manager")

// Text writes the award lines, the selected manager's season (if manager is
// non-empty) and the final standings.
func Text(w io.Writer, recap *model.Recap, manager string) error {
	var summary model.ManagerSeasonSummary
	if manager != "" {
		s, ok := recap.Summary(manager)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownManager, manager)
		}
		summary = s
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintf(tw, "League Wrapped, gameweek %d\n\n", recap.FinalGameweek)
	fmt.Fprintf(tw, "King of the Bench:\t%s\t(left the most points on the bench)\n", recap.Awards.KingOfTheBench)
	fmt.Fprintf(tw, "Captain Genius:\t%s\t(most captain points)\n", recap.Awards.CaptainGenius)
	fmt.Fprintf(tw, "Todd Boehly Award:\t%s\t(most transfers)\n", recap.Awards.MostTransfers)

	if manager != "" {
		fmt.Fprintf(tw, "\n%s\n", manager)
		fmt.Fprintf(tw, "Total Points\t%s\n", optional(summary.TotalPoints))
		fmt.Fprintf(tw, "Total Transfers Made\t%d\n", summary.TotalTransfers)
		fmt.Fprintf(tw, "Total Bench Points\t%d\n", summary.TotalBenchPoints)
		fmt.Fprintf(tw, "Captain Points\t%d\n", summary.CaptainPoints)
		if ex := recap.Extremes[manager]; ex != nil {
			fmt.Fprintf(tw, "Best Gameweek\tGW%d (%d points)\n", ex.Best.Gameweek, ex.Best.Points)
			fmt.Fprintf(tw, "Worst Gameweek\tGW%d (%d points)\n", ex.Worst.Gameweek, ex.Worst.Points)
		} else {
			fmt.Fprintln(tw, "Best Gameweek\tn/a")
			fmt.Fprintln(tw, "Worst Gameweek\tn/a")
		}
	}

	fmt.Fprintln(tw, "\nRank\tManager\tPoints")
	for _, st := range recap.Standings {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", optional(st.LeagueRank), st.Manager, optional(st.TotalPoints))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write recap: %w", err)
	}
	return nil
}

func optional(v *int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.Itoa(*v)
}
