package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

func recap() *model.Recap {
	return &model.Recap{
		FinalGameweek: 38,
		Awards:        model.Awards{KingOfTheBench: "B", CaptainGenius: "A", MostTransfers: "A"},
		Summaries: []model.ManagerSeasonSummary{
			{Manager: "A", TotalPoints: model.Int(2000), TotalTransfers: 20, TotalBenchPoints: 150, CaptainPoints: 700},
			{Manager: "B", TotalPoints: model.Int(1800), TotalTransfers: 15, TotalBenchPoints: 200, CaptainPoints: 650},
			{Manager: "C"},
		},
		Extremes: map[string]*model.GameweekExtremes{
			"A": {Best: model.GameweekPoints{Gameweek: 12, Points: 101}, Worst: model.GameweekPoints{Gameweek: 3, Points: 22}},
			"C": nil,
		},
		Standings: []model.Standing{
			{Manager: "A", LeagueRank: model.Int(1), TotalPoints: model.Int(2000)},
			{Manager: "B", LeagueRank: model.Int(2), TotalPoints: model.Int(1800)},
			{Manager: "C", LeagueRank: model.Int(3)},
		},
	}
}

func TestText(t *testing.T) {
	Convey("Given a recap", t, func() {
		var buf bytes.Buffer

		Convey("When rendering without a manager", func() {
			err := render.Text(&buf, recap(), "")
			out := buf.String()

			Convey("Then the awards and standings are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "gameweek 38")
				So(out, ShouldContainSubstring, "King of the Bench:")
				So(out, ShouldContainSubstring, "Todd Boehly Award:")
				So(out, ShouldNotContainSubstring, "Best Gameweek")
				So(out, ShouldContainSubstring, "Rank")
				So(strings.Index(out, "2000"), ShouldBeLessThan, strings.Index(out, "1800"))
			})
		})

		Convey("When rendering for a manager", func() {
			err := render.Text(&buf, recap(), "A")
			out := buf.String()

			Convey("Then the season metrics and extremes are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Captain Points")
				So(out, ShouldContainSubstring, "700")
				So(out, ShouldContainSubstring, "GW12 (101 points)")
				So(out, ShouldContainSubstring, "GW3 (22 points)")
			})
		})

		Convey("When rendering for a manager without history", func() {
			err := render.Text(&buf, recap(), "C")
			out := buf.String()

			Convey("Then missing values are shown as n/a", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Best Gameweek")
				So(strings.Count(out, "n/a"), ShouldBeGreaterThanOrEqualTo, 4)
			})
		})

		Convey("When the manager is unknown", func() {
			err := render.Text(&buf, recap(), "Z")

			Convey("Then nothing is written", func() {
				So(errors.Is(err, render.ErrUnknownManager), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}
