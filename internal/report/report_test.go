package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/legendscope/legendscope/internal/baseline"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/storage"
)

func init() {
	color.NoColor = true
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestScoreBuckets(t *testing.T) {
	for _, s := range []int{0, 49, 50, 65, 80, 100} {
		if got := Score(s); got != strings.TrimSpace(got) || got == "" {
			t.Errorf("Score(%d) = %q", s, got)
		}
	}
	if Score(72) != "72" {
		t.Errorf("Score(72) = %q with colour disabled", Score(72))
	}
}

func TestPrintPlaystyle(t *testing.T) {
	var buf bytes.Buffer
	PrintPlaystyle(&buf, model.PlaystyleSummary{
		MatchCount:     12,
		WindowLabel:    "Last 12 matches",
		PrimaryRole:    model.RoleMid,
		PlaystyleLabel: "Map Sentinel",
		OneLiner:       "Balanced playstyle (55% KP, 24% DMG share)",
		Record:         model.Record{Games: 12, Wins: 7, Losses: 5, WinRate: 0.58},
		Axes: []model.AxisResult{{
			Key: baseline.AxisVisionDiscipline, Label: "Vision Discipline", Score: 81, ScoreLabel: "Elite",
			Metrics: []model.MetricAnnotation{{Label: "Vision score", Display: "1.40 per min", Percentile: 97}},
		}},
		Tempo: model.Tempo{Replicated: true, Phases: []model.PhaseTempo{{Phase: "early"}}},
		RoleChampions: model.RoleChampions{
			RoleMix:      []model.RoleShare{{Role: model.RoleMid, Games: 9, Percent: 75}},
			ComfortPicks: []model.ComfortPick{{Champion: "Ahri", Games: 5, WinRate: 60, KDA: 3.2, AxesDelta: map[string]int{"aggression": 4}}},
		},
		Insights: []string{"Vision control is your edge."},
	})
	assertContains(t, buf.String(),
		"Map Sentinel", "Balanced playstyle", "Vision Discipline", "81", "Elite",
		"whole-game rates", "Ahri", "aggression +4", "Vision control is your edge.",
	)
}

func TestPrintBattles(t *testing.T) {
	var buf bytes.Buffer
	PrintBattles(&buf, model.BattleSummary{
		Cards:     model.SummaryCards{BattlesFought: 20, Claims: 12, Falls: 8, AverageMatchLabel: "28m 45s"},
		Roles:     []model.RoleSummary{{Role: "Mid Lane", Games: 14}},
		Champions: []model.ChampionSummary{{Champion: "Others", Games: 3}},
		Risk:      model.RiskProfile{Narrative: "You play it safe."},
		Narrative: model.Narrative{Headline: "Strategist of the Mid Lane", Body: "Twenty battles."},
	})
	assertContains(t, buf.String(), "Strategist of the Mid Lane", "28m 45s", "Mid Lane", "Others", "You play it safe.")
}

func TestPrintFaultlinesAndTrend(t *testing.T) {
	var buf bytes.Buffer
	PrintFaultlines(&buf, model.FaultlinesSummary{MatchCount: 4, Indices: []model.FaultlinesIndex{{
		Title: "Combat Efficiency", Score: 62,
		Metrics: []model.FaultlinesMetric{{Label: "KDA", FormattedValue: "3.10"}},
		Insight: "Solid combat efficiency with room for optimization.",
	}}})
	PrintTrend(&buf, []model.DerivedMatch{{Champion: "Lux", Role: model.RoleSupport, Win: true, DurationSec: 1800, Kills: 1, Deaths: 2, Assists: 14}})
	assertContains(t, buf.String(), "Combat Efficiency", "KDA 3.10", "Lux", "1/2/14", "30m")
}

func TestPrintBaselines(t *testing.T) {
	var buf bytes.Buffer
	PrintBaselines(&buf, baseline.Default, baseline.Axes)
	assertContains(t, buf.String(), model.MetricDPM, "Damage per minute (DPM)", "450")
}

func TestPrintStoreListings(t *testing.T) {
	var buf bytes.Buffer
	PrintProfiles(&buf, nil)
	PrintSnapshots(&buf, nil)
	assertContains(t, buf.String(), "No players stored yet", "No snapshots stored yet")

	buf.Reset()
	PrintProfiles(&buf, []storage.Profile{{PUUID: "0123456789abcdef", RiotID: "Faker#KR1", Status: model.StatusReady, Matches: 20}})
	PrintSnapshots(&buf, []storage.Snapshot{{ID: "fedcba9876543210", Kind: "faultlines", Size: 812}})
	assertContains(t, buf.String(), "0123456789ab", "Faker#KR1", "READY", "fedcba987654", "faultlines", "812 B")
}
