// Package report renders analysis results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/legendscope/legendscope/internal/baseline"
	"github.com/legendscope/legendscope/internal/model"
)

var (
	cStrong = color.New(color.FgGreen, color.Bold)
	cGood   = color.New(color.FgGreen)
	cMid    = color.New(color.FgYellow)
	cWeak   = color.New(color.FgRed)
	cTitle  = color.New(color.FgCyan, color.Bold)
	cMuted  = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// Score colours a 0-100 score by the same buckets the fallback insights use.
func Score(score int) string {
	s := strconv.Itoa(score)
	switch {
	case score >= 80:
		return cStrong.Sprint(s)
	case score >= 65:
		return cGood.Sprint(s)
	case score >= 50:
		return cMid.Sprint(s)
	default:
		return cWeak.Sprint(s)
	}
}

func title(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w)
	cTitle.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// PrintStatus prints the one-line explanation for a response that carries no data.
func PrintStatus(w io.Writer, playerID string, status model.Status) {
	var why string
	switch status {
	case model.StatusNotStarted:
		why = "match history has not been fetched yet"
	case model.StatusFetching:
		why = "match history is still being fetched"
	case model.StatusNoMatches:
		why = "no qualifying matches"
	case model.StatusFailed:
		why = "analysis failed, see logs"
	default:
		why = "profile status unknown"
	}
	fmt.Fprintf(w, "%s: %s (%s)\n", playerID, status, why)
}

// PrintPlaystyle prints the signature playstyle summary.
func PrintPlaystyle(w io.Writer, s model.PlaystyleSummary) {
	title(w, "%s", s.PlaystyleLabel)
	fmt.Fprintf(w, "%s\n", s.OneLiner)
	cMuted.Fprintf(w, "%s  |  primary role %s  |  %dW %dL (%.0f%%)\n",
		s.WindowLabel, s.PrimaryRole, s.Record.Wins, s.Record.Losses, s.Record.WinRate*100)

	title(w, "Axes")
	t := newTable(w)
	t.Header("AXIS", "SCORE", "LABEL", "TOP METRIC")
	for _, ax := range s.Axes {
		top := "-"
		if len(ax.Metrics) > 0 {
			m := ax.Metrics[0]
			top = fmt.Sprintf("%s %s (p%d)", m.Label, m.Display, m.Percentile)
		}
		t.Append(ax.Label, Score(ax.Score), ax.ScoreLabel, top)
	}
	t.Render()

	e := s.Efficiency
	title(w, "Efficiency")
	t = newTable(w)
	t.Header("KDA", "KP", "DMG SHARE", "GPM", "VIS/MIN")
	t.Append(
		fmt.Sprintf("%.2f", e.KDA),
		pct(e.KillParticipation),
		pct(e.DamageShare),
		strconv.Itoa(e.GoldPerMin),
		fmt.Sprintf("%.2f", e.VisionPerMin),
	)
	t.Render()

	PrintTempo(w, s.Tempo)

	c := s.Consistency
	title(w, "Consistency: %s", c.Label)
	t = newTable(w)
	t.Header("KDA CV", "DPM CV", "KP CV", "CS CV", "VISION CV")
	t.Append(
		fmt.Sprintf("%.2f", c.KDACV),
		fmt.Sprintf("%.2f", c.DPMCV),
		fmt.Sprintf("%.2f", c.KPCV),
		fmt.Sprintf("%.2f", c.CSCV),
		fmt.Sprintf("%.2f", c.VisionCV),
	)
	t.Render()

	PrintRoleChampions(w, s.RoleChampions)

	st := s.Streaks
	fmt.Fprintf(w, "\nStreaks: longest win %d, longest loss %d, current %+d\n", st.LongestWin, st.LongestLoss, st.Current)

	if len(s.Insights) > 0 {
		title(w, "Insights")
		for _, in := range s.Insights {
			fmt.Fprintf(w, "  * %s\n", in)
		}
	}
}

// PrintTempo prints the phase table.
func PrintTempo(w io.Writer, tempo model.Tempo) {
	if tempo.Replicated {
		title(w, "Tempo (no timeline, whole-game rates)")
	} else {
		title(w, "Tempo (best phase: %s)", tempo.BestPhase)
	}
	t := newTable(w)
	t.Header("PHASE", "K/10", "D/10", "DPM", "CS/MIN", "KP")
	for _, p := range tempo.Phases {
		t.Append(
			p.Phase,
			fmt.Sprintf("%.2f", p.KillsPer10m),
			fmt.Sprintf("%.2f", p.DeathsPer10m),
			fmt.Sprintf("%.0f", p.DPM),
			fmt.Sprintf("%.1f", p.CSPerMin),
			pct(p.KillParticipation),
		)
	}
	t.Render()
	if tempo.Highlights != "" {
		cMuted.Fprintln(w, tempo.Highlights)
	}
}

// PrintRoleChampions prints the role mix and comfort picks.
func PrintRoleChampions(w io.Writer, rc model.RoleChampions) {
	var mix []string
	for _, r := range rc.RoleMix {
		mix = append(mix, fmt.Sprintf("%s %d%%", r.Role, r.Percent))
	}
	title(w, "Champion pool")
	fmt.Fprintf(w, "roles: %s\n", strings.Join(mix, ", "))
	fmt.Fprintf(w, "unique champions: %d  |  entropy %.2f\n", rc.UniqueChampions, rc.ChampionEntropy)
	if len(rc.ComfortPicks) == 0 {
		return
	}

	t := newTable(w)
	t.Header("CHAMPION", "GAMES", "WR", "KDA", "AXES DELTA")
	for _, p := range rc.ComfortPicks {
		delta := "-"
		if p.AxesDelta != nil {
			keys := make([]string, 0, len(p.AxesDelta))
			for k := range p.AxesDelta {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s %+d", k, p.AxesDelta[k]))
			}
			delta = strings.Join(parts, " ")
		}
		t.Append(p.Champion, strconv.Itoa(p.Games), fmt.Sprintf("%d%%", p.WinRate), fmt.Sprintf("%.2f", p.KDA), delta)
	}
	t.Render()
}

// PrintFaultlines prints the eight indices and their supporting metrics.
func PrintFaultlines(w io.Writer, f model.FaultlinesSummary) {
	title(w, "Faultlines (%d matches)", f.MatchCount)
	t := newTable(w)
	t.Header("INDEX", "SCORE", "METRICS", "INSIGHT")
	for _, idx := range f.Indices {
		parts := make([]string, 0, len(idx.Metrics))
		for _, m := range idx.Metrics {
			parts = append(parts, fmt.Sprintf("%s %s", m.Label, m.FormattedValue))
		}
		t.Append(idx.Title, Score(idx.Score), strings.Join(parts, "; "), idx.Insight)
	}
	t.Render()
}

// PrintBattles prints every battle-history section.
func PrintBattles(w io.Writer, b model.BattleSummary) {
	c := b.Cards
	title(w, "%s", b.Narrative.Headline)
	fmt.Fprintln(w, b.Narrative.Body)

	title(w, "Summary")
	t := newTable(w)
	t.Header("BATTLES", "CLAIMS", "FALLS", "RATIO", "BEST RUN", "WORST RUN", "CLUTCH", "SURRENDER", "AVG LENGTH")
	t.Append(
		strconv.Itoa(c.BattlesFought),
		strconv.Itoa(c.Claims),
		strconv.Itoa(c.Falls),
		fmt.Sprintf("%.2f", c.ClaimFallRatio),
		strconv.Itoa(c.LongestClaimStreak),
		strconv.Itoa(c.LongestFallStreak),
		strconv.Itoa(c.ClutchGames),
		fmt.Sprintf("%d%%", c.SurrenderRate),
		c.AverageMatchLabel,
	)
	t.Render()

	if len(b.Roles) > 0 {
		title(w, "Roles")
		t = newTable(w)
		t.Header("ROLE", "GAMES", "W", "L", "WR", "KDA", "FB%", "VISION", "GPM")
		for _, r := range b.Roles {
			t.Append(
				r.Role,
				strconv.Itoa(r.Games),
				strconv.Itoa(r.Claims),
				strconv.Itoa(r.Falls),
				fmt.Sprintf("%d%%", r.WinRate),
				fmt.Sprintf("%.1f", r.AverageKDA),
				fmt.Sprintf("%d%%", r.FirstBloodRate),
				strconv.Itoa(r.VisionScore),
				strconv.Itoa(r.GoldPerMinute),
			)
		}
		t.Render()
	}

	if len(b.Champions) > 0 {
		title(w, "Champions")
		t = newTable(w)
		t.Header("CHAMPION", "GAMES", "W", "L", "WR")
		for _, ch := range b.Champions {
			t.Append(ch.Champion, strconv.Itoa(ch.Games), strconv.Itoa(ch.Claims), strconv.Itoa(ch.Falls), fmt.Sprintf("%d%%", ch.WinRate))
		}
		t.Render()
	}

	r := b.Risk
	title(w, "Risk profile")
	t = newTable(w)
	t.Header("EARLY AGGRESSION", "EARLY FALLS", "OBJECTIVES", "VISION")
	t.Append(Score(r.EarlyAggression), Score(r.EarlyFalls), Score(r.ObjectiveControl), Score(r.VisionCommitment))
	t.Render()
	if r.Narrative != "" {
		cMuted.Fprintln(w, r.Narrative)
	}
}

// PrintBaselines prints the baseline table, and the axes with their weights.
func PrintBaselines(w io.Writer, table baseline.Table, axes []baseline.Axis) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	title(w, "Baselines")
	t := newTable(w)
	t.Header("METRIC", "LABEL", "MEAN", "STD", "UNIT")
	for _, name := range names {
		m := table[name]
		p := baseline.PresentationFor(name)
		t.Append(name, p.Label, strconv.FormatFloat(m.Mean, 'f', -1, 64), strconv.FormatFloat(m.Std, 'f', -1, 64), p.Unit)
	}
	t.Render()

	title(w, "Axes")
	t = newTable(w)
	t.Header("AXIS", "METRIC", "WEIGHT")
	for _, ax := range axes {
		for i, m := range ax.Metrics {
			label := ""
			if i == 0 {
				label = ax.Label
			}
			t.Append(label, m.Metric, fmt.Sprintf("%+.2f", m.Weight))
		}
	}
	t.Render()
}

// PrintTrend prints one row per match in fetch order.
func PrintTrend(w io.Writer, matches []model.DerivedMatch) {
	t := newTable(w)
	t.Header("#", "CHAMPION", "ROLE", "RESULT", "LENGTH", "K/D/A", "KDA", "KP", "DPM", "CS/MIN", "VIS/MIN")
	for i, m := range matches {
		result := cWeak.Sprint("L")
		if m.Win {
			result = cGood.Sprint("W")
		}
		t.Append(
			strconv.Itoa(i+1),
			m.Champion,
			string(m.Role),
			result,
			fmt.Sprintf("%.0fm", m.DurationMin()),
			fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
			fmt.Sprintf("%.2f", m.KDA()),
			pct(m.KillParticipation),
			fmt.Sprintf("%.0f", m.DPM),
			fmt.Sprintf("%.1f", m.CSPerMin),
			fmt.Sprintf("%.2f", m.VisionPerMin),
		)
	}
	t.Render()
}
