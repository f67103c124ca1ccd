package aggregator

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/legendscope/legendscope/internal/baseline"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/scoring"
	"github.com/legendscope/legendscope/internal/stats"
)

// ErrNoMatches is returned when there is nothing to analyse.
var ErrNoMatches = errors.New("no matches to analyse")

// WindowLabel describes the analysis window.
const WindowLabel = "Last 20 battles"

const (
	comfortMinGames = 3
	comfortMax      = 4
	maxInsights     = 4
)

// Options configure Playstyle. Zero fields take the defaults.
type Options struct {
	Table baseline.Table
	Axes  []baseline.Axis
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Table == nil {
		o.Table = baseline.Default
	}
	if o.Axes == nil {
		o.Axes = baseline.Axes
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Playstyle computes the full signature-playstyle summary for a window of
// derived matches, in fetch order.
func Playstyle(matches []model.DerivedMatch, opts Options) (model.PlaystyleSummary, error) {
	if len(matches) == 0 {
		return model.PlaystyleSummary{}, ErrNoMatches
	}
	opts = opts.withDefaults()

	// ---- Pass 1: axes. ----
	axes := scoring.BuildAxes(matches, opts.Table, opts.Axes)

	// ---- Pass 2: bundles. ----
	record := BuildRecord(matches)
	eff := BuildEfficiency(matches)
	tempo := BuildTempo(matches)
	cons := BuildConsistency(matches)
	rc := BuildRoleChampions(matches, axes, opts)
	streaks := ComputeStreaks(Outcomes(matches))

	// ---- Pass 3: labels and insights. ----
	label := PlaystyleLabel(axes)
	return model.PlaystyleSummary{
		MatchCount:     len(matches),
		WindowLabel:    WindowLabel,
		GeneratedAt:    opts.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		PrimaryRole:    PrimaryRole(rc.RoleMix),
		PlaystyleLabel: label,
		OneLiner:       OneLiner(eff),
		Record:         record,
		Axes:           axes,
		Efficiency:     eff,
		Tempo:          tempo,
		Consistency:    cons,
		RoleChampions:  rc,
		Streaks:        streaks,
		Insights:       Insights(axes, eff, tempo, cons),
	}, nil
}

// BuildRecord tallies wins and losses.
func BuildRecord(matches []model.DerivedMatch) model.Record {
	r := model.Record{Games: len(matches)}
	for i := range matches {
		if matches[i].Win {
			r.Wins++
		}
	}
	r.Losses = r.Games - r.Wins
	if r.Games > 0 {
		r.WinRate = stats.Round2(float64(r.Wins) / float64(r.Games))
	}
	return r
}

// BuildEfficiency averages per-game output.
func BuildEfficiency(matches []model.DerivedMatch) model.Efficiency {
	n := len(matches)
	kda := make([]float64, 0, n)
	kp := make([]float64, 0, n)
	share := make([]float64, 0, n)
	gpm := make([]float64, 0, n)
	vision := make([]float64, 0, n)
	for i := range matches {
		m := &matches[i]
		kda = append(kda, m.KDA())
		kp = append(kp, m.KillParticipation)
		share = append(share, m.DamageShare)
		gpm = append(gpm, m.GoldPerMin)
		vision = append(vision, m.VisionPerMin)
	}
	return model.Efficiency{
		KDA:               stats.Round2(stats.Mean(kda)),
		KillParticipation: stats.Round2(stats.Clamp(stats.Mean(kp), 0, 1)),
		DamageShare:       stats.Round2(stats.Clamp(stats.Mean(share), 0, 1)),
		GoldPerMin:        int(stats.Mean(gpm)),
		VisionPerMin:      stats.Round2(stats.Mean(vision)),
	}
}

// BuildConsistency computes coefficients of variation. The label is driven by KDA CV.
func BuildConsistency(matches []model.DerivedMatch) model.Consistency {
	var kda, dpm, kp, cs, vision []float64
	for i := range matches {
		m := &matches[i]
		kda = append(kda, m.KDA())
		dpm = append(dpm, m.DPM)
		kp = append(kp, m.KillParticipation)
		cs = append(cs, m.CSPerMin)
		vision = append(vision, m.VisionPerMin)
	}
	kdaCV := stats.CV(kda)
	return model.Consistency{
		KDACV:    stats.Round2(kdaCV),
		DPMCV:    stats.Round2(stats.CV(dpm)),
		KPCV:     stats.Round2(stats.CV(kp)),
		CSCV:     stats.Round2(stats.CV(cs)),
		VisionCV: stats.Round2(stats.CV(vision)),
		Label:    ConsistencyLabel(kdaCV),
	}
}

// ConsistencyLabel buckets a KDA coefficient of variation.
func ConsistencyLabel(cv float64) string {
	switch {
	case cv < 0.25:
		return "Stable"
	case cv < 0.45:
		return "Streaky"
	default:
		return "Volatile"
	}
}

// BuildRoleChampions computes role mix, champion pool entropy and comfort picks.
func BuildRoleChampions(matches []model.DerivedMatch, overall []model.AxisResult, opts Options) model.RoleChampions {
	opts = opts.withDefaults()
	total := len(matches)

	roleCounts := make(map[model.Role]int)
	for i := range matches {
		roleCounts[matches[i].Role]++
	}
	var mix []model.RoleShare
	for _, role := range model.Roles {
		c := roleCounts[role]
		if c == 0 {
			continue
		}
		mix = append(mix, model.RoleShare{Role: role, Games: c, Percent: c * 100 / total})
	}

	byChamp := make(map[string][]model.DerivedMatch)
	var order []string
	for _, m := range matches {
		name := m.Champion
		if name == "" {
			name = "Unknown"
		}
		if _, seen := byChamp[name]; !seen {
			order = append(order, name)
		}
		byChamp[name] = append(byChamp[name], m)
	}
	counts := make([]int, 0, len(order))
	for _, name := range order {
		counts = append(counts, len(byChamp[name]))
	}

	var picks []model.ComfortPick
	for _, name := range order {
		games := byChamp[name]
		if len(games) < comfortMinGames {
			continue
		}
		wins, takedowns, deaths := 0, 0, 0
		for i := range games {
			if games[i].Win {
				wins++
			}
			takedowns += games[i].Kills + games[i].Assists
			deaths += max(games[i].Deaths, 0)
		}
		picks = append(picks, model.ComfortPick{
			Champion:  name,
			Games:     len(games),
			WinRate:   wins * 100 / len(games),
			KDA:       stats.Round2(float64(takedowns) / float64(max(deaths, 1))),
			AxesDelta: axesDelta(games, overall, opts),
		})
	}
	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].Games != picks[j].Games {
			return picks[i].Games > picks[j].Games
		}
		return picks[i].WinRate > picks[j].WinRate
	})
	if len(picks) > comfortMax {
		picks = picks[:comfortMax]
	}

	return model.RoleChampions{
		RoleMix:         mix,
		UniqueChampions: len(order),
		ChampionEntropy: stats.Round2(stats.NormalizedEntropy(counts)),
		ComfortPicks:    picks,
	}
}

// axesDelta scores the champion's own games and subtracts the window-wide
// score per axis. nil when there is no window-wide score to compare with.
func axesDelta(games []model.DerivedMatch, overall []model.AxisResult, opts Options) map[string]int {
	if len(overall) == 0 {
		return nil
	}
	own := scoring.BuildAxes(games, opts.Table, opts.Axes)
	delta := make(map[string]int, len(own))
	for _, a := range own {
		for _, o := range overall {
			if o.Key == a.Key {
				delta[a.Key] = a.Score - o.Score
				break
			}
		}
	}
	return delta
}

// PrimaryRole returns the most played role; ties go to the earlier canonical role.
func PrimaryRole(mix []model.RoleShare) model.Role {
	best := model.RoleFlex
	bestGames := 0
	for _, rs := range mix {
		if rs.Games > bestGames {
			best, bestGames = rs.Role, rs.Games
		}
	}
	return best
}

var playstyleLabels = map[string]string{
	baseline.AxisAggression:       "Aggressive Striker",
	baseline.AxisSurvivability:    "Frontline Anchor",
	baseline.AxisSkirmishBias:     "Roaming Skirmisher",
	baseline.AxisObjectiveImpact:  "Objective-First Navigator",
	baseline.AxisVisionDiscipline: "Map Sentinel",
	baseline.AxisUtility:          "Tactical Enabler",
}

// DefaultPlaystyleLabel is used when no axis maps to a label.
const DefaultPlaystyleLabel = "Adaptive Strategist"

// TopAxis returns the highest-scoring axis; ties go to the earlier axis.
func TopAxis(axes []model.AxisResult) (model.AxisResult, bool) {
	if len(axes) == 0 {
		return model.AxisResult{}, false
	}
	top := axes[0]
	for _, a := range axes[1:] {
		if a.Score > top.Score {
			top = a
		}
	}
	return top, true
}

// PlaystyleLabel names the playstyle after the strongest axis.
func PlaystyleLabel(axes []model.AxisResult) string {
	top, ok := TopAxis(axes)
	if !ok {
		return DefaultPlaystyleLabel
	}
	if label, ok := playstyleLabels[top.Key]; ok {
		return label
	}
	return DefaultPlaystyleLabel
}

// OneLiner summarises team share.
func OneLiner(eff model.Efficiency) string {
	return fmt.Sprintf("Balanced playstyle (%d%% KP, %d%% DMG share)",
		int(eff.KillParticipation*100), int(eff.DamageShare*100))
}

// Insights builds up to four short observations.
func Insights(axes []model.AxisResult, eff model.Efficiency, tempo model.Tempo, cons model.Consistency) []string {
	var out []string
	if top, ok := TopAxis(axes); ok {
		out = append(out, fmt.Sprintf("Your strongest axis is %s (%d). Anchor plays around this strength.", top.Label, top.Score))
	}
	out = append(out, fmt.Sprintf("Consistency profile reads %s (KDA CV %d%%). Expect %s performance.",
		strings.ToLower(cons.Label), int(math.Round(cons.KDACV*100)), strings.ToLower(cons.Label)))
	out = append(out, fmt.Sprintf("%s game impact shines brightest. Leverage this timing to secure advantages.", tempo.BestPhase))
	if eff.KillParticipation >= 0.6 && eff.DamageShare >= 0.22 {
		out = append(out, "High team share: KP and damage output suggest you're a primary carry.")
	}
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}
