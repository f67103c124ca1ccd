// Package faultlines computes the eight strength/weakness indices of a
// player's match window.
package faultlines

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/legendscope/legendscope/internal/aggregator"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/stats"
)

// Index IDs, in build order.
const (
	CombatEfficiency     = "combat_efficiency_index"
	ObjectiveReliability = "objective_reliability_index"
	SurvivalDiscipline   = "survival_discipline_index"
	VisionAwareness      = "vision_awareness_index"
	EconomyUtilization   = "economy_utilization_index"
	RoleStability        = "role_stability_index"
	Momentum             = "momentum_index"
	Composure            = "composure_index"
)

// Scoring constants.
const (
	kdaCeiling           = 5.0
	soloRateMultiplier   = 200.0
	baronPerGameBaseline = 0.8
	dragonPerGameTarget  = 1.5
	deathCeiling         = 10.0
	visionPerMinTarget   = 2.0
	gpmTarget            = 500.0
	roleSpreadMultiplier = 200.0
	singleRoleScore      = 70
	streakTarget         = 5.0
	combatBenchmark      = 64
	objectiveBenchmark   = 65
)

// Trend values for supporting metrics.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// Computed is an index plus the context line used to request its insight.
type Computed struct {
	Index   model.FaultlinesIndex
	Context string
}

// Compute builds all eight indices, without insights. The match list must be
// non-empty.
func Compute(matches []model.DerivedMatch) ([]Computed, error) {
	if len(matches) == 0 {
		return nil, aggregator.ErrNoMatches
	}
	return []Computed{
		combatEfficiency(matches),
		objectiveReliability(matches),
		survivalDiscipline(matches),
		visionAwareness(matches),
		economyUtilization(matches),
		roleStability(matches),
		momentum(matches),
		composure(matches),
	}, nil
}

func intPtr(v int) *int { return &v }

func trend(ok bool) string {
	if ok {
		return TrendUp
	}
	return TrendDown
}

func kdaSeries(matches []model.DerivedMatch) []float64 {
	out := make([]float64, len(matches))
	for i := range matches {
		out[i] = matches[i].KDA()
	}
	return out
}

func combatEfficiency(matches []model.DerivedMatch) Computed {
	kdas := kdaSeries(matches)
	solo := make([]float64, len(matches))
	for i := range matches {
		takedowns := matches[i].Kills + matches[i].Assists
		if takedowns > 0 {
			solo[i] = float64(matches[i].Kills) / float64(takedowns)
		}
	}
	avgKDA := stats.Mean(kdas)
	avgSolo := stats.Mean(solo)

	kdaScore := math.Min(avgKDA/kdaCeiling*100, 100)
	soloScore := math.Min(avgSolo*soloRateMultiplier, 100)
	score := stats.Score(kdaScore*0.6 + soloScore*0.4)

	kdaTrend := TrendFlat
	if avgKDA >= 3 {
		kdaTrend = TrendUp
	}
	margin := avgSolo - 0.5
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          CombatEfficiency,
			Title:       "Combat Efficiency Index",
			Description: "Measures offensive efficiency: how much impact per engagement.",
			DerivedFrom: []string{"Kills", "Assists", "Deaths", "Takedowns"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "kda_ratio", Label: "KDA Ratio", Value: stats.Round2(avgKDA), FormattedValue: fmt.Sprintf("%.1f", avgKDA),
					Percent: math.Min(avgKDA/kdaCeiling, 1), Trend: kdaTrend},
				{ID: "kill_share", Label: "Kill Share of Takedowns", Value: stats.Round2(avgSolo), FormattedValue: fmt.Sprintf("%d%%", int(avgSolo*100)),
					Unit: "%", Percent: stats.Clamp(avgSolo, 0, 1), Trend: TrendFlat},
				{ID: "solo_kill_margin", Label: "Solo Kill Margin", Value: stats.Round2(margin), FormattedValue: fmt.Sprintf("%+d%%", int(margin*100)),
					Unit: "%", Percent: math.Min(math.Abs(margin)*2, 1), Trend: trend(margin > 0)},
			},
			Visualization: model.Visualization{Type: model.VizBar, Value: intPtr(score), Benchmark: intPtr(combatBenchmark)},
		},
		Context: fmt.Sprintf("Player averages %.1f KDA with %.0f%% of takedowns as kills across %d matches.",
			avgKDA, avgSolo*100, len(matches)),
	}
}

func objectiveReliability(matches []model.DerivedMatch) Computed {
	n := float64(len(matches))
	var barons, dragons, heralds, stolen, turrets float64
	for i := range matches {
		m := &matches[i]
		barons += float64(m.BaronKills)
		dragons += float64(m.DragonKills)
		heralds += float64(m.HeraldKills)
		stolen += m.ObjectivesStolenPerGame
		turrets += m.TurretTakesPerGame
	}
	baronRate := barons / n
	dragonRate := dragons / n
	presence := math.Min(baronRate/baronPerGameBaseline, 1)
	score := stats.Score(presence*100*0.6 + dragonRate/dragonPerGameTarget*100*0.4)

	dragonControl := math.Min(dragonRate/dragonPerGameTarget, 1)
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          ObjectiveReliability,
			Title:       "Objective Reliability Index",
			Description: "How consistent you are in helping secure major objectives.",
			DerivedFrom: []string{"Baron Kills", "Dragon Kills", "Turret Kills", "Objectives Stolen"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "baron_presence", Label: "Baron Presence", Value: stats.Round2(presence), FormattedValue: fmt.Sprintf("%d%%", int(presence*100)),
					Unit: "%", Percent: presence, Trend: trend(presence >= 0.5)},
				{ID: "dragon_control", Label: "Dragons / Game", Value: stats.Round2(dragonRate), FormattedValue: fmt.Sprintf("%.1f", dragonRate),
					Percent: dragonControl, Trend: trend(dragonRate >= 1)},
				{ID: "turret_takes", Label: "Structures / Game", Value: stats.Round2(turrets / n), FormattedValue: fmt.Sprintf("%.1f", turrets/n),
					Percent: math.Min(turrets/n/3, 1), Trend: trend(turrets/n >= 1)},
				{ID: "objectives_stolen", Label: "Steals / Game", Value: stats.Round2(stolen / n), FormattedValue: fmt.Sprintf("%.2f", stolen/n),
					Percent: math.Min(stolen/n, 1), Trend: TrendFlat},
			},
			Visualization: model.Visualization{Type: model.VizProgress, Value: intPtr(score), Benchmark: intPtr(objectiveBenchmark)},
		},
		Context: fmt.Sprintf("Player takes %.1f barons, %.1f dragons and %.1f heralds per game across %d matches.",
			baronRate, dragonRate, heralds/n, len(matches)),
	}
}

func survivalDiscipline(matches []model.DerivedMatch) Computed {
	deaths := make([]float64, len(matches))
	buckets := []model.HistogramBucket{{Label: "0-3"}, {Label: "4-6"}, {Label: "7-9"}, {Label: "10+"}}
	var deadPer10 []float64
	for i := range matches {
		d := matches[i].Deaths
		deaths[i] = float64(d)
		deadPer10 = append(deadPer10, matches[i].TimeDeadPer10m)
		switch {
		case d <= 3:
			buckets[0].Count++
		case d <= 6:
			buckets[1].Count++
		case d <= 9:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	avgDeaths := stats.Mean(deaths)
	score := stats.Score(100 - avgDeaths/deathCeiling*100)

	// share of each ten minutes spent waiting to respawn
	deadShare := stats.Clamp(stats.Mean(deadPer10)/600, 0, 1)
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          SurvivalDiscipline,
			Title:       "Survival Discipline",
			Description: "Ability to minimise unnecessary deaths and adapt defensively.",
			DerivedFrom: []string{"Deaths", "Time Spent Dead"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "avg_deaths", Label: "Deaths / Game", Value: stats.Round2(avgDeaths), FormattedValue: fmt.Sprintf("%.1f", avgDeaths),
					Percent: math.Min(avgDeaths/deathCeiling, 1), Trend: trend(avgDeaths <= 4)},
				{ID: "time_dead_share", Label: "Time Spent Dead", Value: stats.Round2(deadShare), FormattedValue: fmt.Sprintf("%d%%", int(deadShare*100)),
					Unit: "%", Percent: deadShare, Trend: trend(deadShare < 0.1)},
			},
			Visualization: model.Visualization{Type: model.VizHistogram, Buckets: buckets},
		},
		Context: fmt.Sprintf("Player averages %.1f deaths per game across %d matches. Distribution: %d games with 0-3 deaths, %d with 4-6, %d with 7-9, %d with 10+.",
			avgDeaths, len(matches), buckets[0].Count, buckets[1].Count, buckets[2].Count, buckets[3].Count),
	}
}

func visionAwareness(matches []model.DerivedMatch) Computed {
	var vpm, wardsKilled []float64
	points := make([]model.ChartPoint, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		vpm = append(vpm, m.VisionPerMin)
		wardsKilled = append(wardsKilled, m.WardsKilledPer10m)
		points = append(points, model.ChartPoint{Label: fmt.Sprintf("G%d", i+1), X: float64(i + 1), Y: stats.Round2(m.VisionPerMin)})
	}
	avg := stats.Mean(vpm)
	score := stats.Score(math.Min(avg/visionPerMinTarget*100, 100))
	cleared := stats.Mean(wardsKilled)
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          VisionAwareness,
			Title:       "Vision & Awareness Index",
			Description: "Vision setup and map control awareness.",
			DerivedFrom: []string{"Vision Score", "Wards Placed", "Wards Cleared", "Vision Per Minute"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "vision_score_pm", Label: "Vision / Min", Value: stats.Round2(avg), FormattedValue: fmt.Sprintf("%.2f", avg),
					Percent: math.Min(avg/visionPerMinTarget, 1), Trend: trend(avg >= 1)},
				{ID: "wards_cleared", Label: "Wards Cleared / 10m", Value: stats.Round2(cleared), FormattedValue: fmt.Sprintf("%.2f", cleared),
					Percent: math.Min(cleared, 1), Trend: trend(cleared >= 0.32)},
			},
			Visualization: model.Visualization{Type: model.VizLine, Points: points},
		},
		Context: fmt.Sprintf("Player maintains %.2f vision score per minute on average across %d matches.", avg, len(matches)),
	}
}

func economyUtilization(matches []model.DerivedMatch) Computed {
	var gpm []float64
	var dmgPerGold []float64
	points := make([]model.ChartPoint, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		gpm = append(gpm, m.GoldPerMin)
		if m.GoldPerMin > 0 {
			dmgPerGold = append(dmgPerGold, m.DPM/m.GoldPerMin)
		}
		result := "Loss"
		if m.Win {
			result = "Win"
		}
		points = append(points, model.ChartPoint{
			Label: fmt.Sprintf("%.0fm %s", m.DurationMin(), result),
			X:     stats.Round1(m.DurationMin()),
			Y:     math.Round(m.GoldPerMin),
		})
	}
	avg := stats.Mean(gpm)
	score := stats.Score(math.Min(avg/gpmTarget*100, 100))
	dpg := stats.Mean(dmgPerGold)
	lo, hi := minMax(gpm)
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          EconomyUtilization,
			Title:       "Economy Utilization Index",
			Description: "Efficiency in converting gold into meaningful pressure.",
			DerivedFrom: []string{"Gold Earned", "Gold Per Minute", "Damage / Gold"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "gold_per_minute", Label: "Gold / Min", Value: math.Round(avg), FormattedValue: fmt.Sprintf("%.0f", avg),
					Percent: math.Min(avg/gpmTarget, 1), Trend: trend(avg >= 400)},
				{ID: "damage_per_gold", Label: "Damage / Gold", Value: stats.Round2(dpg), FormattedValue: fmt.Sprintf("%.2f", dpg),
					Percent: math.Min(dpg/2, 1), Trend: trend(dpg >= 1)},
			},
			Visualization: model.Visualization{Type: model.VizScatter, Points: points},
		},
		Context: fmt.Sprintf("Player earns an average of %.0f gold per minute across %d matches. GPM range: %.0f to %.0f.",
			avg, len(matches), lo, hi),
	}
}

func roleStability(matches []model.DerivedMatch) Computed {
	games := make(map[model.Role]int)
	wins := make(map[model.Role]int)
	for i := range matches {
		games[matches[i].Role]++
		if matches[i].Win {
			wins[matches[i].Role]++
		}
	}
	var rates []float64
	var points []model.ChartPoint
	var parts []string
	for _, role := range model.Roles {
		g := games[role]
		if g == 0 {
			continue
		}
		wr := float64(wins[role]) / float64(g)
		rates = append(rates, wr)
		points = append(points, model.ChartPoint{Label: string(role), Y: math.Round(wr * 100)})
		parts = append(parts, fmt.Sprintf("%s: %.0f%%", role, wr*100))
	}

	score := singleRoleScore
	if len(rates) >= 2 {
		score = stats.Score(100 - stats.SampleStdDev(rates)*roleSpreadMultiplier)
	}
	lo, hi := minMax(rates)
	spread := hi - lo
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          RoleStability,
			Title:       "Role Stability Index",
			Description: "Measures performance stability across primary and secondary roles.",
			DerivedFrom: []string{"Role Win Rate", "Roles Played"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "roles_played", Label: "Roles Played", Value: float64(len(rates)), FormattedValue: fmt.Sprintf("%d", len(rates)),
					Percent: stats.Clamp(float64(len(rates))/float64(len(model.Roles)), 0, 1), Trend: TrendFlat},
				{ID: "role_winrate_spread", Label: "Win Rate Spread", Value: stats.Round2(spread), FormattedValue: fmt.Sprintf("%.0fpp", spread*100),
					Unit: "pp", Percent: spread, Trend: trend(spread <= 0.2)},
			},
			Visualization: model.Visualization{Type: model.VizRadar, Points: points},
		},
		Context: fmt.Sprintf("Player has played %d roles across %d matches. Win rates by role: %s.",
			len(rates), len(matches), strings.Join(parts, ", ")),
	}
}

func momentum(matches []model.DerivedMatch) Computed {
	streaks := aggregator.ComputeStreaks(aggregator.Outcomes(matches))
	score := stats.Score(math.Min(float64(streaks.LongestWin)/streakTarget*100, 100))

	points := make([]model.ChartPoint, 0, len(matches))
	wins := 0
	for i := range matches {
		if matches[i].Win {
			wins++
		}
		points = append(points, model.ChartPoint{
			Label: fmt.Sprintf("G%d", i+1),
			X:     float64(i + 1),
			Y:     math.Round(float64(wins) / float64(i+1) * 100),
		})
	}

	current := "wins"
	if streaks.Current < 0 {
		current = "losses"
	}
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          Momentum,
			Title:       "Momentum Index",
			Description: "Captures streak patterns: momentum and recovery.",
			DerivedFrom: []string{"Win Streaks", "Loss Streaks"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "win_streak_cap", Label: "Peak Win Streak", Value: float64(streaks.LongestWin), FormattedValue: fmt.Sprintf("%d", streaks.LongestWin),
					Percent: math.Min(float64(streaks.LongestWin)/streakTarget, 1), Trend: trend(streaks.LongestWin >= 3)},
				{ID: "loss_recovery_time", Label: "Avg Loss Streak", Value: streaks.AverageLossStreak, FormattedValue: fmt.Sprintf("%.1f games", streaks.AverageLossStreak),
					Percent: math.Min(streaks.AverageLossStreak/streakTarget, 1), Trend: trend(streaks.AverageLossStreak <= 2)},
			},
			Visualization: model.Visualization{Type: model.VizTimeline, Points: points},
		},
		Context: fmt.Sprintf("Player's peak win streak is %d games across %d matches. Current streak: %d %s.",
			streaks.LongestWin, len(matches), abs(streaks.Current), current),
	}
}

func composure(matches []model.DerivedMatch) Computed {
	kdas := kdaSeries(matches)
	sd := stats.SampleStdDev(kdas)
	score := stats.Score(100 - sd/kdaCeiling*100)

	deaths := make([]float64, len(matches))
	for i := range matches {
		deaths[i] = float64(matches[i].Deaths)
	}
	deathSpread := stats.SampleStdDev(deaths)
	box := Boxplot(kdas)
	return Computed{
		Index: model.FaultlinesIndex{
			ID:          Composure,
			Title:       "Composure Index",
			Description: "Evaluates consistency between best and worst matches.",
			DerivedFrom: []string{"KDA Standard Deviation", "Deaths Deviation"},
			Score:       score,
			Metrics: []model.FaultlinesMetric{
				{ID: "kda_variance", Label: "KDA Std Dev", Value: stats.Round2(sd), FormattedValue: fmt.Sprintf("%.2f", sd),
					Percent: math.Min(sd/kdaCeiling, 1), Trend: trend(sd <= 1.5)},
				{ID: "death_spread", Label: "Deaths Std Dev", Value: stats.Round2(deathSpread), FormattedValue: fmt.Sprintf("%.1f", deathSpread),
					Percent: math.Min(deathSpread/deathCeiling, 1), Trend: trend(deathSpread <= 2)},
			},
			Visualization: model.Visualization{Type: model.VizBoxplot, Boxplot: &box},
		},
		Context: fmt.Sprintf("Player shows KDA deviation of %.2f across %d matches. KDA range: %.1f to %.1f. Median KDA: %.1f.",
			sd, len(matches), box.Min, box.Max, box.Median),
	}
}

// Boxplot summarises values with positional quartiles on the sorted copy:
// Q1 at n/4, median at n/2, Q3 at 3n/4. Fewer than five values degrade the
// quartiles to min and max.
func Boxplot(values []float64) model.BoxplotStats {
	if len(values) == 0 {
		return model.BoxplotStats{}
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	n := len(s)
	box := model.BoxplotStats{
		Min:    stats.Round2(s[0]),
		Median: stats.Round2(s[n/2]),
		Max:    stats.Round2(s[n-1]),
	}
	if n < 5 {
		box.Q1, box.Q3 = box.Min, box.Max
	} else {
		box.Q1 = stats.Round2(s[n/4])
		box.Q3 = stats.Round2(s[3*n/4])
	}
	return box
}

func minMax(xs []float64) (lo, hi float64) {
	for i, x := range xs {
		if i == 0 || x < lo {
			lo = x
		}
		if i == 0 || x > hi {
			hi = x
		}
	}
	return lo, hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
