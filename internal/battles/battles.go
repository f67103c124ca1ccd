// Package battles builds the battle-history page: headline cards, per-role
// and per-champion breakdowns, the early-game risk profile and a narrative.
// Wins are "claims" and losses are "falls" throughout.
package battles

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/legendscope/legendscope/internal/aggregator"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/stats"
)

const (
	topChampions = 5
	othersName   = "Others"
	othersColor  = "#64748b"
)

var championColors = []string{
	"#60a5fa", "#8b5cf6", "#22d3ee", "#f97316", "#facc15",
	"#ec4899", "#10b981", "#f59e0b", "#6366f1", "#14b8a6",
}

var roleNames = map[string]string{
	"TOP":     "Top Lane",
	"JUNGLE":  "Jungle",
	"MIDDLE":  "Mid Lane",
	"MID":     "Mid Lane",
	"BOTTOM":  "Bot Lane",
	"UTILITY": "Support",
}

// DisplayRole maps a raw team position to its page label. Unknown values pass
// through; an empty position reads "Unknown".
func DisplayRole(position string) string {
	if name, ok := roleNames[position]; ok {
		return name
	}
	if position == "" {
		return "Unknown"
	}
	return position
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// Summarize builds every section from one window of matches.
func Summarize(matches []model.DerivedMatch) model.BattleSummary {
	cards := Cards(matches)
	roles := Roles(matches)
	champs := Champions(matches)
	risk := Risk(matches, roles)
	return model.BattleSummary{
		Cards:     cards,
		Roles:     roles,
		Champions: champs,
		Risk:      risk,
		Narrative: Tell(cards, roles, champs, &risk),
	}
}

// Cards computes the headline counters. An empty window yields zero cards.
func Cards(matches []model.DerivedMatch) model.SummaryCards {
	n := len(matches)
	if n == 0 {
		return model.SummaryCards{AverageMatchLabel: FormatDuration(0)}
	}

	var claims, clutch, surrenders, totalSec int
	for i := range matches {
		m := &matches[i]
		if m.Win {
			claims++
			if m.Kills < max(m.Deaths, 1) {
				clutch++
			}
		}
		if m.EarlySurrender {
			surrenders++
		}
		totalSec += int(m.DurationSec)
	}
	falls := n - claims

	ratio := float64(claims)
	if falls > 0 {
		ratio = stats.Round2(float64(claims) / float64(falls))
	}

	streaks := aggregator.ComputeStreaks(aggregator.Outcomes(matches))
	avg := totalSec / n
	return model.SummaryCards{
		BattlesFought:       n,
		Claims:              claims,
		Falls:               falls,
		ClaimFallRatio:      ratio,
		LongestClaimStreak:  streaks.LongestWin,
		LongestFallStreak:   streaks.LongestLoss,
		ClutchGames:         clutch,
		SurrenderRate:       stats.Percent(surrenders, n),
		AverageMatchSeconds: avg,
		AverageMatchLabel:   FormatDuration(avg),
	}
}

type roleAgg struct {
	games, claims, firstBloods int
	kda, vision, gpm           float64
}

// Roles aggregates by display role, most-played first. Roles with equal games
// keep first-seen order.
func Roles(matches []model.DerivedMatch) []model.RoleSummary {
	aggs := map[string]*roleAgg{}
	var order []string
	for i := range matches {
		m := &matches[i]
		name := DisplayRole(m.RawPosition)
		a, ok := aggs[name]
		if !ok {
			a = &roleAgg{}
			aggs[name] = a
			order = append(order, name)
		}
		a.games++
		if m.Win {
			a.claims++
		}
		if m.FirstBlood {
			a.firstBloods++
		}
		a.kda += m.DisplayKDA()
		a.vision += m.VisionScore
		a.gpm += m.GoldPerMin
	}

	out := make([]model.RoleSummary, 0, len(order))
	for _, name := range order {
		a := aggs[name]
		g := float64(a.games)
		out = append(out, model.RoleSummary{
			Role:           name,
			Games:          a.games,
			Claims:         a.claims,
			Falls:          a.games - a.claims,
			WinRate:        stats.Percent(a.claims, a.games),
			AverageKDA:     stats.Round1(a.kda / g),
			FirstBloodRate: stats.Percent(a.firstBloods, a.games),
			VisionScore:    int(math.Round(a.vision / g)),
			GoldPerMinute:  int(math.Round(a.gpm / g)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Games > out[j].Games })
	return out
}

// Champions returns the five most-played champions with palette colours and
// folds the rest into a single "Others" slice.
func Champions(matches []model.DerivedMatch) []model.ChampionSummary {
	type agg struct {
		name          string
		games, claims int
	}
	idx := map[string]int{}
	var list []agg
	for i := range matches {
		name := matches[i].Champion
		if name == "" {
			name = "Unknown"
		}
		j, ok := idx[name]
		if !ok {
			j = len(list)
			idx[name] = j
			list = append(list, agg{name: name})
		}
		list[j].games++
		if matches[i].Win {
			list[j].claims++
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].games > list[j].games })

	out := make([]model.ChampionSummary, 0, min(len(list), topChampions+1))
	var others *model.ChampionSummary
	for i, a := range list {
		if i < topChampions {
			out = append(out, model.ChampionSummary{
				Champion: a.name,
				Games:    a.games,
				Claims:   a.claims,
				Falls:    a.games - a.claims,
				WinRate:  stats.Percent(a.claims, a.games),
				Color:    championColors[i%len(championColors)],
			})
			continue
		}
		if others == nil {
			others = &model.ChampionSummary{Champion: othersName, Color: othersColor}
		}
		others.Games += a.games
		others.Claims += a.claims
	}
	if others != nil {
		others.Falls = others.Games - others.Claims
		others.WinRate = stats.Percent(others.Claims, others.Games)
		out = append(out, *others)
	}
	return out
}

// Risk scores early-game habits. roles feeds the closing sentence, naming the
// lowest win-rate role.
func Risk(matches []model.DerivedMatch, roles []model.RoleSummary) model.RiskProfile {
	n := len(matches)
	if n == 0 {
		return model.RiskProfile{Narrative: "Insufficient data to generate risk profile."}
	}

	var firstBloods, earlyDeaths, objectives int
	var vision float64
	for i := range matches {
		m := &matches[i]
		if m.FirstBlood {
			firstBloods++
		}
		if m.Deaths >= 3 && !m.Win {
			earlyDeaths++
		}
		objectives += m.DragonKills + m.BaronKills + m.HeraldKills
		vision += m.VisionScore
	}

	p := model.RiskProfile{
		EarlyAggression:  stats.Percent(firstBloods, n),
		EarlyFalls:       stats.Percent(earlyDeaths, n),
		ObjectiveControl: min(100, int(math.Round(float64(objectives)/float64(n)*20))),
		VisionCommitment: min(100, int(math.Round(vision/float64(n)*1.5))),
	}

	aggression := "You approach the opening moments with patience"
	if p.EarlyAggression >= 60 {
		aggression = "You open with decisive strikes"
	}
	vulnerability := "while keeping early skirmishes largely under control"
	if p.EarlyFalls >= 40 {
		vulnerability = "but early missteps risk surrendering tempo"
	}
	narrative := aggression + " " + vulnerability + ", and vision remains your lasting strength."
	if weakest, ok := lowestWinRate(roles); ok {
		narrative += fmt.Sprintf(" Guard your %s rotations to protect that edge.", strings.ToLower(weakest.Role))
	}
	p.Narrative = narrative
	return p
}

func lowestWinRate(roles []model.RoleSummary) (model.RoleSummary, bool) {
	if len(roles) == 0 {
		return model.RoleSummary{}, false
	}
	best := roles[0]
	for _, r := range roles[1:] {
		if r.WinRate < best.WinRate {
			best = r
		}
	}
	return best, true
}

// Tell writes the headline and three-sentence story. Without roles, champions
// or a risk profile it reports that data is still pending.
func Tell(cards model.SummaryCards, roles []model.RoleSummary, champs []model.ChampionSummary, risk *model.RiskProfile) model.Narrative {
	if cards.BattlesFought == 0 || len(roles) == 0 || len(champs) == 0 || risk == nil {
		return model.Narrative{
			Headline: "Awaiting Battle Data",
			Body:     "Insufficient match history to generate narrative summary.",
		}
	}

	byRate := append([]model.RoleSummary(nil), roles...)
	sort.SliceStable(byRate, func(i, j int) bool { return byRate[i].WinRate > byRate[j].WinRate })
	top, struggling := byRate[0], byRate[len(byRate)-1]

	byClaims := append([]model.ChampionSummary(nil), champs...)
	sort.SliceStable(byClaims, func(i, j int) bool { return byClaims[i].Claims > byClaims[j].Claims })
	primary, secondary := byClaims[0], byClaims[0]
	if len(byClaims) > 1 {
		secondary = byClaims[1]
	}

	body := strings.Join([]string{
		fmt.Sprintf("Across %d battles you carved %d victories, leaning on %s at a %d%% claim rate.",
			cards.BattlesFought, cards.Claims, strings.ToLower(top.Role), top.WinRate),
		fmt.Sprintf("%s remains the proving ground, but your arsenal of %s and %s keeps momentum within reach.",
			struggling.Role, primary.Champion, secondary.Champion),
		fmt.Sprintf("Channel the %d%% vision commitment into %s resilience to seize the next front.",
			risk.VisionCommitment, strings.ToLower(struggling.Role)),
	}, " ")

	return model.Narrative{
		Headline: "Strategist of the " + top.Role,
		Body:     body,
	}
}
