package battles

import (
	"fmt"
	"strings"
	"testing"

	"github.com/legendscope/legendscope/internal/model"
)

func match(champ, pos string, win bool, k, d, a int) model.DerivedMatch {
	return model.DerivedMatch{
		Champion:    champ,
		RawPosition: pos,
		Win:         win,
		DurationSec: 1800,
		Kills:       k,
		Deaths:      d,
		Assists:     a,
		VisionScore: 20,
		GoldPerMin:  400,
	}
}

func TestCardsEmpty(t *testing.T) {
	c := Cards(nil)
	if c.BattlesFought != 0 || c.ClaimFallRatio != 0 || c.AverageMatchLabel != "0m 0s" {
		t.Errorf("empty cards = %+v", c)
	}
}

func TestCards(t *testing.T) {
	ms := []model.DerivedMatch{
		match("Ahri", "MIDDLE", true, 1, 4, 3),  // clutch
		match("Ahri", "MIDDLE", true, 8, 2, 3),
		match("Zed", "MIDDLE", false, 2, 6, 1),
		match("Lux", "UTILITY", true, 0, 0, 12), // clutch: 0 < max(0,1)
	}
	ms[2].EarlySurrender = true
	ms[3].DurationSec = 1501

	c := Cards(ms)
	if c.BattlesFought != 4 || c.Claims != 3 || c.Falls != 1 {
		t.Errorf("counts = %+v", c)
	}
	if c.ClaimFallRatio != 3 {
		t.Errorf("ratio = %v, want 3", c.ClaimFallRatio)
	}
	if c.LongestClaimStreak != 2 || c.LongestFallStreak != 1 {
		t.Errorf("streaks = %d/%d", c.LongestClaimStreak, c.LongestFallStreak)
	}
	if c.ClutchGames != 2 {
		t.Errorf("clutch = %d, want 2", c.ClutchGames)
	}
	if c.SurrenderRate != 25 {
		t.Errorf("surrender = %d, want 25", c.SurrenderRate)
	}
	// (1800*3 + 1501) / 4 = 1725
	if c.AverageMatchSeconds != 1725 || c.AverageMatchLabel != "28m 45s" {
		t.Errorf("duration = %d %q", c.AverageMatchSeconds, c.AverageMatchLabel)
	}
}

func TestCardsRatioWithFalls(t *testing.T) {
	ms := []model.DerivedMatch{
		match("A", "TOP", true, 1, 1, 1),
		match("A", "TOP", false, 1, 1, 1),
		match("A", "TOP", false, 1, 1, 1),
	}
	if r := Cards(ms).ClaimFallRatio; r != 0.5 {
		t.Errorf("ratio = %v, want 0.5", r)
	}
}

func TestRoles(t *testing.T) {
	ms := []model.DerivedMatch{
		match("Lux", "UTILITY", true, 0, 1, 10),
		match("Ahri", "MIDDLE", true, 4, 1, 4),
		match("Ahri", "MIDDLE", false, 2, 4, 2),
		match("Ahri", "", false, 2, 4, 2),
	}
	ms[1].FirstBlood = true
	ms[1].ReportedKDA = 8

	roles := Roles(ms)
	if len(roles) != 3 {
		t.Fatalf("roles = %d, want 3", len(roles))
	}
	mid := roles[0]
	if mid.Role != "Mid Lane" || mid.Games != 2 || mid.Claims != 1 || mid.Falls != 1 || mid.WinRate != 50 {
		t.Errorf("mid = %+v", mid)
	}
	// (8 + (2+2)/4) / 2 = 4.5
	if mid.AverageKDA != 4.5 {
		t.Errorf("mid kda = %v, want 4.5", mid.AverageKDA)
	}
	if mid.FirstBloodRate != 50 || mid.VisionScore != 20 || mid.GoldPerMinute != 400 {
		t.Errorf("mid = %+v", mid)
	}
	if roles[1].Role != "Support" || roles[2].Role != "Unknown" {
		t.Errorf("order = %s, %s", roles[1].Role, roles[2].Role)
	}
}

func TestChampionsFoldsOthers(t *testing.T) {
	var ms []model.DerivedMatch
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("Champ%d", i)
		games := 7 - i
		for g := 0; g < games; g++ {
			ms = append(ms, match(name, "MIDDLE", g%2 == 0, 1, 1, 1))
		}
	}
	champs := Champions(ms)
	if len(champs) != 6 {
		t.Fatalf("champions = %d, want 6", len(champs))
	}
	if champs[0].Champion != "Champ0" || champs[0].Games != 7 || champs[0].Color != "#60a5fa" {
		t.Errorf("first = %+v", champs[0])
	}
	others := champs[5]
	// Champ5 (2 games, 1 claim) + Champ6 (1 game, 1 claim)
	if others.Champion != "Others" || others.Games != 3 || others.Claims != 2 || others.WinRate != 67 || others.Color != "#64748b" {
		t.Errorf("others = %+v", others)
	}
}

func TestRisk(t *testing.T) {
	if r := Risk(nil, nil); r.Narrative != "Insufficient data to generate risk profile." || r.VisionCommitment != 0 {
		t.Errorf("empty risk = %+v", r)
	}

	ms := []model.DerivedMatch{
		match("A", "MIDDLE", false, 1, 5, 1),
		match("A", "MIDDLE", true, 1, 5, 1),
	}
	ms[0].FirstBlood = true
	ms[1].FirstBlood = true
	ms[0].DragonKills = 2
	ms[1].BaronKills = 1
	ms[1].HeraldKills = 1
	ms[0].VisionScore = 90
	ms[1].VisionScore = 60

	r := Risk(ms, Roles(ms))
	if r.EarlyAggression != 100 || r.EarlyFalls != 50 {
		t.Errorf("aggression/falls = %d/%d", r.EarlyAggression, r.EarlyFalls)
	}
	// 4 objectives / 2 games * 20 = 40
	if r.ObjectiveControl != 40 {
		t.Errorf("objective control = %d, want 40", r.ObjectiveControl)
	}
	// avg vision 75 * 1.5 = 112.5 -> capped
	if r.VisionCommitment != 100 {
		t.Errorf("vision = %d, want 100", r.VisionCommitment)
	}
	for _, want := range []string{"decisive strikes", "early missteps", "Guard your mid lane rotations"} {
		if !strings.Contains(r.Narrative, want) {
			t.Errorf("narrative %q missing %q", r.Narrative, want)
		}
	}
}

func TestTell(t *testing.T) {
	ms := []model.DerivedMatch{
		match("Ahri", "MIDDLE", true, 5, 1, 5),
		match("Ahri", "MIDDLE", true, 5, 1, 5),
		match("Lux", "UTILITY", false, 0, 3, 8),
		match("Lux", "UTILITY", true, 0, 3, 8),
	}
	s := Summarize(ms)
	if s.Narrative.Headline != "Strategist of the Mid Lane" {
		t.Errorf("headline = %q", s.Narrative.Headline)
	}
	for _, want := range []string{
		"Across 4 battles you carved 3 victories, leaning on mid lane at a 100% claim rate.",
		"Support remains the proving ground, but your arsenal of Ahri and Lux",
		"into support resilience",
	} {
		if !strings.Contains(s.Narrative.Body, want) {
			t.Errorf("body %q missing %q", s.Narrative.Body, want)
		}
	}

	empty := Summarize(nil)
	if empty.Narrative.Headline != "Awaiting Battle Data" {
		t.Errorf("empty headline = %q", empty.Narrative.Headline)
	}
}
