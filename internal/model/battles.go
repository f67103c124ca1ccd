package model

// SummaryCards are the headline counters of the battle history page.
type SummaryCards struct {
	BattlesFought       int     `json:"battlesFought"`
	Claims              int     `json:"claims"`
	Falls               int     `json:"falls"`
	ClaimFallRatio      float64 `json:"claimFallRatio"`
	LongestClaimStreak  int     `json:"longestClaimStreak"`
	LongestFallStreak   int     `json:"longestFallStreak"`
	ClutchGames         int     `json:"clutchGames"`
	SurrenderRate       int     `json:"surrenderRate"`
	AverageMatchSeconds int     `json:"averageMatchDurationSeconds"`
	AverageMatchLabel   string  `json:"averageMatchDuration"`
}

// RoleSummary aggregates the games played in one lane.
type RoleSummary struct {
	Role           string  `json:"role"`
	Games          int     `json:"games"`
	Claims         int     `json:"claims"`
	Falls          int     `json:"falls"`
	WinRate        int     `json:"winRate"`
	AverageKDA     float64 `json:"averageKda"`
	FirstBloodRate int     `json:"firstBloodRate"`
	VisionScore    int     `json:"visionScore"`
	GoldPerMinute  int     `json:"goldPerMinute"`
}

// ChampionSummary is one slice of the champion pie chart.
type ChampionSummary struct {
	Champion string `json:"name"`
	Games    int    `json:"games"`
	Claims   int    `json:"claims"`
	Falls    int    `json:"falls"`
	WinRate  int    `json:"winRate"`
	Color    string `json:"color"`
}

// RiskProfile scores early-game risk habits on 0-100 scales.
type RiskProfile struct {
	EarlyAggression  int    `json:"earlyAggression"`
	EarlyFalls       int    `json:"earlyFalls"`
	ObjectiveControl int    `json:"objectiveControl"`
	VisionCommitment int    `json:"visionCommitment"`
	Narrative        string `json:"narrative"`
}

// Narrative is the story-style headline of the battle history page.
type Narrative struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// BattleSummary groups every battle-history section.
type BattleSummary struct {
	Cards     SummaryCards      `json:"summary"`
	Roles     []RoleSummary     `json:"roles"`
	Champions []ChampionSummary `json:"champions"`
	Risk      RiskProfile       `json:"riskProfile"`
	Narrative Narrative         `json:"narrative"`
}
