package model

// Response wraps an analysis payload with the profile status that produced it.
// Data is nil unless Status is READY.
type Response[T any] struct {
	Status Status `json:"status"`
	Data   *T     `json:"data"`
}

// MetricAnnotation describes one metric's contribution to an axis.
type MetricAnnotation struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Unit       string  `json:"unit"`
	Value      float64 `json:"value"`
	Display    string  `json:"formattedValue"`
	Direction  string  `json:"direction"`
	Percentile int     `json:"percentile"`
}

// AxisResult is the scored outcome of one playstyle axis.
type AxisResult struct {
	Key        string             `json:"key"`
	Label      string             `json:"label"`
	Score      int                `json:"score"`
	ScoreLabel string             `json:"scoreLabel"`
	Metrics    []MetricAnnotation `json:"metrics"`
	Evidence   map[string]float64 `json:"evidence"`
}

// Record is the win/loss tally of the window.
type Record struct {
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"winRate"`
}

// Efficiency summarises per-game output.
type Efficiency struct {
	KDA               float64 `json:"kda"`
	KillParticipation float64 `json:"killParticipation"`
	DamageShare       float64 `json:"damageShare"`
	GoldPerMin        int     `json:"goldPerMin"`
	VisionPerMin      float64 `json:"visionPerMin"`
}

// PhaseTempo is the output profile for one game phase.
type PhaseTempo struct {
	Phase             string  `json:"phase"`
	KillsPer10m       float64 `json:"killsPer10m"`
	DeathsPer10m      float64 `json:"deathsPer10m"`
	DPM               float64 `json:"dpm"`
	CSPerMin          float64 `json:"csPerMin"`
	KillParticipation float64 `json:"killParticipation"`
}

// Tempo holds phase-bucketed output. Replicated is true when no match carried
// timeline events and every phase holds the whole-game rates.
type Tempo struct {
	Phases     []PhaseTempo `json:"phases"`
	BestPhase  string       `json:"bestPhase"`
	Highlights string       `json:"highlights"`
	Replicated bool         `json:"replicated"`
}

// Consistency holds coefficients of variation for the core metrics.
type Consistency struct {
	KDACV    float64 `json:"kdaCv"`
	DPMCV    float64 `json:"dpmCv"`
	KPCV     float64 `json:"kpCv"`
	CSCV     float64 `json:"csCv"`
	VisionCV float64 `json:"visionCv"`
	Label    string  `json:"label"`
}

// RoleShare is the integer percentage of games played in a role.
type RoleShare struct {
	Role    Role `json:"role"`
	Games   int  `json:"games"`
	Percent int  `json:"percent"`
}

// ComfortPick is a champion played often enough to call a comfort pick.
// AxesDelta is nil when axis scores could not be computed for the champion.
type ComfortPick struct {
	Champion  string         `json:"champion"`
	Games     int            `json:"games"`
	WinRate   int            `json:"winRate"`
	KDA       float64        `json:"kda"`
	AxesDelta map[string]int `json:"axesDelta"`
}

// RoleChampions summarises role mix and champion pool.
type RoleChampions struct {
	RoleMix         []RoleShare   `json:"roleMix"`
	UniqueChampions int           `json:"uniqueChampions"`
	ChampionEntropy float64       `json:"championEntropy"`
	ComfortPicks    []ComfortPick `json:"comfortPicks"`
}

// Streaks is the result of a single pass over win/loss outcomes in fetch order.
// Current is positive for an ongoing win streak and negative for a loss streak.
type Streaks struct {
	LongestWin        int     `json:"longestWin"`
	LongestLoss       int     `json:"longestLoss"`
	LossStreaks       []int   `json:"lossStreaks"`
	AverageLossStreak float64 `json:"averageLossStreak"`
	Current           int     `json:"current"`
}

// PlaystyleSummary is the full signature-playstyle payload.
type PlaystyleSummary struct {
	MatchCount     int           `json:"matchCount"`
	WindowLabel    string        `json:"windowLabel"`
	GeneratedAt    string        `json:"generatedAt"`
	PrimaryRole    Role          `json:"primaryRole"`
	PlaystyleLabel string        `json:"playstyleLabel"`
	OneLiner       string        `json:"oneLiner"`
	Record         Record        `json:"record"`
	Axes           []AxisResult  `json:"axes"`
	Efficiency     Efficiency    `json:"efficiency"`
	Tempo          Tempo         `json:"tempo"`
	Consistency    Consistency   `json:"consistency"`
	RoleChampions  RoleChampions `json:"roleChampions"`
	Streaks        Streaks       `json:"streaks"`
	Insights       []string      `json:"insights"`
}

// Visualization types.
const (
	VizBar       = "bar"
	VizProgress  = "progress"
	VizHistogram = "histogram"
	VizLine      = "line"
	VizScatter   = "scatter"
	VizRadar     = "radar"
	VizTimeline  = "timeline"
	VizBoxplot   = "boxplot"
)

// ChartPoint is a labelled point for line, scatter, radar and timeline charts.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y"`
}

// HistogramBucket is one histogram bar.
type HistogramBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BoxplotStats are the five positional summary values of a boxplot.
type BoxplotStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Visualization is a chart descriptor. Only the fields relevant to Type are set.
type Visualization struct {
	Type      string            `json:"type"`
	Value     *int              `json:"value,omitempty"`
	Benchmark *int              `json:"benchmark,omitempty"`
	Buckets   []HistogramBucket `json:"buckets,omitempty"`
	Points    []ChartPoint      `json:"points,omitempty"`
	Boxplot   *BoxplotStats     `json:"boxplot,omitempty"`
}

// FaultlinesMetric is a supporting metric of a faultlines index.
type FaultlinesMetric struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formattedValue"`
	Unit           string  `json:"unit,omitempty"`
	Percent        float64 `json:"percent"`
	Trend          string  `json:"trend"`
}

// FaultlinesIndex is one composite strength/weakness index.
type FaultlinesIndex struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	DerivedFrom   []string           `json:"derivedFrom"`
	Score         int                `json:"score"`
	Metrics       []FaultlinesMetric `json:"metrics"`
	Visualization Visualization      `json:"visualization"`
	Insight       string             `json:"insight"`
}

// FaultlinesSummary is the full faultlines payload.
type FaultlinesSummary struct {
	MatchCount  int               `json:"matchCount"`
	GeneratedAt string            `json:"generatedAt"`
	Indices     []FaultlinesIndex `json:"indices"`
}
