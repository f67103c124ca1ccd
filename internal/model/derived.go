package model

// Derived metric names. These are the keys of the baseline table and of axis
// evidence maps.
const (
	MetricKillsPer10m             = "killsPer10m"
	MetricSoloKillsPer10m         = "soloKillsPer10m"
	MetricDPM                     = "dpm"
	MetricLargestMultiKill        = "largestMultiKill"
	MetricDamageTakenPer10m       = "damageTakenPer10m"
	MetricDeathsPer10m            = "deathsPer10m"
	MetricTimeDeadPer10m          = "timeDeadPer10m"
	MetricTakedownsPer10m         = "takedownsPer10m"
	MetricCSPerMin                = "csPerMin"
	MetricTurretTakesPerGame      = "turretTakesPerGame"
	MetricObjectivesEpicPerGame   = "objectivesEpicPerGame"
	MetricObjectiveDamagePer10m   = "objectiveDamagePer10m"
	MetricObjectivesStolenPerGame = "objectivesStolenPerGame"
	MetricVisionPerMin            = "visionPerMin"
	MetricWardsKilledPer10m       = "wardsKilledPer10m"
	MetricDetectorsPer10m         = "detectorsPer10m"
	MetricAssistsPer10m           = "assistsPer10m"
	MetricCCTimePer10m            = "ccTimePer10m"
	MetricSupportMitigationPer10m = "supportMitigationPer10m"
	MetricImmobilizePer10m        = "immobilizePer10m"
)

// DerivedMatch holds the rate-normalized metrics for one match plus the raw
// fields later stages need. Every float field is finite.
type DerivedMatch struct {
	MatchID     string
	Champion    string
	Role        Role
	RawPosition string
	Win         bool
	DurationSec float64

	Kills     int
	Deaths    int
	Assists   int
	SoloKills int

	BaronKills  int
	DragonKills int
	HeraldKills int

	VisionScore    float64
	GoldEarned     float64
	ReportedKDA    float64
	FirstBlood     bool
	EarlySurrender bool

	KillsPer10m             float64
	SoloKillsPer10m         float64
	DPM                     float64
	LargestMultiKill        float64
	DamageTakenPer10m       float64
	DeathsPer10m            float64
	TimeDeadPer10m          float64
	TakedownsPer10m         float64
	CSPerMin                float64
	TurretTakesPerGame      float64
	ObjectivesEpicPerGame   float64
	ObjectiveDamagePer10m   float64
	ObjectivesStolenPerGame float64
	VisionPerMin            float64
	WardsKilledPer10m       float64
	DetectorsPer10m         float64
	AssistsPer10m           float64
	CCTimePer10m            float64
	SupportMitigationPer10m float64
	ImmobilizePer10m        float64

	KillParticipation float64
	DamageShare       float64
	GoldPerMin        float64

	Events []TimelineEvent

	// Unobserved marks metrics whose source fields were all absent from the record.
	Unobserved map[string]bool
}

// KDA returns (kills + assists) / max(deaths, 1).
func (d *DerivedMatch) KDA() float64 {
	deaths := d.Deaths
	if deaths < 1 {
		deaths = 1
	}
	return float64(d.Kills+d.Assists) / float64(deaths)
}

// DisplayKDA prefers the KDA reported by the match source.
func (d *DerivedMatch) DisplayKDA() float64 {
	if d.ReportedKDA > 0 {
		return d.ReportedKDA
	}
	return d.KDA()
}

// DurationMin returns the match length in minutes.
func (d *DerivedMatch) DurationMin() float64 {
	return d.DurationSec / 60
}

// Metric looks up a derived metric by name. ok is false when the name is not a
// derived metric or when the match did not carry its source fields.
func (d *DerivedMatch) Metric(name string) (v float64, ok bool) {
	if d.Unobserved[name] {
		return 0, false
	}
	switch name {
	case MetricKillsPer10m:
		return d.KillsPer10m, true
	case MetricSoloKillsPer10m:
		return d.SoloKillsPer10m, true
	case MetricDPM:
		return d.DPM, true
	case MetricLargestMultiKill:
		return d.LargestMultiKill, true
	case MetricDamageTakenPer10m:
		return d.DamageTakenPer10m, true
	case MetricDeathsPer10m:
		return d.DeathsPer10m, true
	case MetricTimeDeadPer10m:
		return d.TimeDeadPer10m, true
	case MetricTakedownsPer10m:
		return d.TakedownsPer10m, true
	case MetricCSPerMin:
		return d.CSPerMin, true
	case MetricTurretTakesPerGame:
		return d.TurretTakesPerGame, true
	case MetricObjectivesEpicPerGame:
		return d.ObjectivesEpicPerGame, true
	case MetricObjectiveDamagePer10m:
		return d.ObjectiveDamagePer10m, true
	case MetricObjectivesStolenPerGame:
		return d.ObjectivesStolenPerGame, true
	case MetricVisionPerMin:
		return d.VisionPerMin, true
	case MetricWardsKilledPer10m:
		return d.WardsKilledPer10m, true
	case MetricDetectorsPer10m:
		return d.DetectorsPer10m, true
	case MetricAssistsPer10m:
		return d.AssistsPer10m, true
	case MetricCCTimePer10m:
		return d.CCTimePer10m, true
	case MetricSupportMitigationPer10m:
		return d.SupportMitigationPer10m, true
	case MetricImmobilizePer10m:
		return d.ImmobilizePer10m, true
	}
	return 0, false
}
