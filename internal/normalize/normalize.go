// Package normalize converts raw match records into rate-normalized metrics.
package normalize

import (
	"strings"

	"github.com/legendscope/legendscope/internal/model"
)

// MinDurationSec is the shortest match (8 minutes) worth analysing; shorter
// games are remakes or early surrenders.
const MinDurationSec = 480

// Default pass-through values when the source does not report them.
const (
	DefaultKillParticipation = 0.5
	DefaultDamageShare       = 0.2
)

// PerMinute returns x per minute of a match lasting durationSec seconds.
func PerMinute(x, durationSec float64) float64 {
	if durationSec <= 0 {
		return 0
	}
	return x * 60 / durationSec
}

// Per10Min returns x per 10 minutes of a match lasting durationSec seconds.
func Per10Min(x, durationSec float64) float64 {
	if durationSec <= 0 {
		return 0
	}
	return x * 600 / durationSec
}

// Role maps a raw team position onto the canonical roles. Unknown or empty
// positions are FLEX.
func Role(position string) model.Role {
	switch strings.ToUpper(strings.TrimSpace(position)) {
	case "TOP":
		return model.RoleTop
	case "JUNGLE":
		return model.RoleJungle
	case "MIDDLE", "MID":
		return model.RoleMid
	case "BOTTOM", "ADC", "BOT":
		return model.RoleBottom
	case "UTILITY", "SUPPORT":
		return model.RoleSupport
	default:
		return model.RoleFlex
	}
}

// FilterMinDuration drops records shorter than MinDurationSec. The input
// slice is not modified.
func FilterMinDuration(records []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, len(records))
	for _, r := range records {
		if r.Float(model.KeyDuration) >= MinDurationSec {
			out = append(out, r)
		}
	}
	return out
}

// metricSources lists the raw keys each derived metric is computed from. A
// metric is unobserved in a match when none of its keys are present.
var metricSources = map[string][]string{
	model.MetricKillsPer10m:             {model.KeyKills},
	model.MetricSoloKillsPer10m:         {model.KeySoloKills},
	model.MetricDPM:                     {model.KeyChampionDamage},
	model.MetricLargestMultiKill:        {model.KeyLargestMulti},
	model.MetricDamageTakenPer10m:       {model.KeyDamageTaken},
	model.MetricDeathsPer10m:            {model.KeyDeaths},
	model.MetricTimeDeadPer10m:          {model.KeyTimeDead},
	model.MetricTakedownsPer10m:         {model.KeyKills, model.KeyAssists},
	model.MetricCSPerMin:                {model.KeyMinions, model.KeyNeutralMinions},
	model.MetricTurretTakesPerGame:      {model.KeyTurretKills, model.KeyInhibitorKills},
	model.MetricObjectivesEpicPerGame:   {model.KeyBaronKills, model.KeyDragonKills},
	model.MetricObjectiveDamagePer10m:   {model.KeyObjectiveDamage},
	model.MetricObjectivesStolenPerGame: {model.KeyObjectivesStole},
	model.MetricVisionPerMin:            {model.KeyVisionScore},
	model.MetricWardsKilledPer10m:       {model.KeyWardsKilled},
	model.MetricDetectorsPer10m:         {model.KeyDetectorWards},
	model.MetricAssistsPer10m:           {model.KeyAssists},
	model.MetricCCTimePer10m:            {model.KeyCCTime},
	model.MetricSupportMitigationPer10m: {model.KeyShielding, model.KeyHealing},
	model.MetricImmobilizePer10m:        {model.KeyImmobilizations},
}

// Normalizer derives per-match metrics. It is stateless; the zero value is ready to use.
type Normalizer struct{}

// Derive computes the derived metrics for one record. It never fails: missing
// or malformed fields read as zero.
func (Normalizer) Derive(r model.MatchRecord) model.DerivedMatch {
	return Derive(r)
}

// DeriveAll derives every record in order.
func (n Normalizer) DeriveAll(records []model.MatchRecord) []model.DerivedMatch {
	out := make([]model.DerivedMatch, 0, len(records))
	for _, r := range records {
		out = append(out, n.Derive(r))
	}
	return out
}

// Derive computes the derived metrics for one record.
func Derive(r model.MatchRecord) model.DerivedMatch {
	dur := r.Float(model.KeyDuration)
	kills := r.Float(model.KeyKills)
	deaths := r.Float(model.KeyDeaths)
	assists := r.Float(model.KeyAssists)
	cs := r.Float(model.KeyMinions) + r.Float(model.KeyNeutralMinions)

	d := model.DerivedMatch{
		MatchID:     r.String(model.KeyMatchID),
		Champion:    r.String(model.KeyChampion),
		RawPosition: r.String(model.KeyTeamPosition),
		Win:         r.Bool(model.KeyWin),
		DurationSec: dur,

		Kills:     model.ToInt(kills),
		Deaths:    model.ToInt(deaths),
		Assists:   model.ToInt(assists),
		SoloKills: r.Int(model.KeySoloKills),

		BaronKills:  r.Int(model.KeyBaronKills),
		DragonKills: r.Int(model.KeyDragonKills),
		HeraldKills: r.Int(model.KeyHeraldKills),

		VisionScore:    r.Float(model.KeyVisionScore),
		GoldEarned:     r.Float(model.KeyGoldEarned),
		ReportedKDA:    r.Float(model.KeyKDARatio),
		FirstBlood:     r.Bool(model.KeyFirstBlood),
		EarlySurrender: r.Bool(model.KeyEarlySurrender),

		KillsPer10m:             Per10Min(kills, dur),
		SoloKillsPer10m:         Per10Min(r.Float(model.KeySoloKills), dur),
		DPM:                     PerMinute(r.Float(model.KeyChampionDamage), dur),
		LargestMultiKill:        r.Float(model.KeyLargestMulti),
		DamageTakenPer10m:       Per10Min(r.Float(model.KeyDamageTaken), dur),
		DeathsPer10m:            Per10Min(deaths, dur),
		TimeDeadPer10m:          Per10Min(r.Float(model.KeyTimeDead), dur),
		TakedownsPer10m:         Per10Min(kills+assists, dur),
		CSPerMin:                PerMinute(cs, dur),
		TurretTakesPerGame:      r.Float(model.KeyTurretKills) + r.Float(model.KeyInhibitorKills),
		ObjectivesEpicPerGame:   r.Float(model.KeyBaronKills) + r.Float(model.KeyDragonKills),
		ObjectiveDamagePer10m:   Per10Min(r.Float(model.KeyObjectiveDamage), dur),
		ObjectivesStolenPerGame: r.Float(model.KeyObjectivesStole),
		VisionPerMin:            PerMinute(r.Float(model.KeyVisionScore), dur),
		WardsKilledPer10m:       Per10Min(r.Float(model.KeyWardsKilled), dur),
		DetectorsPer10m:         Per10Min(r.Float(model.KeyDetectorWards), dur),
		AssistsPer10m:           Per10Min(assists, dur),
		CCTimePer10m:            Per10Min(r.Float(model.KeyCCTime), dur),
		SupportMitigationPer10m: Per10Min(r.Float(model.KeyShielding)+r.Float(model.KeyHealing), dur),
		ImmobilizePer10m:        Per10Min(r.Float(model.KeyImmobilizations), dur),

		KillParticipation: DefaultKillParticipation,
		DamageShare:       DefaultDamageShare,

		Events: r.Timeline(),
	}
	d.Role = Role(d.RawPosition)

	if r.Has(model.KeyKillPart) {
		d.KillParticipation = r.Float(model.KeyKillPart)
	}
	if r.Has(model.KeyDamageShare) {
		d.DamageShare = r.Float(model.KeyDamageShare)
	}
	if r.Has(model.KeyGoldPerMinute) {
		d.GoldPerMin = r.Float(model.KeyGoldPerMinute)
	} else {
		d.GoldPerMin = PerMinute(d.GoldEarned, dur)
	}

	for metric, keys := range metricSources {
		if !anyPresent(r, keys) {
			if d.Unobserved == nil {
				d.Unobserved = make(map[string]bool)
			}
			d.Unobserved[metric] = true
		}
	}
	return d
}

func anyPresent(r model.MatchRecord, keys []string) bool {
	for _, k := range keys {
		if r.Has(k) {
			return true
		}
	}
	return false
}
