package aggregator

import (
	"fmt"
	"math"

	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/stats"
)

// Phase boundaries in seconds: early < 14:00 <= mid < 25:00 <= late.
const (
	earlyEndSec = 14 * 60
	midEndSec   = 25 * 60
)

// Phase names.
const (
	PhaseEarly = "Early"
	PhaseMid   = "Mid"
	PhaseLate  = "Late"
)

var phases = []string{PhaseEarly, PhaseMid, PhaseLate}

func phaseOf(sec float64) int {
	switch {
	case sec < earlyEndSec:
		return 0
	case sec < midEndSec:
		return 1
	default:
		return 2
	}
}

// phaseSeconds splits a match duration across the three phases.
func phaseSeconds(dur float64) [3]float64 {
	var out [3]float64
	if dur <= 0 {
		return out
	}
	out[0] = min(dur, earlyEndSec)
	out[1] = stats.Clamp(dur-earlyEndSec, 0, midEndSec-earlyEndSec)
	out[2] = max(dur-midEndSec, 0)
	return out
}

// BuildTempo splits kill and death tempo by game phase. Matches carrying a
// timeline are bucketed by event timestamp; when none do, the whole-game rates
// are replicated across phases and the result is flagged Replicated.
func BuildTempo(matches []model.DerivedMatch) model.Tempo {
	var dpm, cs, kp, kills, deaths []float64
	for i := range matches {
		m := &matches[i]
		dpm = append(dpm, m.DPM)
		cs = append(cs, m.CSPerMin)
		kp = append(kp, m.KillParticipation)
		kills = append(kills, m.KillsPer10m)
		deaths = append(deaths, m.DeathsPer10m)
	}
	whole := model.PhaseTempo{
		KillsPer10m:       stats.Round2(stats.Mean(kills)),
		DeathsPer10m:      stats.Round2(stats.Mean(deaths)),
		DPM:               math.Round(stats.Mean(dpm)),
		CSPerMin:          stats.Round2(stats.Mean(cs)),
		KillParticipation: stats.Round2(stats.Mean(kp)),
	}

	var killCount, deathCount, seconds [3]float64
	timelines := 0
	for i := range matches {
		m := &matches[i]
		if len(m.Events) == 0 {
			continue
		}
		timelines++
		ps := phaseSeconds(m.DurationSec)
		for p := range ps {
			seconds[p] += ps[p]
		}
		for _, ev := range m.Events {
			p := phaseOf(ev.TimestampMs / 1000)
			switch ev.Type {
			case model.EventKill:
				killCount[p]++
			case model.EventDeath:
				deathCount[p]++
			}
		}
	}

	out := model.Tempo{Phases: make([]model.PhaseTempo, 0, len(phases))}
	if timelines == 0 {
		for _, name := range phases {
			pt := whole
			pt.Phase = name
			out.Phases = append(out.Phases, pt)
		}
		out.BestPhase = PhaseMid
		out.Replicated = true
		out.Highlights = fmt.Sprintf("No timeline data: whole-game tempo of %.2f kills and %.2f deaths per 10 minutes shown for every phase.",
			whole.KillsPer10m, whole.DeathsPer10m)
		return out
	}

	best, bestNet := -1, 0.0
	for p, name := range phases {
		pt := whole
		pt.Phase = name
		pt.KillsPer10m, pt.DeathsPer10m = 0, 0
		if seconds[p] > 0 {
			pt.KillsPer10m = stats.Round2(killCount[p] * 600 / seconds[p])
			pt.DeathsPer10m = stats.Round2(deathCount[p] * 600 / seconds[p])
			if net := pt.KillsPer10m - pt.DeathsPer10m; best < 0 || net > bestNet {
				best, bestNet = p, net
			}
		}
		out.Phases = append(out.Phases, pt)
	}
	if best < 0 {
		best = 1
	}
	bp := out.Phases[best]
	out.BestPhase = bp.Phase
	out.Highlights = fmt.Sprintf("Strongest in the %s game: %.2f kills and %.2f deaths per 10 minutes across %d timelines.",
		bp.Phase, bp.KillsPer10m, bp.DeathsPer10m, timelines)
	return out
}
