package aggregator

import (
	"testing"

	"github.com/legendscope/legendscope/internal/model"
)

func TestTempoReplicatesWithoutTimelines(t *testing.T) {
	matches := []model.DerivedMatch{
		makeMatch("Ahri", model.RoleMid, true, 6, 3, 6),
		makeMatch("Ahri", model.RoleMid, false, 3, 3, 6),
	}
	tempo := BuildTempo(matches)
	if !tempo.Replicated {
		t.Error("expected replicated tempo")
	}
	if tempo.BestPhase != PhaseMid {
		t.Errorf("best phase = %q, want Mid", tempo.BestPhase)
	}
	if len(tempo.Phases) != 3 {
		t.Fatalf("phases = %d, want 3", len(tempo.Phases))
	}
	for _, p := range tempo.Phases {
		if p.KillsPer10m != 1.5 || p.DeathsPer10m != 1 {
			t.Errorf("%s: kills %.2f deaths %.2f, want 1.5/1", p.Phase, p.KillsPer10m, p.DeathsPer10m)
		}
	}
}

func TestTempoBucketsTimelineEvents(t *testing.T) {
	m := makeMatch("Ahri", model.RoleMid, true, 3, 2, 0)
	m.DurationSec = 1800 // 14m early, 11m mid, 5m late
	m.Events = []model.TimelineEvent{
		{Type: model.EventDeath, TimestampMs: 3 * 60 * 1000},
		{Type: model.EventKill, TimestampMs: 16 * 60 * 1000},
		{Type: model.EventKill, TimestampMs: 20 * 60 * 1000},
		{Type: model.EventDeath, TimestampMs: 27 * 60 * 1000},
		{Type: model.EventKill, TimestampMs: 28 * 60 * 1000},
		{Type: model.EventAssist, TimestampMs: 29 * 60 * 1000},
	}
	tempo := BuildTempo([]model.DerivedMatch{m})
	if tempo.Replicated {
		t.Fatal("timeline tempo should not be replicated")
	}
	early, mid, late := tempo.Phases[0], tempo.Phases[1], tempo.Phases[2]
	if early.KillsPer10m != 0 || early.DeathsPer10m != 0.71 {
		t.Errorf("early = %+v", early)
	}
	if mid.KillsPer10m != 1.82 || mid.DeathsPer10m != 0 {
		t.Errorf("mid = %+v", mid)
	}
	if late.KillsPer10m != 2 || late.DeathsPer10m != 2 {
		t.Errorf("late = %+v", late)
	}
	if tempo.BestPhase != PhaseMid {
		t.Errorf("best phase = %q, want Mid", tempo.BestPhase)
	}
}

func TestPhaseSeconds(t *testing.T) {
	got := phaseSeconds(1000)
	if got[0] != 840 || got[1] != 160 || got[2] != 0 {
		t.Errorf("phaseSeconds(1000) = %v", got)
	}
	if got := phaseSeconds(-5); got != [3]float64{} {
		t.Errorf("phaseSeconds(-5) = %v", got)
	}
}
