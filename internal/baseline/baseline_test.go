package baseline

import (
	"strings"
	"testing"

	"github.com/legendscope/legendscope/internal/model"
)

func TestDefaultTablesAreConsistent(t *testing.T) {
	if err := Validate(Default, Axes); err != nil {
		t.Fatalf("Validate(Default, Axes): %v", err)
	}
	for name := range Default {
		if _, ok := Presentations[name]; !ok {
			t.Errorf("metric %s has no presentation", name)
		}
	}
	if len(Axes) != 6 {
		t.Errorf("len(Axes) = %d, want 6", len(Axes))
	}
}

func TestValidateRejectsBrokenDefinitions(t *testing.T) {
	empty := []Axis{{Key: "empty"}}
	if err := Validate(Default, empty); err == nil {
		t.Error("expected error for axis without metrics")
	}

	unknown := []Axis{{Key: "odd", Metrics: []WeightedMetric{{"madeUpMetric", 1}}}}
	err := Validate(Default, unknown)
	if err == nil || !strings.Contains(err.Error(), "madeUpMetric") {
		t.Errorf("expected unknown-metric error, got %v", err)
	}

	negative := Table{model.MetricDPM: {Mean: 1, Std: -1}}
	if err := Validate(negative, nil); err == nil {
		t.Error("expected error for negative std")
	}
}

func TestPresentationFallback(t *testing.T) {
	if p := PresentationFor(model.MetricDPM); p.Label != "Damage per minute (DPM)" || p.Unit != UnitPerMin {
		t.Errorf("dpm presentation = %+v", p)
	}
	if p := PresentationFor("custom"); p.Label != "custom" {
		t.Errorf("fallback label = %q, want custom", p.Label)
	}
}
