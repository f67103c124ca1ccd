package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanAndStdDevEmpty(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := PopStdDev(nil); got != 0 {
		t.Errorf("PopStdDev(nil) = %v, want 0", got)
	}
	if got := SampleStdDev([]float64{3}); got != 0 {
		t.Errorf("SampleStdDev(single) = %v, want 0", got)
	}
}

func TestStdDevVariants(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := PopStdDev(xs); !almostEqual(got, 2) {
		t.Errorf("PopStdDev = %v, want 2", got)
	}
	want := math.Sqrt(32.0 / 7.0)
	if got := SampleStdDev(xs); !almostEqual(got, want) {
		t.Errorf("SampleStdDev = %v, want %v", got, want)
	}
}

func TestCVConstantIsZero(t *testing.T) {
	if got := CV([]float64{3.5, 3.5, 3.5, 3.5}); got != 0 {
		t.Errorf("CV(constant) = %v, want 0", got)
	}
	if got := CV([]float64{0, 0}); got != 0 {
		t.Errorf("CV(zero mean) = %v, want 0", got)
	}
}

func TestNormalizedEntropy(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   float64
	}{
		{"single champion", []int{20}, 0},
		{"no data", nil, 0},
		{"uniform two", []int{10, 10}, 1},
		{"uniform five", []int{4, 4, 4, 4, 4}, 1},
		{"zeros ignored", []int{5, 0, 5}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizedEntropy(tt.counts); !almostEqual(got, tt.want) {
				t.Errorf("NormalizedEntropy(%v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}

	skewed := NormalizedEntropy([]int{18, 1, 1})
	if skewed <= 0 || skewed >= 1 {
		t.Errorf("skewed entropy = %v, want in (0,1)", skewed)
	}
}

func TestScoreClampsAndRounds(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-12, 0},
		{49.5, 50},
		{86.6, 87},
		{140, 100},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Score(tt.in); got != tt.want {
			t.Errorf("Score(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 3); got != 33 {
		t.Errorf("Percent(1,3) = %d, want 33", got)
	}
	if got := Percent(2, 0); got != 0 {
		t.Errorf("Percent(2,0) = %d, want 0", got)
	}
}
