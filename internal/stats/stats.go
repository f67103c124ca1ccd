// Package stats wraps montanaflynn/stats with the degenerate-input fallbacks
// the scoring code relies on: every helper returns 0 instead of an error for
// empty or too-short input.
package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(xs []float64) float64 {
	m, err := mstats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}

// PopStdDev returns the population standard deviation, or 0 for no values.
func PopStdDev(xs []float64) float64 {
	sd, err := mstats.StandardDeviationPopulation(xs)
	if err != nil {
		return 0
	}
	return sd
}

// SampleStdDev returns the sample (n-1) standard deviation, or 0 for fewer than two values.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd, err := mstats.StandardDeviationSample(xs)
	if err != nil {
		return 0
	}
	return sd
}

// CV is the coefficient of variation: population stdev over |mean|.
// A zero mean yields 0.
func CV(xs []float64) float64 {
	m := Mean(xs)
	if m == 0 {
		return 0
	}
	return PopStdDev(xs) / math.Abs(m)
}

// NormalizedEntropy returns the Shannon entropy of the count distribution
// divided by log(k), where k is the number of non-zero categories. A single
// category (or none) yields 0.
func NormalizedEntropy(counts []int) float64 {
	total := 0
	k := 0
	for _, c := range counts {
		if c > 0 {
			total += c
			k++
		}
	}
	if k <= 1 {
		return 0
	}
	probs := make([]float64, 0, k)
	for _, c := range counts {
		if c > 0 {
			probs = append(probs, float64(c)/float64(total))
		}
	}
	h, err := mstats.Entropy(probs)
	if err != nil {
		return 0
	}
	return h / math.Log(float64(k))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Score rounds v half away from zero and clamps it to [0, 100].
func Score(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(Clamp(math.Round(v), 0, 100))
}

// Percent returns part/whole as a rounded integer percentage, or 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
