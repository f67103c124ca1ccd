// Package scoring turns averaged match metrics into 0-100 playstyle axis scores.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/legendscope/legendscope/internal/baseline"
	"github.com/legendscope/legendscope/internal/model"
	"github.com/legendscope/legendscope/internal/stats"
)

// Scale of the composite: 50 + normalizedZ*zScale.
const (
	zScale          = 15.0
	percentileScale = 18.0
)

// Direction values of a metric annotation.
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
	DirectionNeutral  = "neutral"
)

// Label returns the qualitative label for an axis score.
func Label(score int) string {
	switch {
	case score >= 80:
		return "Signature strength"
	case score >= 65:
		return "Key advantage"
	case score >= 50:
		return "Balanced"
	case score >= 35:
		return "Developing"
	default:
		return "Needs focus"
	}
}

// ZScore returns (value-mean)/std, or 0 when std is 0.
func ZScore(value float64, b baseline.Metric) float64 {
	if b.Std == 0 {
		return 0
	}
	return (value - b.Mean) / b.Std
}

// Percentile maps a metric value to an approximate population percentile,
// flipped for negatively weighted metrics so that higher is always better.
func Percentile(value, weight float64, b baseline.Metric) int {
	z := ZScore(value, b)
	if weight < 0 {
		z = -z
	}
	return int(stats.Clamp(50+z*percentileScale, 0, 100))
}

// FormatValue renders a metric value: damage-like metrics as integers,
// per-rate metrics with two decimals, everything else with one.
func FormatValue(metric string, value float64) string {
	key := strings.ToLower(metric)
	switch {
	case strings.Contains(key, "dpm") || strings.Contains(key, "damage"):
		return fmt.Sprintf("%.0f", value)
	case strings.Contains(key, "per"):
		return fmt.Sprintf("%.2f", value)
	default:
		return fmt.Sprintf("%.1f", value)
	}
}

func direction(weight float64) string {
	switch {
	case weight > 0:
		return DirectionPositive
	case weight < 0:
		return DirectionNegative
	default:
		return DirectionNeutral
	}
}

// ScoreAxis scores one axis against the evidence (metric name -> observed
// mean). Metrics missing from the evidence are skipped entirely. It panics
// when the axis has no metrics or references a metric without a baseline.
func ScoreAxis(ax baseline.Axis, evidence map[string]float64, table baseline.Table) model.AxisResult {
	if len(ax.Metrics) == 0 {
		panic(fmt.Sprintf("scoring: axis %q has no metrics", ax.Key))
	}

	var num, den float64
	metrics := make([]model.MetricAnnotation, 0, len(ax.Metrics))
	used := make(map[string]float64, len(ax.Metrics))
	for _, wm := range ax.Metrics {
		b, ok := table[wm.Metric]
		if !ok {
			panic(fmt.Sprintf("scoring: axis %q references metric %q with no baseline", ax.Key, wm.Metric))
		}
		value, ok := evidence[wm.Metric]
		if !ok {
			continue
		}
		num += ZScore(value, b) * wm.Weight
		den += math.Abs(wm.Weight)
		used[wm.Metric] = value

		p := baseline.PresentationFor(wm.Metric)
		metrics = append(metrics, model.MetricAnnotation{
			ID:         wm.Metric,
			Label:      p.Label,
			Unit:       p.Unit,
			Value:      stats.Round2(value),
			Display:    FormatValue(wm.Metric, value),
			Direction:  direction(wm.Weight),
			Percentile: Percentile(value, wm.Weight, b),
		})
	}

	var nz float64
	if den > 0 {
		nz = num / den
	}
	score := stats.Score(50 + nz*zScale)

	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].Percentile > metrics[j].Percentile
	})

	return model.AxisResult{
		Key:        ax.Key,
		Label:      ax.Label,
		Score:      score,
		ScoreLabel: Label(score),
		Metrics:    metrics,
		Evidence:   used,
	}
}

// Evidence averages each of the axis metrics over the matches where it was
// observed. Metrics never observed are absent from the result.
func Evidence(matches []model.DerivedMatch, ax baseline.Axis) map[string]float64 {
	ev := make(map[string]float64, len(ax.Metrics))
	for _, wm := range ax.Metrics {
		if _, done := ev[wm.Metric]; done {
			continue
		}
		var vals []float64
		for i := range matches {
			if v, ok := matches[i].Metric(wm.Metric); ok {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			ev[wm.Metric] = stats.Mean(vals)
		}
	}
	return ev
}

// BuildAxes scores every axis over the match window, in axis order.
func BuildAxes(matches []model.DerivedMatch, table baseline.Table, axes []baseline.Axis) []model.AxisResult {
	out := make([]model.AxisResult, 0, len(axes))
	for _, ax := range axes {
		out = append(out, ScoreAxis(ax, Evidence(matches, ax), table))
	}
	return out
}
