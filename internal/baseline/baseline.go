// Package baseline holds the static population baselines and the playstyle
// axis definitions scored against them.
package baseline

import (
	"fmt"

	"github.com/legendscope/legendscope/internal/model"
)

// Metric is the population (mean, std) of one derived metric.
type Metric struct {
	Mean float64
	Std  float64
}

// Table maps metric name to its baseline.
type Table map[string]Metric

// Default is the ranked-population baseline table.
var Default = Table{
	model.MetricKillsPer10m:             {1.2, 0.55},
	model.MetricSoloKillsPer10m:         {0.12, 0.08},
	model.MetricDPM:                     {450, 150},
	model.MetricLargestMultiKill:        {1.25, 0.6},
	model.MetricDamageTakenPer10m:       {1850, 420},
	model.MetricDeathsPer10m:            {0.65, 0.22},
	model.MetricTimeDeadPer10m:          {1.15, 0.45},
	model.MetricTakedownsPer10m:         {2.4, 0.7},
	model.MetricCSPerMin:                {6.1, 1.2},
	model.MetricTurretTakesPerGame:      {0.85, 0.55},
	model.MetricObjectivesEpicPerGame:   {0.45, 0.3},
	model.MetricObjectiveDamagePer10m:   {320, 140},
	model.MetricObjectivesStolenPerGame: {0.1, 0.2},
	model.MetricVisionPerMin:            {0.85, 0.28},
	model.MetricWardsKilledPer10m:       {0.32, 0.18},
	model.MetricDetectorsPer10m:         {0.2, 0.12},
	model.MetricAssistsPer10m:           {2.1, 0.8},
	model.MetricCCTimePer10m:            {11, 6},
	model.MetricSupportMitigationPer10m: {220, 140},
	model.MetricImmobilizePer10m:        {0.18, 0.12},
}

// Axis keys.
const (
	AxisAggression       = "aggression"
	AxisSurvivability    = "survivability"
	AxisSkirmishBias     = "skirmish_bias"
	AxisObjectiveImpact  = "objective_impact"
	AxisVisionDiscipline = "vision_discipline"
	AxisUtility          = "utility"
)

// WeightedMetric is one metric of an axis with its signed weight.
type WeightedMetric struct {
	Metric string
	Weight float64
}

// Axis is a named weighted combination of metrics.
type Axis struct {
	Key     string
	Label   string
	Metrics []WeightedMetric
}

// Axes are the six playstyle axes in declaration order. Order matters: it
// breaks ties when picking the strongest axis.
var Axes = []Axis{
	{
		Key: AxisAggression, Label: "Aggression",
		Metrics: []WeightedMetric{
			{model.MetricKillsPer10m, 1},
			{model.MetricSoloKillsPer10m, 1},
			{model.MetricDPM, 1},
			{model.MetricLargestMultiKill, 0.5},
		},
	},
	{
		Key: AxisSurvivability, Label: "Survivability",
		Metrics: []WeightedMetric{
			{model.MetricDamageTakenPer10m, 1},
			{model.MetricDeathsPer10m, -1},
			{model.MetricTimeDeadPer10m, -1},
		},
	},
	{
		Key: AxisSkirmishBias, Label: "Skirmish Bias",
		Metrics: []WeightedMetric{
			{model.MetricTakedownsPer10m, 1},
			{model.MetricCSPerMin, -1},
		},
	},
	{
		Key: AxisObjectiveImpact, Label: "Objective Impact",
		Metrics: []WeightedMetric{
			{model.MetricTurretTakesPerGame, 1},
			{model.MetricObjectivesEpicPerGame, 1},
			{model.MetricObjectiveDamagePer10m, 1},
			{model.MetricObjectivesStolenPerGame, 0.5},
		},
	},
	{
		Key: AxisVisionDiscipline, Label: "Vision Discipline",
		Metrics: []WeightedMetric{
			{model.MetricVisionPerMin, 1},
			{model.MetricWardsKilledPer10m, 1},
			{model.MetricDetectorsPer10m, 0.5},
			{model.MetricDeathsPer10m, -0.25},
		},
	},
	{
		Key: AxisUtility, Label: "Utility",
		Metrics: []WeightedMetric{
			{model.MetricAssistsPer10m, 1},
			{model.MetricCCTimePer10m, 1},
			{model.MetricSupportMitigationPer10m, 0.5},
			{model.MetricImmobilizePer10m, 0.5},
		},
	},
}

// Presentation describes how a metric is shown to players.
type Presentation struct {
	Label string
	Unit  string
}

// Units.
const (
	UnitPer10m  = "per 10m"
	UnitPerMin  = "per min"
	UnitPerGame = "per game"
)

// Presentations maps metric name to its display label and unit.
var Presentations = map[string]Presentation{
	model.MetricKillsPer10m:             {"Kill tempo", UnitPer10m},
	model.MetricSoloKillsPer10m:         {"Solo skirmishes", UnitPer10m},
	model.MetricDPM:                     {"Damage per minute (DPM)", UnitPerMin},
	model.MetricLargestMultiKill:        {"Largest multikill", UnitPerGame},
	model.MetricDamageTakenPer10m:       {"Damage soaked", UnitPer10m},
	model.MetricDeathsPer10m:            {"Deaths tempo", UnitPer10m},
	model.MetricTimeDeadPer10m:          {"Time spent dead", UnitPer10m},
	model.MetricTakedownsPer10m:         {"Takedowns", UnitPer10m},
	model.MetricCSPerMin:                {"CS cadence", UnitPerMin},
	model.MetricTurretTakesPerGame:      {"Turret takes", UnitPerGame},
	model.MetricObjectivesEpicPerGame:   {"Epic objectives", UnitPerGame},
	model.MetricObjectiveDamagePer10m:   {"Objective damage", UnitPer10m},
	model.MetricObjectivesStolenPerGame: {"Objectives stolen", UnitPerGame},
	model.MetricVisionPerMin:            {"Vision score", UnitPerMin},
	model.MetricWardsKilledPer10m:       {"Wards cleared", UnitPer10m},
	model.MetricDetectorsPer10m:         {"Detectors placed", UnitPer10m},
	model.MetricAssistsPer10m:           {"Assists", UnitPer10m},
	model.MetricCCTimePer10m:            {"CC uptime", UnitPer10m},
	model.MetricSupportMitigationPer10m: {"Shielding & mitigation", UnitPer10m},
	model.MetricImmobilizePer10m:        {"Immobilisations", UnitPer10m},
}

// PresentationFor returns the metric's presentation, falling back to the raw name.
func PresentationFor(metric string) Presentation {
	if p, ok := Presentations[metric]; ok {
		return p
	}
	return Presentation{Label: metric}
}

// Validate checks that every axis has metrics, every metric has a baseline,
// and no std is negative.
func Validate(table Table, axes []Axis) error {
	for name, m := range table {
		if m.Std < 0 {
			return fmt.Errorf("baseline %s: negative std %v", name, m.Std)
		}
	}
	for _, ax := range axes {
		if len(ax.Metrics) == 0 {
			return fmt.Errorf("axis %s: no metrics", ax.Key)
		}
		for _, wm := range ax.Metrics {
			if _, ok := table[wm.Metric]; !ok {
				return fmt.Errorf("axis %s: metric %s has no baseline", ax.Key, wm.Metric)
			}
		}
	}
	return nil
}
