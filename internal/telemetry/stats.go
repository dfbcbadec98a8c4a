// Package telemetry пишет статистику симуляции в CSV и считает сводки.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TurnStat - срез состояния мира после хода.
type TurnStat struct {
	Turn        int64 `csv:"turn" json:"turn"`
	Depth       int   `csv:"depth" json:"depth"`
	Live        int   `csv:"live" json:"live"`
	Activations int   `csv:"activations" json:"activations"`
	PlayerHP    int   `csv:"player_hp" json:"player_hp"`
	Sources     int   `csv:"heat_sources" json:"heat_sources"`
}

// RateSummary - сколько действий приходится на одну сущность.
type RateSummary struct {
	Actors int     `json:"actors"`
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize считает сводку по числу активаций на слот.
func Summarize(counts map[int]int) RateSummary {
	if len(counts) == 0 {
		return RateSummary{}
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	xs := make([]float64, len(keys))
	total := 0
	for i, k := range keys {
		xs[i] = float64(counts[k])
		total += counts[k]
	}

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		std = 0
	}
	return RateSummary{
		Actors: len(xs),
		Total:  total,
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}
