// Package aggregate folds per-sample extractions into run-level estimates.
package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/paydar/paydar/internal/model"
)

// Median returns the arithmetic median of values. An even count yields the
// mean of the two middle values.
func Median(values []int) (float64, error) {
	if len(values) == 0 {
		return 0, model.ErrNoValidSamples
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		return xs[mid], nil
	}
	return (xs[mid-1] + xs[mid]) / 2, nil
}

// MeanByRank averages each percentile rank over the samples that carry it.
// The result covers the union of all ranks seen, so a rank missing from some
// samples is averaged over the rest.
func MeanByRank(samples []model.PercentileSample) map[int]float64 {
	byRank := map[int][]float64{}
	for _, s := range samples {
		for rank, v := range s {
			byRank[rank] = append(byRank[rank], float64(v))
		}
	}
	out := make(map[int]float64, len(byRank))
	for rank, vals := range byRank {
		out[rank] = stat.Mean(vals, nil)
	}
	return out
}
