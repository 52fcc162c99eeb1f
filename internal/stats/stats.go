// Package stats summarizes the distribution behind an aggregate.
package stats

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/mailtop/internal/types"
)

// Summary describes a distribution. Samples is the total weight.
type Summary struct {
	Samples float64
	Mean    float64
	StdDev  float64
	Median  float64
	P95     float64
	Max     float64
}

type sample struct {
	value  float64
	weight float64
}

// Weighted treats each entry label as a numeric value observed Metric times, as in a delay
// counter. Labels that are not numbers are ignored.
func Weighted(entries []types.Entry) Summary {
	samples := make([]sample, 0, len(entries))

	for _, entry := range entries {
		value, err := strconv.ParseFloat(entry.Label, 64)
		if err != nil || entry.Metric <= 0 {
			continue
		}

		samples = append(samples, sample{value: value, weight: float64(entry.Metric)})
	}

	return summarize(samples)
}

// Metrics treats each entry metric as one observation, as in a size-per-sender aggregate.
func Metrics(entries []types.Entry) Summary {
	samples := make([]sample, 0, len(entries))

	for _, entry := range entries {
		samples = append(samples, sample{value: float64(entry.Metric), weight: 1})
	}

	return summarize(samples)
}

func summarize(samples []sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	// Quantile requires sorted values.
	slices.SortFunc(samples, func(a, b sample) int {
		return cmp.Compare(a.value, b.value)
	})

	values := make([]float64, len(samples))
	weights := make([]float64, len(samples))

	for i, s := range samples {
		values[i] = s.value
		weights[i] = s.weight
	}

	summary := Summary{
		Samples: floats.Sum(weights),
		Median:  stat.Quantile(0.5, stat.Empirical, values, weights),
		P95:     stat.Quantile(0.95, stat.Empirical, values, weights),
		Max:     floats.Max(values),
	}

	summary.Mean, summary.StdDev = stat.MeanStdDev(values, weights)

	// The sample deviation of a single observation is undefined.
	if summary.Samples < 2 || math.IsNaN(summary.StdDev) {
		summary.StdDev = 0
	}

	return summary
}
