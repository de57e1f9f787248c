package metric

import (
	"math/rand"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Interval is a bootstrap estimate of a trade statistic
type Interval struct {
	Lower, Upper float64
	Mean, StdDev float64
}

// Measure reduces a trade result sample to one statistic
type Measure func([]float64) float64

// Bootstrap resamples results with replacement rounds times, applies measure to
// every resample and returns the central confidence interval of the outcomes.
// The same seed always yields the same interval.
func Bootstrap(results []float64, measure Measure, rounds int, confidence float64, seed int64) Interval {
	if len(results) == 0 || rounds < 1 {
		return Interval{}
	}

	rng := rand.New(rand.NewSource(seed))
	resample := make([]float64, len(results))
	outcomes := lo.Times(rounds, func(int) float64 {
		for i := range resample {
			resample[i] = lo.SampleBy(results, rng.Intn)
		}
		return measure(resample)
	})
	slices.Sort(outcomes)

	tail := (1 - confidence) / 2
	mean, stdDev := stat.MeanStdDev(outcomes, nil)
	return Interval{
		Lower:  stat.Quantile(tail, stat.LinInterp, outcomes, nil),
		Upper:  stat.Quantile(1-tail, stat.LinInterp, outcomes, nil),
		Mean:   mean,
		StdDev: stdDev,
	}
}
