package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfitFactorOf(t *testing.T) {
	assert.Equal(t, 2.0, ProfitFactorOf(20, -10))
	assert.Equal(t, float64(NoLossProfitFactor), ProfitFactorOf(5, 0))
	assert.Zero(t, ProfitFactorOf(0, 0))
	assert.Equal(t, 1.5, ProfitFactor([]float64{10, -4, 5, -6}))
}

func TestKelly(t *testing.T) {
	// all wins is exactly zero
	assert.Zero(t, Kelly(3, 0, 30, 0))
	assert.Zero(t, Kelly(0, 2, 0, -5))

	// pW = 0.5, wlr = 2 => 100 * (0.5 - 0.5/2) = 25
	assert.InDelta(t, 25.0, Kelly(2, 2, 40, -20), 1e-9)

	// negative edge clamps to zero
	assert.Zero(t, Kelly(1, 3, 1, -30))
}

func TestSQN(t *testing.T) {
	assert.Zero(t, SQN(nil))
	assert.Zero(t, SQN([]float64{1, 1, 1}))
	assert.Greater(t, SQN([]float64{1, 2, 3, -1}), 0.0)
}

func TestPerformanceIndex_Monotonic(t *testing.T) {
	base := PerformanceIndex(100, 20, 2, 10)

	assert.Greater(t, PerformanceIndex(110, 20, 2, 10), base)
	assert.Less(t, PerformanceIndex(100, 30, 2, 10), base)
	assert.Greater(t, PerformanceIndex(100, 20, 3, 10), base)
	assert.Greater(t, PerformanceIndex(100, 20, 2, 11), base)

	// profit factor saturates at the no loss sentinel
	assert.Equal(t, PerformanceIndex(0, 0, 10, 0), PerformanceIndex(0, 0, 50, 0))
	assert.InDelta(t, 100.0, PerformanceIndex(0, 0, 10, 0), 1e-9)
}

func TestPayoffAndPercent(t *testing.T) {
	assert.InDelta(t, 2.0, Payoff([]float64{10, 10, -5}), 1e-9)
	assert.Equal(t, float64(NoLossProfitFactor), Payoff([]float64{1}))
	assert.Zero(t, Payoff([]float64{-1}))
	assert.Equal(t, 50.0, PercentProfitable(2, 4))
	assert.Zero(t, PercentProfitable(0, 0))
}

func TestBootstrap_Deterministic(t *testing.T) {
	values := []float64{1, -2, 3, 4, -1, 2}
	a := Bootstrap(values, Mean, 200, 0.95, 7)
	b := Bootstrap(values, Mean, 200, 0.95, 7)

	assert.Equal(t, a, b)
	assert.LessOrEqual(t, a.Lower, a.Mean)
	assert.GreaterOrEqual(t, a.Upper, a.Mean)
	assert.Equal(t, Interval{}, Bootstrap(nil, Mean, 10, 0.9, 1))
}
