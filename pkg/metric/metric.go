package metric

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// NoLossProfitFactor is the profit factor reported when there are gains but no losses
const NoLossProfitFactor = 10

// Mean calculates the arithmetic mean of the values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Payoff calculates the ratio of average wins to average losses.
func Payoff(values []float64) float64 {
	wins, losses := partitionTradeResults(values)
	if len(wins) == 0 {
		return 0
	}
	if len(losses) == 0 {
		return NoLossProfitFactor
	}

	avgLoss := stat.Mean(losses, nil)
	if avgLoss == 0 {
		return NoLossProfitFactor
	}
	return math.Abs(stat.Mean(wins, nil) / avgLoss)
}

// ProfitFactor calculates the ratio of total profits to total losses over trade results.
func ProfitFactor(values []float64) float64 {
	var grossProfit, grossLoss float64
	for _, value := range values {
		if value >= 0 {
			grossProfit += value
		} else {
			grossLoss += value
		}
	}
	return ProfitFactorOf(grossProfit, grossLoss)
}

// ProfitFactorOf returns |grossProfit / grossLoss|. Without losses it is
// NoLossProfitFactor when there is any profit and zero otherwise.
func ProfitFactorOf(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return NoLossProfitFactor
		}
		return 0
	}
	return math.Abs(grossProfit / grossLoss)
}

// Kelly returns the Kelly criterion as a percentage clamped to [0, 100].
// It is zero unless there are both profitable and unprofitable trades.
func Kelly(profitable, unprofitable int, grossProfit, grossLoss float64) float64 {
	if profitable == 0 || unprofitable == 0 {
		return 0
	}

	aveProfit := grossProfit / float64(profitable)
	aveLoss := math.Abs(grossLoss) / float64(unprofitable)
	if aveProfit == 0 {
		return 0
	}

	winLossRatio := aveProfit / aveLoss
	probabilityOfWin := float64(profitable) / float64(profitable+unprofitable)
	kelly := 100 * (probabilityOfWin - (1-probabilityOfWin)/winLossRatio)

	return math.Max(0, math.Min(100, kelly))
}

// SQN (System Quality Number) = sqrt(n) * mean / stddev of trade results
func SQN(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean, stdDev := stat.MeanStdDev(values, nil)
	if stdDev == 0 {
		return 0
	}
	return math.Sqrt(float64(len(values))) * mean / stdDev
}

// PerformanceIndex combines the ranking metrics into a single score
//
//	netProfit - maxDrawdown + 100*ln(1+min(pf, 10))/ln(11) + kelly
//
// The score increases with net profit, profit factor and kelly and decreases with drawdown.
func PerformanceIndex(netProfit, maxDrawdown, profitFactor, kelly float64) float64 {
	pf := math.Max(0, math.Min(profitFactor, NoLossProfitFactor))
	return netProfit - maxDrawdown + 100*math.Log1p(pf)/math.Log(1+NoLossProfitFactor) + kelly
}

// PercentProfitable returns the share of profitable trades in percent
func PercentProfitable(profitable, trades int) float64 {
	if trades == 0 {
		return 0
	}
	return 100 * float64(profitable) / float64(trades)
}

// partitionTradeResults separates trading results into wins and absolute losses.
func partitionTradeResults(values []float64) (wins []float64, losses []float64) {
	for _, value := range values {
		if value >= 0 {
			wins = append(wins, value)
		} else {
			losses = append(losses, math.Abs(value))
		}
	}
	return wins, losses
}
