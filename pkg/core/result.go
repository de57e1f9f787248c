package core

// Result is the outcome of evaluating one parameter vector. It is immutable
// once recorded.
type Result struct {
	Params            Params
	NetProfit         float64
	MaxDrawdown       float64
	Trades            int
	ProfitFactor      float64
	KellyCriterion    float64
	PerformanceIndex  float64
	PercentProfitable float64
	AverageProfit     float64
}

// GetParams returns a copy of the evaluated parameters
func (r Result) GetParams() Params { return r.Params.Clone() }
