package report

import (
	"fmt"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/samber/lo"
)

// MetricColumns are the result columns following the parameter names
var MetricColumns = []string{"Total P&L", "Max DD", "Trades", "Profit Factor", "Kelly", "Perf Index"}

// Columns returns the header of a report over params
func Columns(params core.Params) []string {
	return append(params.Names(), MetricColumns...)
}

// Row formats a result, every number with two decimals
func Row(result core.Result) []string {
	values := append(result.Params.Values(),
		result.NetProfit,
		result.MaxDrawdown,
		float64(result.Trades),
		result.ProfitFactor,
		result.KellyCriterion,
		result.PerformanceIndex,
	)
	return lo.Map(values, func(v float64, _ int) string {
		return fmt.Sprintf("%.2f", v)
	})
}

// Write emits a complete report of results ranked over params and
// closes the sink.
func Write(sink Sink, description []string, params core.Params, results []core.Result) (err error) {
	defer func() {
		if closeErr := sink.Close(); err == nil {
			err = closeErr
		}
	}()

	for _, line := range description {
		if err := sink.Description(line); err != nil {
			return err
		}
	}
	if err := sink.Header(Columns(params)); err != nil {
		return err
	}
	for _, result := range results {
		if err := sink.Row(Row(result)); err != nil {
			return err
		}
	}
	return nil
}
