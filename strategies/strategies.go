// Package strategies contains the bundled market depth strategies.
package strategies

import (
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/schedule"
	"github.com/raykavin/depthrun/pkg/strategy"
)

// Options are shared by every bundled strategy
type Options struct {
	Contract core.Contract
	Schedule *schedule.TradingSchedule
}

// DefaultContract is the E-mini S&P 500 future
func DefaultContract() core.Contract {
	return core.Contract{
		Symbol:       "ES",
		SecurityType: "FUT",
		Exchange:     "GLOBEX",
		Currency:     "USD",
		Multiplier:   50,
		Commission:   2.05,
	}
}

// Register adds the bundled strategies to registry
func Register(registry *strategy.Registry, options Options) error {
	if options.Contract.Symbol == "" {
		options.Contract = DefaultContract()
	}
	if options.Schedule == nil {
		options.Schedule = schedule.All()
	}

	for _, definition := range []strategy.Definition{
		balanceEMADefinition(options),
		midMomentumDefinition(options),
	} {
		if err := registry.Register(definition); err != nil {
			return err
		}
	}
	return nil
}
