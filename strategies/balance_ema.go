package strategies

import (
	"math"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/indicator"
	"github.com/raykavin/depthrun/pkg/strategy"
)

const BalanceEMAName = "BalanceEMA"

// BalanceEMA goes with the smoothed depth balance. It enters long (short) when
// the EMA of the balance rises above entry (falls below -entry) and goes flat
// once the EMA is back within exit of zero.
type BalanceEMA struct {
	*strategy.Base

	balance *indicator.DepthBalance
	entry   float64
	exit    float64
}

func balanceEMADefinition(options Options) strategy.Definition {
	return strategy.Definition{
		Name:        BalanceEMAName,
		Description: "Trades the EMA of the depth balance against entry and exit thresholds",
		Params: core.Params{
			core.NewParameter("period", 10, 100, 10),
			core.NewParameter("entry", 10, 50, 5),
			core.NewParameter("exit", 0, 10, 5),
		},
		Factory: func(params core.Params, book *core.MarketBook) (strategy.Strategy, error) {
			return NewBalanceEMA(params, book, options)
		},
	}
}

// NewBalanceEMA builds the strategy, it needs period, entry and exit
func NewBalanceEMA(params core.Params, book *core.MarketBook, options Options) (*BalanceEMA, error) {
	period := params.Int("period")
	if period < 1 {
		return nil, core.StrategyError("%s: period must be at least 1, got %d", BalanceEMAName, period)
	}

	return &BalanceEMA{
		Base:    strategy.NewBase(BalanceEMAName, params, book, options.Contract, options.Schedule),
		balance: indicator.NewDepthBalance(book, period),
		entry:   params.Value("entry"),
		exit:    params.Value("exit"),
	}, nil
}

func (s *BalanceEMA) UpdateIndicators() {
	s.balance.Update()
}

func (s *BalanceEMA) HasValidIndicators() bool {
	return s.balance.Ready()
}

func (s *BalanceEMA) OnBookChange() {
	value := s.balance.Value()
	switch {
	case value >= s.entry:
		s.SetPosition(1)
	case value <= -s.entry:
		s.SetPosition(-1)
	case math.Abs(value) <= s.exit:
		s.SetPosition(0)
	}
}
