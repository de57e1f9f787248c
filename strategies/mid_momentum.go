package strategies

import (
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/indicator"
	"github.com/raykavin/depthrun/pkg/strategy"
)

const MidMomentumName = "MidMomentum"

// MidMomentum follows the spread between a fast and a slow SMA of the mid price
type MidMomentum struct {
	*strategy.Base

	fast, slow int
	threshold  float64

	momentum float64
	valid    bool
}

func midMomentumDefinition(options Options) strategy.Definition {
	return strategy.Definition{
		Name:        MidMomentumName,
		Description: "Fast versus slow SMA of the mid price over the book history",
		Params: core.Params{
			core.NewParameter("fast", 5, 20, 5),
			core.NewParameter("slow", 30, 120, 30),
			core.NewParameter("threshold", 0, 1, 0.25),
		},
		Factory: func(params core.Params, book *core.MarketBook) (strategy.Strategy, error) {
			return NewMidMomentum(params, book, options)
		},
	}
}

// NewMidMomentum builds the strategy, fast must be shorter than slow
func NewMidMomentum(params core.Params, book *core.MarketBook, options Options) (*MidMomentum, error) {
	fast, slow := params.Int("fast"), params.Int("slow")
	if fast < 2 || slow <= fast {
		return nil, core.StrategyError("%s: need 2 <= fast < slow, got fast=%d slow=%d", MidMomentumName, fast, slow)
	}

	return &MidMomentum{
		Base:      strategy.NewBase(MidMomentumName, params, book, options.Contract, options.Schedule),
		fast:      fast,
		slow:      slow,
		threshold: params.Value("threshold"),
	}, nil
}

func (s *MidMomentum) UpdateIndicators() {
	mids := indicator.MidPrices(s.Book(), s.slow)
	if len(mids) < s.slow {
		s.valid = false
		return
	}

	fast := core.Series[float64](indicator.SMA(mids, s.fast))
	slow := core.Series[float64](indicator.SMA(mids, s.slow))
	s.momentum = fast.Last(0) - slow.Last(0)
	s.valid = true
}

func (s *MidMomentum) HasValidIndicators() bool {
	return s.valid
}

// Momentum returns the latest fast minus slow average
func (s *MidMomentum) Momentum() float64 {
	return s.momentum
}

func (s *MidMomentum) OnBookChange() {
	switch {
	case s.momentum > s.threshold:
		s.SetPosition(1)
	case s.momentum < -s.threshold:
		s.SetPosition(-1)
	}
}
