package strategy

import (
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/order"
	"github.com/raykavin/depthrun/pkg/schedule"
)

// Strategy is a deterministic function of the market book and its parameters.
// Given the same parameters and events it must produce the same sequence of
// Position values.
type Strategy interface {
	Name() string
	Contract() core.Contract
	Schedule() *schedule.TradingSchedule
	Params() core.Params

	// SetTime is called with the time of every event before anything else
	SetTime(t int64)
	Time() int64

	// UpdateIndicators is executed for each event, before OnBookChange.
	UpdateIndicators()
	// HasValidIndicators reports whether the indicators are warmed up.
	HasValidIndicators() bool
	// OnBookChange runs the trading logic, it is only called with valid indicators.
	OnBookChange()

	// Position returns the desired signed position
	Position() int
	// ClosePosition sets the desired position to zero
	ClosePosition()

	PositionManager() *order.Manager
	Performance() *order.Performance
}

// Factory builds a strategy over a batch scoped market book
type Factory func(params core.Params, book *core.MarketBook) (Strategy, error)
