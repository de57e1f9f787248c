package strategy

import (
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/order"
	"github.com/raykavin/depthrun/pkg/schedule"
)

// Base implements the plumbing shared by all strategies, concrete
// strategies embed it and add the indicator and trading logic.
type Base struct {
	name     string
	contract core.Contract
	schedule *schedule.TradingSchedule
	params   core.Params
	book     *core.MarketBook

	time     int64
	position int

	manager     *order.Manager
	performance *order.Performance
}

// NewBase creates the shared state of a strategy. A nil schedule trades at any time.
func NewBase(name string, params core.Params, book *core.MarketBook, contract core.Contract, sched *schedule.TradingSchedule) *Base {
	if sched == nil {
		sched = schedule.All()
	}

	b := &Base{
		name:     name,
		contract: contract,
		schedule: sched,
		params:   params,
		book:     book,
	}
	b.manager = order.NewManager(b, contract)
	b.performance = order.NewPerformance(b.manager)
	return b
}

func (b *Base) Name() string                        { return b.name }
func (b *Base) Contract() core.Contract             { return b.contract }
func (b *Base) Schedule() *schedule.TradingSchedule { return b.schedule }
func (b *Base) Params() core.Params                 { return b.params }
func (b *Base) Book() *core.MarketBook              { return b.book }
func (b *Base) SetTime(t int64)                     { b.time = t }
func (b *Base) Time() int64                         { return b.time }
func (b *Base) Position() int                       { return b.position }
func (b *Base) ClosePosition()                      { b.position = 0 }
func (b *Base) PositionManager() *order.Manager     { return b.manager }
func (b *Base) Performance() *order.Performance     { return b.performance }

// SetPosition sets the desired signed position
func (b *Base) SetPosition(position int) {
	b.position = position
}
