package exchange

import (
	"errors"

	"github.com/raykavin/depthrun/pkg/core"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrNoMarketDepth   = errors.New("no market depth")
)

// Simulator is a broker that fills market orders immediately against the
// latest snapshot of a market book. Buys pay the best ask and sells hit the
// best bid, the mid price is used when the needed side is missing.
type Simulator struct {
	book     *core.MarketBook
	slippage float64
	nextID   int64
	orders   int64
	volume   float64
}

// SimulatorOption configures a Simulator
type SimulatorOption func(*Simulator)

// WithSlippage moves every fill price against the order by amount
func WithSlippage(amount float64) SimulatorOption {
	return func(s *Simulator) {
		s.slippage = amount
	}
}

// NewSimulator creates a broker filling against book
func NewSimulator(book *core.MarketBook, options ...SimulatorOption) *Simulator {
	s := &Simulator{book: book}
	for _, option := range options {
		option(s)
	}
	return s
}

// PlaceMarketOrder fills the order and reports it to handler synchronously
func (s *Simulator) PlaceMarketOrder(order core.Order, handler core.FillHandler) error {
	if order.Quantity <= 0 {
		return core.StrategyError("order %s: %w", order, ErrInvalidQuantity)
	}

	depth, ok := s.book.Last()
	if !ok || depth.IsEmpty() {
		return core.StrategyError("order %s: %w", order, ErrNoMarketDepth)
	}

	price := s.fillPrice(order.Side, depth)

	s.nextID++
	if order.ID == 0 {
		order.ID = s.nextID
	}
	s.orders++
	s.volume += price * float64(order.Quantity)

	return handler.Update(core.Fill{
		OrderID:      order.ID,
		Side:         order.Side,
		Quantity:     order.Quantity,
		AvgFillPrice: price,
		Time:         depth.Time,
	})
}

func (s *Simulator) fillPrice(side core.SideType, depth core.MarketDepth) float64 {
	if side == core.SideTypeBuy {
		price := depth.BestAsk()
		if price == 0 {
			price = depth.MidPrice()
		}
		return price + s.slippage
	}

	price := depth.BestBid()
	if price == 0 {
		price = depth.MidPrice()
	}
	return price - s.slippage
}

// Orders returns the number of filled orders
func (s *Simulator) Orders() int64 { return s.orders }

// Volume returns the traded notional, price times quantity
func (s *Simulator) Volume() float64 { return s.volume }

// Reset clears the counters, the book is left untouched
func (s *Simulator) Reset() {
	s.nextID = 0
	s.orders = 0
	s.volume = 0
}
