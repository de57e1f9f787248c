package indicator

import (
	"github.com/raykavin/depthrun/pkg/core"
)

// MidPrices returns the mid price of the last n snapshots of the book, oldest first
func MidPrices(book *core.MarketBook, n int) core.Series[float64] {
	return lastValues(book, n, core.MarketDepth.MidPrice)
}

// Balances returns the depth balance of the last n snapshots of the book, oldest first
func Balances(book *core.MarketBook, n int) core.Series[float64] {
	return lastValues(book, n, core.MarketDepth.Balance)
}

func lastValues(book *core.MarketBook, n int, value func(core.MarketDepth) float64) core.Series[float64] {
	history := book.All()
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	values := make(core.Series[float64], len(history))
	for i, depth := range history {
		values[i] = value(depth)
	}
	return values
}

// IncrementalEMA is an exponential moving average updated one value at a time.
// It is seeded with the simple average of the first period values.
type IncrementalEMA struct {
	period int
	alpha  float64
	value  float64
	count  int
	sum    float64
}

// NewIncrementalEMA creates an EMA over period values
func NewIncrementalEMA(period int) *IncrementalEMA {
	if period < 1 {
		period = 1
	}
	return &IncrementalEMA{period: period, alpha: 2 / float64(period+1)}
}

// Add feeds the next value and returns the current average
func (e *IncrementalEMA) Add(v float64) float64 {
	e.count++
	if e.count <= e.period {
		e.sum += v
		e.value = e.sum / float64(e.count)
		return e.value
	}
	e.value += e.alpha * (v - e.value)
	return e.value
}

// Value returns the current average
func (e *IncrementalEMA) Value() float64 { return e.value }

// Ready reports whether period values have been seen
func (e *IncrementalEMA) Ready() bool { return e.count >= e.period }

// Reset forgets every value
func (e *IncrementalEMA) Reset() {
	e.value, e.sum, e.count = 0, 0, 0
}

// DepthBalance tracks the EMA of the depth balance of the latest snapshot of a book
type DepthBalance struct {
	book *core.MarketBook
	ema  *IncrementalEMA
}

// NewDepthBalance creates a depth balance indicator over book
func NewDepthBalance(book *core.MarketBook, period int) *DepthBalance {
	return &DepthBalance{book: book, ema: NewIncrementalEMA(period)}
}

// Update consumes the latest snapshot of the book
func (d *DepthBalance) Update() {
	if depth, ok := d.book.Last(); ok {
		d.ema.Add(depth.Balance())
	}
}

// Value returns the smoothed balance
func (d *DepthBalance) Value() float64 { return d.ema.Value() }

// Ready reports whether the average is fully seeded
func (d *DepthBalance) Ready() bool { return d.ema.Ready() }
