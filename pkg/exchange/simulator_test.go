package exchange

import (
	"errors"
	"testing"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fillRecorder struct {
	fills []core.Fill
}

func (r *fillRecorder) Update(fill core.Fill) error {
	r.fills = append(r.fills, fill)
	return nil
}

func TestSimulator_FillPrices(t *testing.T) {
	book := core.NewMarketBook()
	book.Add(core.MarketDepth{
		Time: 10,
		Bids: []core.BookLevel{{Price: 99, Size: 1}},
		Asks: []core.BookLevel{{Price: 101, Size: 1}},
	})

	sim := NewSimulator(book)
	recorder := &fillRecorder{}

	require.NoError(t, sim.PlaceMarketOrder(core.Order{Side: core.SideTypeBuy, Quantity: 2}, recorder))
	require.NoError(t, sim.PlaceMarketOrder(core.Order{Side: core.SideTypeSell, Quantity: 1}, recorder))

	require.Len(t, recorder.fills, 2)
	assert.Equal(t, 101.0, recorder.fills[0].AvgFillPrice)
	assert.Equal(t, 99.0, recorder.fills[1].AvgFillPrice)
	assert.Equal(t, int64(10), recorder.fills[0].Time)
	assert.Equal(t, int64(1), recorder.fills[0].OrderID)
	assert.Equal(t, int64(2), recorder.fills[1].OrderID)
	assert.Equal(t, int64(2), sim.Orders())
	assert.Equal(t, 301.0, sim.Volume())
}

func TestSimulator_OneSidedBookUsesMid(t *testing.T) {
	book := core.NewMarketBook()
	book.Add(core.MarketDepth{Time: 1, Bids: []core.BookLevel{{Price: 50, Size: 1}}})

	sim := NewSimulator(book, WithSlippage(0.5))
	recorder := &fillRecorder{}

	require.NoError(t, sim.PlaceMarketOrder(core.Order{Side: core.SideTypeBuy, Quantity: 1}, recorder))
	assert.Equal(t, 50.5, recorder.fills[0].AvgFillPrice)
}

func TestSimulator_Rejects(t *testing.T) {
	book := core.NewMarketBook()
	sim := NewSimulator(book)
	recorder := &fillRecorder{}

	err := sim.PlaceMarketOrder(core.Order{Side: core.SideTypeBuy, Quantity: 1}, recorder)
	assert.True(t, errors.Is(err, core.ErrStrategy))
	assert.True(t, errors.Is(err, ErrNoMarketDepth))

	book.Add(core.MarketDepth{Time: 1, Asks: []core.BookLevel{{Price: 1, Size: 1}}})
	err = sim.PlaceMarketOrder(core.Order{Side: core.SideTypeBuy}, recorder)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
	assert.Empty(t, recorder.fills)
}

func TestMemoryFeed(t *testing.T) {
	factory := MemoryFeedFactory(
		core.MarketDepth{Time: 1},
		core.MarketDepth{Time: 2},
	)

	a, err := factory()
	require.NoError(t, err)
	b, err := factory()
	require.NoError(t, err)

	count, err := a.TotalEventCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.Len(t, readAll(t, a), 2)
	assert.Len(t, readAll(t, b), 2)

	require.NoError(t, a.Reset())
	assert.Len(t, readAll(t, a), 2)

	bad := NewMemoryFeed(core.MarketDepth{Time: 5}, core.MarketDepth{Time: 4})
	_, _, err = bad.Next()
	require.NoError(t, err)
	_, _, err = bad.Next()
	assert.True(t, errors.Is(err, core.ErrDataSource))
}
