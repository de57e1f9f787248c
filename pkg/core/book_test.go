package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depthAt(t int64, bid, ask float64) MarketDepth {
	return MarketDepth{
		Time: t,
		Bids: []BookLevel{{Price: bid, Size: 10}},
		Asks: []BookLevel{{Price: ask, Size: 5}},
	}
}

func TestMarketBook_AddAndClear(t *testing.T) {
	book := NewMarketBook()
	_, ok := book.Last()
	require.False(t, ok)

	book.Add(depthAt(1, 99, 101))
	book.Add(depthAt(2, 100, 102))

	last, ok := book.Last()
	require.True(t, ok)
	assert.Equal(t, int64(2), last.Time)
	assert.Equal(t, 2, book.Len())

	book.Clear()
	assert.Zero(t, book.Len())
	_, ok = book.Last()
	assert.False(t, ok)
}

func TestMarketBook_HistoryLimit(t *testing.T) {
	book := NewMarketBook(WithHistoryLimit(3))
	for i := int64(1); i <= 10; i++ {
		book.Add(depthAt(i, 99, 101))
		require.LessOrEqual(t, book.Len(), 3)
	}

	all := book.All()
	require.Len(t, all, 3)
	assert.Equal(t, []int64{8, 9, 10}, []int64{all[0].Time, all[1].Time, all[2].Time})
}

func TestMarketDepth_Derived(t *testing.T) {
	depth := MarketDepth{
		Bids: []BookLevel{{Price: 100, Size: 30}, {Price: 99, Size: 10}},
		Asks: []BookLevel{{Price: 101, Size: 10}, {Price: 102, Size: 10}},
	}

	assert.Equal(t, 100.5, depth.MidPrice())
	assert.Equal(t, 1.0, depth.Spread())
	assert.Equal(t, 40.0, depth.BidSize())
	assert.Equal(t, 20.0, depth.AskSize())
	assert.InDelta(t, 33.333, depth.Balance(), 0.001)

	assert.Zero(t, MarketDepth{}.Balance())
	assert.Equal(t, 100.0, MarketDepth{Bids: depth.Bids}.MidPrice())
	assert.Equal(t, []string{"7", "100.00", "30.00", "101.00", "10.00"},
		MarketDepth{Time: 7, Bids: depth.Bids, Asks: depth.Asks}.ToSlice(1, 2))
}

func TestSeries_Push(t *testing.T) {
	var s Series[float64]
	for i := 0; i < 10; i++ {
		s = s.Push(float64(i), 4)
	}
	assert.LessOrEqual(t, s.Length(), 8)
	assert.Equal(t, 9.0, s.Last(0))
	assert.Equal(t, Series[float64]{6, 7, 8, 9}, s.LastValues(4))
}
