package core

import (
	"strconv"
)

// BookLevel is a single price level of the order book
type BookLevel struct {
	Price float64
	Size  float64
}

// MarketDepth is a time-stamped snapshot of the prevailing bid and ask levels.
// Bids are ordered best (highest) first and asks best (lowest) first.
type MarketDepth struct {
	Time int64 // unix millis
	Bids []BookLevel
	Asks []BookLevel
}

// BestBid returns the best bid price or zero when there are no bids
func (m MarketDepth) BestBid() float64 {
	if len(m.Bids) == 0 {
		return 0
	}
	return m.Bids[0].Price
}

// BestAsk returns the best ask price or zero when there are no asks
func (m MarketDepth) BestAsk() float64 {
	if len(m.Asks) == 0 {
		return 0
	}
	return m.Asks[0].Price
}

// MidPrice returns the midpoint between the best bid and ask.
// When only one side is quoted it returns that side.
func (m MarketDepth) MidPrice() float64 {
	bid, ask := m.BestBid(), m.BestAsk()
	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2
	case bid > 0:
		return bid
	default:
		return ask
	}
}

// Spread returns best ask minus best bid, zero when a side is missing
func (m MarketDepth) Spread() float64 {
	if len(m.Bids) == 0 || len(m.Asks) == 0 {
		return 0
	}
	return m.BestAsk() - m.BestBid()
}

// BidSize returns the cumulative size over all bid levels
func (m MarketDepth) BidSize() float64 {
	return sumSize(m.Bids)
}

// AskSize returns the cumulative size over all ask levels
func (m MarketDepth) AskSize() float64 {
	return sumSize(m.Asks)
}

// Balance returns the depth balance in [-100, 100]:
// 100 * (bidSize - askSize) / (bidSize + askSize)
func (m MarketDepth) Balance() float64 {
	bids, asks := m.BidSize(), m.AskSize()
	total := bids + asks
	if total == 0 {
		return 0
	}
	return 100 * (bids - asks) / total
}

// IsEmpty checks if the snapshot carries no levels at all
func (m MarketDepth) IsEmpty() bool { return len(m.Bids) == 0 && len(m.Asks) == 0 }

// ToSlice converts the snapshot to a CSV record with the given number of levels per side
func (m MarketDepth) ToSlice(levels, precision int) []string {
	record := make([]string, 0, 1+4*levels)
	record = append(record, strconv.FormatInt(m.Time, 10))
	record = appendLevels(record, m.Bids, levels, precision)
	record = appendLevels(record, m.Asks, levels, precision)
	return record
}

func appendLevels(record []string, side []BookLevel, levels, precision int) []string {
	for i := 0; i < levels; i++ {
		var level BookLevel
		if i < len(side) {
			level = side[i]
		}
		record = append(record,
			strconv.FormatFloat(level.Price, 'f', precision, 64),
			strconv.FormatFloat(level.Size, 'f', precision, 64),
		)
	}
	return record
}

func sumSize(levels []BookLevel) float64 {
	var total float64
	for _, level := range levels {
		total += level.Size
	}
	return total
}
