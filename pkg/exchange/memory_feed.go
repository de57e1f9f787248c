package exchange

import (
	"github.com/raykavin/depthrun/pkg/core"
)

// MemoryFeed replays a fixed slice of depth snapshots
type MemoryFeed struct {
	events   []core.MarketDepth
	position int
	prevTime int64
}

// NewMemoryFeed creates a feed over events, which are not copied
func NewMemoryFeed(events ...core.MarketDepth) *MemoryFeed {
	return &MemoryFeed{events: events}
}

// MemoryFeedFactory returns a factory of independent cursors over the same events
func MemoryFeedFactory(events ...core.MarketDepth) core.SourceFactory {
	return func() (core.DepthSource, error) {
		return NewMemoryFeed(events...), nil
	}
}

func (m *MemoryFeed) Reset() error {
	m.position = 0
	m.prevTime = 0
	return nil
}

func (m *MemoryFeed) Next() (core.MarketDepth, bool, error) {
	if m.position >= len(m.events) {
		return core.MarketDepth{}, false, nil
	}

	event := m.events[m.position]
	if event.Time < m.prevTime {
		return core.MarketDepth{}, false, core.DataSourceError("event %d: time %d is before previous event %d", m.position, event.Time, m.prevTime)
	}

	m.position++
	m.prevTime = event.Time
	return event, true, nil
}

func (m *MemoryFeed) TotalEventCount() (int64, error) {
	return int64(len(m.events)), nil
}

func (m *MemoryFeed) Close() error { return nil }
