package exchange

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "depth.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readAll(t *testing.T, source core.DepthSource) []core.MarketDepth {
	t.Helper()
	var events []core.MarketDepth
	for {
		depth, ok, err := source.Next()
		require.NoError(t, err)
		if !ok {
			return events
		}
		events = append(events, depth)
	}
}

const headerCSV = `time,bid_price_1,bid_size_1,bid_price_2,bid_size_2,ask_price_1,ask_size_1,ask_price_2,ask_size_2
1000,99.5,10,99.0,5,100.0,4,100.5,8
2000,99.6,12,99.1,0,100.1,3,100.6,9
3000,99.7,7,99.2,6,100.2,2,100.7,1
`

func TestDepthFeed_Header(t *testing.T) {
	feed, err := OpenDepthFeed(writeFile(t, headerCSV))
	require.NoError(t, err)
	defer feed.Close()

	assert.Equal(t, 2, feed.Levels())

	count, err := feed.TotalEventCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	events := readAll(t, feed)
	require.Len(t, events, 3)

	first := events[0]
	assert.Equal(t, int64(1000), first.Time)
	assert.Equal(t, []core.BookLevel{{Price: 99.5, Size: 10}, {Price: 99.0, Size: 5}}, first.Bids)
	assert.Equal(t, []core.BookLevel{{Price: 100.0, Size: 4}, {Price: 100.5, Size: 8}}, first.Asks)

	// zero sized levels are dropped
	assert.Len(t, events[1].Bids, 1)
}

func TestDepthFeed_ResetReplaysSameEvents(t *testing.T) {
	feed, err := OpenDepthFeed(writeFile(t, headerCSV))
	require.NoError(t, err)
	defer feed.Close()

	first := readAll(t, feed)
	require.NoError(t, feed.Reset())
	require.NoError(t, feed.Reset())
	second := readAll(t, feed)

	assert.Equal(t, first, second)
}

func TestDepthFeed_Headerless(t *testing.T) {
	path := writeFile(t, "1000,10.0,1,10.5,2\n1500,10.1,3,10.4,4\n")
	feed, err := OpenDepthFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	assert.Equal(t, 1, feed.Levels())
	events := readAll(t, feed)
	require.Len(t, events, 2)
	assert.Equal(t, 10.1, events[1].BestBid())
	assert.Equal(t, 10.4, events[1].BestAsk())
}

func TestDepthFeed_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := OpenDepthFeed(filepath.Join(t.TempDir(), "absent.csv"))
		assert.True(t, errors.Is(err, core.ErrDataSource))
	})

	t.Run("bad column count", func(t *testing.T) {
		_, err := OpenDepthFeed(writeFile(t, "1000,10.0,1\n"))
		assert.True(t, errors.Is(err, core.ErrDataSource))
	})

	t.Run("decreasing time", func(t *testing.T) {
		feed, err := OpenDepthFeed(writeFile(t, "2000,10.0,1,10.5,2\n1000,10.0,1,10.5,2\n"))
		require.NoError(t, err)
		defer feed.Close()

		_, ok, err := feed.Next()
		require.NoError(t, err)
		require.True(t, ok)

		_, _, err = feed.Next()
		assert.True(t, errors.Is(err, core.ErrDataSource))
	})

	t.Run("invalid number", func(t *testing.T) {
		feed, err := OpenDepthFeed(writeFile(t, "1000,abc,1,10.5,2\n"))
		require.NoError(t, err)
		defer feed.Close()

		_, _, err = feed.Next()
		assert.True(t, errors.Is(err, core.ErrDataSource))
	})
}

func TestDepthFeed_WithLast(t *testing.T) {
	content := "0,10,1,11,1\n60000,10,1,11,1\n120000,10,1,11,1\n180000,10,1,11,1\n"
	feed, err := OpenDepthFeed(writeFile(t, content), WithLast(time.Minute))
	require.NoError(t, err)
	defer feed.Close()

	count, err := feed.TotalEventCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	events := readAll(t, feed)
	require.Len(t, events, 2)
	assert.Equal(t, int64(120000), events[0].Time)
	assert.Equal(t, int64(180000), events[1].Time)
}

func TestDepthFeed_Empty(t *testing.T) {
	feed, err := OpenDepthFeed(writeFile(t, ""))
	require.NoError(t, err)
	defer feed.Close()

	count, err := feed.TotalEventCount()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, readAll(t, feed))
}

func TestDepthFeed_RoundTripToSlice(t *testing.T) {
	depth := core.MarketDepth{
		Time: 42,
		Bids: []core.BookLevel{{Price: 1.25, Size: 3}},
		Asks: []core.BookLevel{{Price: 1.5, Size: 2}},
	}
	line := ""
	for i, field := range depth.ToSlice(1, 2) {
		if i > 0 {
			line += ","
		}
		line += field
	}

	feed, err := OpenDepthFeed(writeFile(t, line+"\n"))
	require.NoError(t, err)
	defer feed.Close()

	events := readAll(t, feed)
	require.Len(t, events, 1)
	assert.Equal(t, depth, events[0])
}
