package exchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/depthrun/pkg/core"
)

// column indexes of one book level
type levelColumns struct {
	price, size int
}

// depthLayout maps CSV columns to depth fields
type depthLayout struct {
	time       int
	bids, asks []levelColumns
	width      int
}

// DepthFeed is a restartable cursor over a CSV file of market depth
// snapshots. Records are time,bid_price_1,bid_size_1,...,ask_price_1,ask_size_1,...
// with time as unix milliseconds. The header row is optional.
type DepthFeed struct {
	path      string
	file      *os.File
	reader    *csv.Reader
	layout    depthLayout
	hasHeader bool

	last        time.Duration
	windowStart int64
	scanned     bool
	count       int64

	prevTime int64
	line     int
}

// DepthFeedOption configures a DepthFeed
type DepthFeedOption func(*DepthFeed)

// WithLast restricts the replay to the trailing window [lastTime-d, lastTime]
func WithLast(d time.Duration) DepthFeedOption {
	return func(f *DepthFeed) {
		f.last = d
	}
}

// OpenDepthFeed opens the CSV file and detects its layout
func OpenDepthFeed(path string, options ...DepthFeedOption) (*DepthFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, core.DataSourceError("open %s: %w", path, err)
	}

	feed := &DepthFeed{path: path, file: file}
	for _, option := range options {
		option(feed)
	}

	if err := feed.detectLayout(); err != nil {
		file.Close()
		return nil, err
	}

	if err := feed.Reset(); err != nil {
		file.Close()
		return nil, err
	}

	return feed, nil
}

// DepthFeedFactory returns a factory opening a private cursor per call
func DepthFeedFactory(path string, options ...DepthFeedOption) core.SourceFactory {
	return func() (core.DepthSource, error) {
		return OpenDepthFeed(path, options...)
	}
}

// Levels returns the number of book levels per side
func (f *DepthFeed) Levels() int {
	return len(f.layout.bids)
}

func (f *DepthFeed) detectLayout() error {
	reader := csv.NewReader(f.file)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		f.layout = depthLayout{time: 0, width: 1}
		return nil
	}
	if err != nil {
		return core.DataSourceError("read %s: %w", f.path, err)
	}

	if _, err := strconv.ParseInt(strings.TrimSpace(first[0]), 10, 64); err == nil {
		f.layout, err = positionalLayout(len(first))
		if err != nil {
			return core.DataSourceError("%s: %w", f.path, err)
		}
		return nil
	}

	f.hasHeader = true
	f.layout, err = headerLayout(first)
	if err != nil {
		return core.DataSourceError("%s: %w", f.path, err)
	}
	return nil
}

func positionalLayout(width int) (depthLayout, error) {
	if width < 1 || (width-1)%4 != 0 {
		return depthLayout{}, fmt.Errorf("unexpected column count %d, want 1+4*levels", width)
	}

	levels := (width - 1) / 4
	layout := depthLayout{time: 0, width: width}
	for k := 0; k < levels; k++ {
		layout.bids = append(layout.bids, levelColumns{price: 1 + 2*k, size: 2 + 2*k})
		layout.asks = append(layout.asks, levelColumns{price: 1 + 2*levels + 2*k, size: 2 + 2*levels + 2*k})
	}
	return layout, nil
}

func headerLayout(headers []string) (depthLayout, error) {
	columns := make(map[string]int, len(headers))
	for index, header := range headers {
		columns[strings.ToLower(strings.TrimSpace(header))] = index
	}

	timeIndex, ok := columns["time"]
	if !ok {
		return depthLayout{}, errors.New("missing time column")
	}

	layout := depthLayout{time: timeIndex, width: len(headers)}
	for k := 1; ; k++ {
		bid, okBid := lookupLevel(columns, "bid", k)
		ask, okAsk := lookupLevel(columns, "ask", k)
		if !okBid && !okAsk {
			break
		}
		if !okBid || !okAsk {
			return depthLayout{}, fmt.Errorf("incomplete columns for level %d", k)
		}
		layout.bids = append(layout.bids, bid)
		layout.asks = append(layout.asks, ask)
	}
	return layout, nil
}

func lookupLevel(columns map[string]int, side string, k int) (levelColumns, bool) {
	price, okPrice := columns[fmt.Sprintf("%s_price_%d", side, k)]
	size, okSize := columns[fmt.Sprintf("%s_size_%d", side, k)]
	return levelColumns{price: price, size: size}, okPrice && okSize
}

// Reset rewinds the cursor to the first event
func (f *DepthFeed) Reset() error {
	if _, err := f.file.Seek(0, io.SeekStart); err != nil {
		return core.DataSourceError("rewind %s: %w", f.path, err)
	}

	f.reader = csv.NewReader(f.file)
	f.reader.FieldsPerRecord = f.layout.width
	f.reader.ReuseRecord = true
	f.prevTime = 0
	f.line = 0

	if f.hasHeader {
		if _, err := f.reader.Read(); err != nil {
			return core.DataSourceError("read header %s: %w", f.path, err)
		}
		f.line++
	}
	return nil
}

// Next returns the next event inside the replay window
func (f *DepthFeed) Next() (core.MarketDepth, bool, error) {
	if f.last > 0 && !f.scanned {
		if _, err := f.TotalEventCount(); err != nil {
			return core.MarketDepth{}, false, err
		}
	}

	for {
		record, err := f.reader.Read()
		if errors.Is(err, io.EOF) {
			return core.MarketDepth{}, false, nil
		}
		if err != nil {
			return core.MarketDepth{}, false, core.DataSourceError("read %s: %w", f.path, err)
		}
		f.line++

		depth, err := f.decode(record)
		if err != nil {
			return core.MarketDepth{}, false, err
		}

		if f.last > 0 && depth.Time < f.windowStart {
			continue
		}
		return depth, true, nil
	}
}

func (f *DepthFeed) decode(record []string) (core.MarketDepth, error) {
	millis, err := strconv.ParseInt(strings.TrimSpace(record[f.layout.time]), 10, 64)
	if err != nil {
		return core.MarketDepth{}, core.DataSourceError("%s line %d: invalid time %q", f.path, f.line, record[f.layout.time])
	}

	if millis < f.prevTime {
		return core.MarketDepth{}, core.DataSourceError("%s line %d: time %d is before previous event %d", f.path, f.line, millis, f.prevTime)
	}
	f.prevTime = millis

	depth := core.MarketDepth{Time: millis}
	if depth.Bids, err = f.decodeLevels(record, f.layout.bids); err != nil {
		return core.MarketDepth{}, err
	}
	if depth.Asks, err = f.decodeLevels(record, f.layout.asks); err != nil {
		return core.MarketDepth{}, err
	}
	return depth, nil
}

// decodeLevels parses one side of the book, levels without size are skipped
func (f *DepthFeed) decodeLevels(record []string, columns []levelColumns) ([]core.BookLevel, error) {
	levels := make([]core.BookLevel, 0, len(columns))
	for _, column := range columns {
		price, err := f.parseField(record, column.price)
		if err != nil {
			return nil, err
		}
		size, err := f.parseField(record, column.size)
		if err != nil {
			return nil, err
		}
		if size <= 0 || price <= 0 {
			continue
		}
		levels = append(levels, core.BookLevel{Price: price, Size: size})
	}
	return levels, nil
}

func (f *DepthFeed) parseField(record []string, index int) (float64, error) {
	raw := strings.TrimSpace(record[index])
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, core.DataSourceError("%s line %d: invalid number %q", f.path, f.line, raw)
	}
	return value, nil
}

// TotalEventCount pre-scans the file once and caches the number of events
// inside the replay window. The cursor position is preserved.
func (f *DepthFeed) TotalEventCount() (int64, error) {
	if f.scanned {
		return f.count, nil
	}

	scan, err := OpenDepthFeed(f.path)
	if err != nil {
		return 0, err
	}
	defer scan.Close()

	var total, lastTime int64
	for {
		depth, ok, err := scan.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		total++
		lastTime = depth.Time
	}

	if f.last > 0 && total > 0 {
		f.windowStart = lastTime - f.last.Milliseconds()
		if total, err = scan.countFrom(f.windowStart); err != nil {
			return 0, err
		}
	}

	f.count = total
	f.scanned = true
	return f.count, nil
}

// countFrom counts the events at or after start, rewinding first
func (f *DepthFeed) countFrom(start int64) (int64, error) {
	if err := f.Reset(); err != nil {
		return 0, err
	}

	var total int64
	for {
		depth, ok, err := f.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return total, nil
		}
		if depth.Time >= start {
			total++
		}
	}
}

// Close releases the file handle
func (f *DepthFeed) Close() error {
	return f.file.Close()
}
