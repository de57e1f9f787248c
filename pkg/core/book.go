package core

// MarketBook keeps the history of market depth snapshots seen during a replay.
// A book belongs to a single replay worker and is cleared between batches.
type MarketBook struct {
	history      []MarketDepth
	historyLimit int
}

// BookOption configures a MarketBook
type BookOption func(*MarketBook)

// WithHistoryLimit keeps only the most recent n snapshots, n <= 0 keeps everything
func WithHistoryLimit(n int) BookOption {
	return func(b *MarketBook) {
		b.historyLimit = n
	}
}

// NewMarketBook creates an empty book
func NewMarketBook(options ...BookOption) *MarketBook {
	book := &MarketBook{}
	for _, option := range options {
		option(book)
	}
	return book
}

// Add appends a snapshot to the history
func (b *MarketBook) Add(depth MarketDepth) {
	b.history = append(b.history, depth)

	// Trim in bulk so the copy is amortized over historyLimit insertions
	if b.historyLimit > 0 && len(b.history) >= 2*b.historyLimit {
		keep := b.history[len(b.history)-b.historyLimit:]
		b.history = append(b.history[:0], keep...)
	}
}

// Last returns the most recent snapshot and false when the book is empty
func (b *MarketBook) Last() (MarketDepth, bool) {
	if len(b.history) == 0 {
		return MarketDepth{}, false
	}
	return b.history[len(b.history)-1], true
}

// All returns the retained history, oldest first. Callers must not modify it.
func (b *MarketBook) All() []MarketDepth {
	if b.historyLimit > 0 && len(b.history) > b.historyLimit {
		return b.history[len(b.history)-b.historyLimit:]
	}
	return b.history
}

// Len returns the number of retained snapshots
func (b *MarketBook) Len() int {
	return len(b.All())
}

// Clear drops the history keeping the allocated capacity
func (b *MarketBook) Clear() {
	b.history = b.history[:0]
}
