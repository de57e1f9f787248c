package core

// Broker executes market orders on behalf of a position manager
type Broker interface {
	// PlaceMarketOrder submits the order and reports its execution to handler.
	// Simulated brokers call handler synchronously.
	PlaceMarketOrder(order Order, handler FillHandler) error
}

// FillHandler receives order executions
type FillHandler interface {
	Update(fill Fill) error
}

// DepthSource is a restartable cursor over historical market depth
type DepthSource interface {
	// Reset rewinds the cursor to the first event, it is safe to call repeatedly
	Reset() error
	// Next returns the next event, false at the end of the stream
	Next() (MarketDepth, bool, error)
	// TotalEventCount returns the number of events the cursor will produce
	TotalEventCount() (int64, error)
	// Close releases the underlying resources
	Close() error
}

// SourceFactory opens an independent cursor over the same historical data
type SourceFactory func() (DepthSource, error)

// ErrorReporter receives errors that abort a run or a batch
type ErrorReporter interface {
	Report(err error)
}
