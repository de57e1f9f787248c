package core

import (
	"errors"
	"fmt"
)

// Error kinds, match them with errors.Is
var (
	ErrConfiguration = errors.New("configuration error")
	ErrDataSource    = errors.New("data source error")
	ErrStrategy      = errors.New("strategy error")
	ErrInternal      = errors.New("internal error")
	ErrCancelled     = errors.New("cancelled")
)

// ConfigurationError reports an unknown strategy, a malformed range or a missing file
func ConfigurationError(format string, args ...any) error {
	return kindError(ErrConfiguration, format, args...)
}

// DataSourceError reports an I/O or decode failure on historical data
func DataSourceError(format string, args ...any) error {
	return kindError(ErrDataSource, format, args...)
}

// StrategyError reports a failure while building or evaluating a strategy
func StrategyError(format string, args ...any) error {
	return kindError(ErrStrategy, format, args...)
}

// InternalError reports a broken accounting invariant
func InternalError(format string, args ...any) error {
	return kindError(ErrInternal, format, args...)
}

// IsFatal reports whether err must abort the whole run
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrDataSource)
}

// kindError prefixes the message with kind, format may also use %w to wrap a cause
func kindError(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
