package optimizer

import (
	"os"
	"strings"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/strategy"
)

// Method is the policy choosing which grid vectors are evaluated
type Method string

const (
	// MethodExhaustive evaluates the whole Cartesian product
	MethodExhaustive Method = "exhaustive"
	// MethodDivide refines a coarse sub-grid around the best result
	MethodDivide Method = "divide"
)

// ParseMethod converts a method name to a Method
func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case MethodExhaustive, "":
		return MethodExhaustive, nil
	case MethodDivide, "divide-and-conquer":
		return MethodDivide, nil
	default:
		return "", core.ConfigurationError("unknown optimization method %q", name)
	}
}

// Config holds the runtime options of an optimization run
type Config struct {
	// FileName is the historical depth file, used in the report and to open
	// the default source
	FileName string
	// Source opens a private cursor per worker, defaults to a depth feed over FileName
	Source core.SourceFactory
	// MinTrades is the number of trades a result needs to be ranked
	MinTrades    int
	SortCriteria SortCriteria
	// Params overrides ranges of the strategy default template
	Params   core.Params
	Strategy string
	Registry *strategy.Registry

	// BatchSize is the number of vectors sharing one replay of the source
	BatchSize int
	// Workers is the number of batches replayed concurrently
	Workers int

	Method       Method
	DivideRounds int
	DivideWidth  int

	// BookHistory is the number of depth snapshots kept by each market book
	BookHistory int
	// Slippage is added to every simulated fill price against the order
	Slippage float64
}

// NewConfig creates a configuration with the default options
func NewConfig() *Config {
	return &Config{
		SortCriteria: SortByNetProfit,
		BatchSize:    1000,
		Workers:      1,
		Method:       MethodExhaustive,
		DivideRounds: 4,
		DivideWidth:  5,
		BookHistory:  1000,
	}
}

func (c *Config) WithFileName(fileName string) *Config {
	c.FileName = fileName
	return c
}

// WithSource replaces the default depth feed
func (c *Config) WithSource(source core.SourceFactory) *Config {
	c.Source = source
	return c
}

func (c *Config) WithMinTrades(minTrades int) *Config {
	c.MinTrades = minTrades
	return c
}

func (c *Config) WithSortCriteria(criteria SortCriteria) *Config {
	c.SortCriteria = criteria
	return c
}

// WithParams adds parameter ranges overriding the strategy defaults
func (c *Config) WithParams(params ...core.Parameter) *Config {
	c.Params = append(c.Params, params...)
	return c
}

// WithStrategy selects the strategy to optimize from registry
func (c *Config) WithStrategy(name string, registry *strategy.Registry) *Config {
	c.Strategy = name
	c.Registry = registry
	return c
}

func (c *Config) WithBatchSize(size int) *Config {
	c.BatchSize = size
	return c
}

func (c *Config) WithWorkers(workers int) *Config {
	c.Workers = workers
	return c
}

func (c *Config) WithMethod(method Method) *Config {
	c.Method = method
	return c
}

// WithDivide configures the divide and conquer rounds and the number of
// values sampled per dimension
func (c *Config) WithDivide(rounds, width int) *Config {
	c.DivideRounds = rounds
	c.DivideWidth = width
	return c
}

func (c *Config) WithBookHistory(size int) *Config {
	c.BookHistory = size
	return c
}

func (c *Config) WithSlippage(amount float64) *Config {
	c.Slippage = amount
	return c
}

// Validate checks the options, every failure is a configuration error
func (c *Config) Validate() error {
	if c.Strategy == "" {
		return core.ConfigurationError("strategy name cannot be empty")
	}
	if c.Registry == nil {
		return core.ConfigurationError("no strategy registry")
	}
	if c.Source == nil {
		if c.FileName == "" {
			return core.ConfigurationError("no historical data file")
		}
		if _, err := os.Stat(c.FileName); err != nil {
			return core.ConfigurationError("historical data file: %w", err)
		}
	}
	if c.MinTrades < 0 {
		return core.ConfigurationError("minimum trades must not be negative, got %d", c.MinTrades)
	}
	if c.BatchSize < 1 {
		return core.ConfigurationError("batch size must be positive, got %d", c.BatchSize)
	}
	if c.Workers < 1 {
		return core.ConfigurationError("workers must be positive, got %d", c.Workers)
	}
	if _, ok := sortCriteriaNames[c.SortCriteria]; !ok {
		return core.ConfigurationError("unknown sort criteria %d", int(c.SortCriteria))
	}
	if c.Slippage < 0 {
		return core.ConfigurationError("slippage must not be negative, got %g", c.Slippage)
	}

	switch c.Method {
	case MethodExhaustive:
	case MethodDivide:
		if c.DivideRounds < 1 {
			return core.ConfigurationError("divide rounds must be positive, got %d", c.DivideRounds)
		}
		if c.DivideWidth < 2 {
			return core.ConfigurationError("divide width must be at least 2, got %d", c.DivideWidth)
		}
	default:
		return core.ConfigurationError("unknown optimization method %q", c.Method)
	}

	return c.Params.Validate()
}
