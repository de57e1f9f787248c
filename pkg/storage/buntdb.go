package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/tidwall/buntdb"
)

const (
	netProfitIndex = "net_profit_index"
	resultPrefix   = "result:"
	runPrefix      = "run:"
)

var ErrRunNotFound = errors.New("run not found")

// Run describes an archived optimization run
type Run struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Strategy  string    `json:"strategy"`
	File      string    `json:"file"`
	Sort      string    `json:"sort"`
	Results   int       `json:"results"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultFilter selects archived results
type ResultFilter func(core.Result) bool

// WithMinTrades keeps results with at least n trades
func WithMinTrades(n int) ResultFilter {
	return func(r core.Result) bool { return r.Trades >= n }
}

// WithMinNetProfit keeps results earning at least profit
func WithMinNetProfit(profit float64) ResultFilter {
	return func(r core.Result) bool { return r.NetProfit >= profit }
}

type storedParam struct {
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"value"`
}

type storedResult struct {
	Run               string        `json:"run"`
	Rank              int           `json:"rank"`
	Params            []storedParam `json:"params"`
	NetProfit         float64       `json:"net_profit"`
	MaxDrawdown       float64       `json:"max_drawdown"`
	Trades            int           `json:"trades"`
	ProfitFactor      float64       `json:"profit_factor"`
	KellyCriterion    float64       `json:"kelly"`
	PerformanceIndex  float64       `json:"performance_index"`
	PercentProfitable float64       `json:"percent_profitable"`
	AverageProfit     float64       `json:"average_profit"`
}

func toStored(run string, rank int, r core.Result) storedResult {
	params := make([]storedParam, len(r.Params))
	for i, p := range r.Params {
		params[i] = storedParam{Name: p.Name, Min: p.Min, Max: p.Max, Step: p.Step, Value: p.Value}
	}
	return storedResult{
		Run:               run,
		Rank:              rank,
		Params:            params,
		NetProfit:         r.NetProfit,
		MaxDrawdown:       r.MaxDrawdown,
		Trades:            r.Trades,
		ProfitFactor:      r.ProfitFactor,
		KellyCriterion:    r.KellyCriterion,
		PerformanceIndex:  r.PerformanceIndex,
		PercentProfitable: r.PercentProfitable,
		AverageProfit:     r.AverageProfit,
	}
}

func (s storedResult) result() core.Result {
	params := make(core.Params, len(s.Params))
	for i, p := range s.Params {
		params[i] = core.Parameter{Name: p.Name, Min: p.Min, Max: p.Max, Step: p.Step, Value: p.Value}
	}
	return core.Result{
		Params:            params,
		NetProfit:         s.NetProfit,
		MaxDrawdown:       s.MaxDrawdown,
		Trades:            s.Trades,
		ProfitFactor:      s.ProfitFactor,
		KellyCriterion:    s.KellyCriterion,
		PerformanceIndex:  s.PerformanceIndex,
		PercentProfitable: s.PercentProfitable,
		AverageProfit:     s.AverageProfit,
	}
}

// ResultArchive keeps the ranked results of completed runs in BuntDB
type ResultArchive struct {
	db *buntdb.DB
}

// FromMemory creates an in-memory archive
func FromMemory() (*ResultArchive, error) {
	return NewResultArchive(":memory:")
}

// FromFile creates a file-based archive
func FromFile(file string) (*ResultArchive, error) {
	return NewResultArchive(file)
}

// NewResultArchive opens the archive at sourceFile
func NewResultArchive(sourceFile string) (*ResultArchive, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(netProfitIndex, resultPrefix+"*", buntdb.IndexJSON("net_profit"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &ResultArchive{db: db}, nil
}

func resultKey(run string, rank int) string {
	return fmt.Sprintf("%s%s:%06d", resultPrefix, run, rank)
}

// Save stores the ranked results of run, replacing a previous run with the same name
func (a *ResultArchive) Save(run Run, results []core.Result) error {
	if run.Name == "" || strings.Contains(run.Name, ":") {
		return fmt.Errorf("invalid run name %q", run.Name)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.Results = len(results)

	return a.db.Update(func(tx *buntdb.Tx) error {
		var stale []string
		err := tx.AscendKeys(resultPrefix+run.Name+":*", func(key, _ string) bool {
			stale = append(stale, key)
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over results: %w", err)
		}
		for _, key := range stale {
			if _, err := tx.Delete(key); err != nil {
				return fmt.Errorf("failed to delete result: %w", err)
			}
		}

		for rank, result := range results {
			content, err := json.Marshal(toStored(run.Name, rank+1, result))
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			if _, _, err := tx.Set(resultKey(run.Name, rank+1), string(content), nil); err != nil {
				return fmt.Errorf("failed to store result: %w", err)
			}
		}

		content, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("failed to marshal run: %w", err)
		}
		_, _, err = tx.Set(runPrefix+run.Name, string(content), nil)
		return err
	})
}

// Results returns the results of run in rank order
func (a *ResultArchive) Results(run string, filters ...ResultFilter) ([]core.Result, error) {
	results := make([]core.Result, 0)

	err := a.db.View(func(tx *buntdb.Tx) error {
		if _, err := tx.Get(runPrefix + run); err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrRunNotFound, run)
			}
			return err
		}

		var decodeErr error
		err := tx.AscendKeys(resultPrefix+run+":*", func(_, value string) bool {
			result, err := decode(value)
			if err != nil {
				decodeErr = err
				return false
			}
			if accept(result, filters) {
				results = append(results, result)
			}
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over results: %w", err)
		}
		return decodeErr
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns up to limit results across every run, highest net profit first
func (a *ResultArchive) Best(limit int, filters ...ResultFilter) ([]core.Result, error) {
	results := make([]core.Result, 0, max(limit, 0))
	if limit <= 0 {
		return results, nil
	}

	err := a.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.Descend(netProfitIndex, func(_, value string) bool {
			result, err := decode(value)
			if err != nil {
				decodeErr = err
				return false
			}
			if accept(result, filters) {
				results = append(results, result)
			}
			return len(results) < limit
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over results: %w", err)
		}
		return decodeErr
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}

// Runs returns the archived runs ordered by name
func (a *ResultArchive) Runs() ([]Run, error) {
	runs := make([]Run, 0)

	err := a.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.AscendKeys(runPrefix+"*", func(_, value string) bool {
			var run Run
			if err := json.Unmarshal([]byte(value), &run); err != nil {
				decodeErr = fmt.Errorf("failed to unmarshal run: %w", err)
				return false
			}
			runs = append(runs, run)
			return true
		})
		if err != nil {
			return err
		}
		return decodeErr
	})

	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Close closes the database connection
func (a *ResultArchive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func decode(value string) (core.Result, error) {
	var stored storedResult
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return core.Result{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return stored.result(), nil
}

func accept(result core.Result, filters []ResultFilter) bool {
	for _, filter := range filters {
		if !filter(result) {
			return false
		}
	}
	return true
}
