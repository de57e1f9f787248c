package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/exchange"
	"github.com/raykavin/depthrun/pkg/progress"
	"github.com/raykavin/depthrun/pkg/report"
	"github.com/raykavin/depthrun/pkg/strategy"
	"golang.org/x/sync/errgroup"
)

// Optimizer chooses the vectors a run evaluates
type Optimizer interface {
	Optimize(ctx context.Context, r *Runner) error
}

// Runner executes one optimization run
type Runner struct {
	cfg        Config
	env        Env
	sink       progress.Sink
	definition strategy.Definition
	template   core.Params
	optimizer  Optimizer
	ranking    *RankStore
	pool       *workerPool
	estimator  *progress.Estimator

	totalEvents    int64
	totalSteps     atomic.Int64
	completedSteps atomic.Int64
	evaluated      atomic.Int64

	cancelled atomic.Bool
	aborted   atomic.Bool
	duration  time.Duration
}

// NewRunner validates cfg and resolves the strategy parameter template
func NewRunner(cfg *Config, env Env, sink progress.Sink) (*Runner, error) {
	if cfg == nil {
		return nil, core.ConfigurationError("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env, err := env.withDefaults()
	if err != nil {
		return nil, err
	}

	definition, err := cfg.Registry.Lookup(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	template, err := definition.Resolve(cfg.Params)
	if err != nil {
		return nil, err
	}

	if sink == nil {
		sink = progress.Discard
	}

	r := &Runner{
		cfg:        *cfg,
		env:        env,
		sink:       sink,
		definition: definition,
		template:   template,
		ranking:    NewRankStore(cfg.SortCriteria, MaxResults),
		estimator:  progress.NewEstimator(time.Now(), 0),
	}
	if r.cfg.Source == nil {
		r.cfg.Source = exchange.DepthFeedFactory(cfg.FileName)
	}

	switch cfg.Method {
	case MethodDivide:
		r.optimizer = NewDivideAndConquer(cfg.DivideRounds, cfg.DivideWidth)
	default:
		r.optimizer = Exhaustive{}
	}

	return r, nil
}

// WithOptimizer replaces the policy selected by the configured method
func (r *Runner) WithOptimizer(optimizer Optimizer) *Runner {
	r.optimizer = optimizer
	return r
}

// Params returns the resolved parameter template
func (r *Runner) Params() core.Params { return r.template.Clone() }

// TotalEvents returns the number of events of the source, known once Run started
func (r *Runner) TotalEvents() int64 { return r.totalEvents }

// Evaluated returns the number of vectors replayed so far
func (r *Runner) Evaluated() int64 { return r.evaluated.Load() }

// Cancel stops the run, it is safe to call from any goroutine
func (r *Runner) Cancel() { r.cancelled.Store(true) }

// Cancelled reports whether Cancel was called or the run context was done
func (r *Runner) Cancelled() bool { return r.cancelled.Load() }

// Duration returns the wall time of a completed run, zero otherwise
func (r *Runner) Duration() time.Duration { return r.duration }

// Results returns the current ranking
func (r *Runner) Results() []core.Result { return r.ranking.Snapshot() }

// Best returns the best ranked result so far
func (r *Runner) Best() (core.Result, bool) { return r.ranking.Best() }

func (r *Runner) halted() bool {
	return r.cancelled.Load() || r.aborted.Load()
}

// SetTotalSteps revises the number of strategy steps of the run
func (r *Runner) SetTotalSteps(total int64) {
	r.totalSteps.Store(total)
	r.estimator.SetTotalIterations(total)
}

// Run executes the optimization. A cancelled run returns nil without
// writing the report, configuration and data source errors abort the run.
func (r *Runner) Run(ctx context.Context) (err error) {
	defer r.sink.SignalCompleted()

	stop := context.AfterFunc(ctx, r.Cancel)
	defer stop()

	r.pool = newWorkerPool(&r.cfg)
	defer func() {
		if closeErr := r.pool.close(); closeErr != nil {
			r.env.Logger.WithError(closeErr).Warn("closing historical data source")
		}
	}()

	if err = r.run(ctx); err != nil {
		r.env.Errors.Report(err)
		r.sink.ShowProgress("Error: " + err.Error())
	}
	return err
}

func (r *Runner) run(ctx context.Context) error {
	r.sink.SetResults(nil)
	r.sink.EnableProgress()
	r.sink.ShowProgress("Scanning historical data file...")

	w, err := r.pool.acquire()
	if err != nil {
		return err
	}
	events, err := w.source.TotalEventCount()
	r.pool.release(w)
	if err != nil {
		return asDataSourceError(err)
	}
	r.totalEvents = events

	if r.Cancelled() {
		return nil
	}

	r.sink.ShowProgress("Starting optimization...")
	start := time.Now()
	r.estimator = progress.NewEstimator(start, 0)

	r.env.Logger.WithFields(map[string]any{
		"strategy": r.definition.Name,
		"events":   events,
		"vectors":  GridSize(r.template),
		"workers":  r.cfg.Workers,
	}).Info("optimizing")

	if err := r.optimizer.Optimize(ctx, r); err != nil {
		return err
	}
	if r.Cancelled() {
		return nil
	}

	r.fastProgress(100, 100, "Optimization")
	results := r.ranking.Snapshot()
	r.sink.SetResults(results)
	if err := r.writeReport(results); err != nil {
		return err
	}

	r.duration = time.Since(start)
	r.sink.ShowProgress(fmt.Sprintf("Optimization completed successfully in %d seconds.", int64(r.duration.Seconds())))
	return nil
}

// Evaluate replays tasks in batches of at most BatchSize vectors on the
// worker pool. A strategy error aborts its batch only, any other error
// stops the remaining batches and is returned.
func (r *Runner) Evaluate(ctx context.Context, tasks []core.Params) error {
	group := errgroup.Group{}
	group.SetLimit(r.cfg.Workers)

	for _, batch := range batches(tasks, r.cfg.BatchSize) {
		if r.halted() {
			break
		}

		batch := batch
		group.Go(func() error {
			if r.halted() {
				return nil
			}

			err := r.evaluateBatch(batch)
			switch {
			case err == nil:
				return nil
			case core.IsFatal(err):
				r.aborted.Store(true)
				return err
			default:
				r.env.Logger.WithError(err).Warnf("batch of %d vectors aborted", len(batch))
				r.env.Errors.Report(err)
				return nil
			}
		})
	}

	return group.Wait()
}

func (r *Runner) evaluateBatch(tasks []core.Params) error {
	w, err := r.pool.acquire()
	if err != nil {
		return err
	}
	defer r.pool.release(w)

	batch, err := r.newStrategies(w, tasks)
	if err != nil {
		return err
	}

	results, err := r.execute(w, batch, fmt.Sprintf("Optimizing %d strategies", len(batch)), r.cfg.MinTrades)
	if err != nil {
		return err
	}
	if r.halted() {
		return nil
	}

	r.evaluated.Add(int64(len(batch)))
	if len(results) > 0 {
		r.ranking.Insert(results...)
		r.sink.SetResults(r.ranking.Snapshot())
	}

	completed := r.completedSteps.Load()
	total := r.totalSteps.Load()
	r.sink.SetProgress(completed, total, "Optimizing", r.timeLeft(completed, total))
	return nil
}

// Backtest replays the single vector described by the template values and
// returns the strategy, whatever its number of trades
func (r *Runner) Backtest(ctx context.Context) (strategy.Strategy, error) {
	stop := context.AfterFunc(ctx, r.Cancel)
	defer stop()

	pool := newWorkerPool(&r.cfg)
	defer func() {
		if err := pool.close(); err != nil {
			r.env.Logger.WithError(err).Warn("closing historical data source")
		}
	}()

	w, err := pool.acquire()
	if err != nil {
		return nil, err
	}

	events, err := w.source.TotalEventCount()
	if err != nil {
		return nil, asDataSourceError(err)
	}
	r.totalEvents = events
	r.estimator = progress.NewEstimator(time.Now(), events)
	r.totalSteps.Store(events)

	batch, err := r.newStrategies(w, []core.Params{r.template.Clone()})
	if err != nil {
		return nil, err
	}

	if _, err := r.execute(w, batch, "Backtesting", 0); err != nil {
		return nil, err
	}
	if r.Cancelled() {
		return nil, core.ErrCancelled
	}
	return batch[0], nil
}

func (r *Runner) newStrategies(w *worker, tasks []core.Params) ([]strategy.Strategy, error) {
	batch := make([]strategy.Strategy, 0, len(tasks))
	for _, params := range tasks {
		s, err := r.build(params.Clone(), w.book)
		if err != nil {
			return nil, err
		}

		manager := s.PositionManager()
		manager.SetMode(r.env.Mode)
		manager.SetLogger(r.env.Logger)
		manager.Attach(w.broker)
		batch = append(batch, s)
	}
	return batch, nil
}

func (r *Runner) build(params core.Params, book *core.MarketBook) (s strategy.Strategy, err error) {
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, core.StrategyError("build %s %s: panic: %v", r.definition.Name, params, p)
		}
	}()

	s, err = r.definition.Factory(params, book)
	if err != nil {
		if errors.Is(err, core.ErrStrategy) {
			return nil, err
		}
		return nil, core.StrategyError("build %s %s: %w", r.definition.Name, params, err)
	}
	if s == nil {
		return nil, core.StrategyError("build %s %s: factory returned no strategy", r.definition.Name, params)
	}
	return s, nil
}

func (r *Runner) timeLeft(completed, total int64) string {
	if completed >= total {
		return progress.FormatDuration(0)
	}
	return r.estimator.TimeLeft(completed)
}

func (r *Runner) fastProgress(completed, total int64, label string) {
	r.sink.SetProgress(completed, total, label, r.timeLeft(completed, total))
}

// writeReport sends the ranking to the report sink, nothing is written
// when no result was admitted
func (r *Runner) writeReport(results []core.Result) error {
	if len(results) == 0 {
		return r.env.Reporter.Close()
	}

	description := []string{"Strategy parameters:"}
	for _, param := range r.template {
		description = append(description, fmt.Sprintf("%s: min=%g, max=%g, step=%g", param.Name, param.Min, param.Max, param.Step))
	}
	description = append(description,
		fmt.Sprintf("Minimum trades for strategy inclusion: %d", r.cfg.MinTrades),
		fmt.Sprintf("Back data file: %s", r.sourceName()),
	)

	if err := report.Write(r.env.Reporter, description, results[0].Params, results); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r *Runner) sourceName() string {
	if strings.TrimSpace(r.cfg.FileName) == "" {
		return "(memory)"
	}
	return r.cfg.FileName
}
