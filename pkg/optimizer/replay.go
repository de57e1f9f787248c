package optimizer

import (
	"fmt"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/strategy"
)

// UpdateFrequency is the number of strategy steps between fast progress updates
const UpdateFrequency = 2_000_000

// execute replays the whole source once for batch and returns the results
// with at least minTrades trades. It returns no result when the run is
// stopped before the end of the source or when the source is empty.
func (r *Runner) execute(w *worker, batch []strategy.Strategy, label string, minTrades int) (results []core.Result, err error) {
	if len(batch) == 0 {
		return nil, nil
	}

	defer func() {
		if p := recover(); p != nil {
			results, err = nil, core.StrategyError("%s: panic during replay: %v", batch[0].Name(), p)
		}
	}()

	if err := w.source.Reset(); err != nil {
		return nil, asDataSourceError(err)
	}
	w.book.Clear()
	w.broker.Reset()

	// Strategies of a batch are built by the same factory and share a schedule
	tradingSchedule := batch[0].Schedule()

	var events int64
	for {
		depth, ok, err := w.source.Next()
		if err != nil {
			return nil, asDataSourceError(err)
		}
		if !ok {
			break
		}
		events++

		w.book.Add(depth)
		inSchedule := tradingSchedule.Contains(depth.Time)

		for _, s := range batch {
			s.SetTime(depth.Time)
			s.UpdateIndicators()
			if s.HasValidIndicators() {
				s.OnBookChange()
			}

			if !inSchedule {
				s.ClosePosition()
			}

			if err := s.PositionManager().Trade(); err != nil {
				return nil, tradeError(s, err)
			}

			if completed := r.completedSteps.Add(1); completed%UpdateFrequency == 0 {
				r.fastProgress(completed, r.totalSteps.Load(), label)
			}
			if r.halted() {
				return nil, nil
			}
		}
	}

	if events == 0 {
		return nil, nil
	}

	for _, s := range batch {
		s.ClosePosition()
		if err := s.PositionManager().Trade(); err != nil {
			return nil, tradeError(s, err)
		}

		performance := s.Performance()
		if performance.Trades() >= minTrades {
			results = append(results, performance.Result(s.Params()))
		}
	}
	return results, nil
}

func tradeError(s strategy.Strategy, err error) error {
	if core.IsFatal(err) {
		return err
	}
	return fmt.Errorf("%s %s: %w", s.Name(), s.Params(), err)
}
