package optimizer

import (
	"context"
)

// Exhaustive evaluates the whole Cartesian product of the template
type Exhaustive struct{}

func (Exhaustive) Optimize(ctx context.Context, r *Runner) error {
	tasks, err := Enumerate(r.Params())
	if err != nil {
		return err
	}
	r.SetTotalSteps(int64(len(tasks)) * r.TotalEvents())
	return r.Evaluate(ctx, tasks)
}
