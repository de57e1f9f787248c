package optimizer

import (
	"context"
	"math"

	"github.com/StudioSol/set"
	"github.com/raykavin/depthrun/pkg/core"
)

// DivideAndConquer searches the grid coarse to fine. The first round
// samples every dimension at width evenly spaced grid values. Each next
// round halves the span of every dimension and centres it on the best
// ranked result. Values always stay on the step lattice of the template and
// a vector is never evaluated twice.
type DivideAndConquer struct {
	rounds int
	width  int

	visited *set.LinkedHashSetString
	seen    map[string]struct{}
}

// NewDivideAndConquer creates the policy, rounds and width are clamped to 1 and 2
func NewDivideAndConquer(rounds, width int) *DivideAndConquer {
	return &DivideAndConquer{
		rounds: max(rounds, 1),
		width:  max(width, 2),
	}
}

// Visited returns the keys of the evaluated vectors in evaluation order
func (d *DivideAndConquer) Visited() []string {
	if d.visited == nil {
		return nil
	}
	keys := make([]string, 0, d.visited.Length())
	for key := range d.visited.Iter() {
		keys = append(keys, key)
	}
	return keys
}

func (d *DivideAndConquer) Optimize(ctx context.Context, r *Runner) error {
	template := r.Params()
	d.reset()

	windows := make([]window, len(template))
	for i, param := range template {
		windows[i] = window{low: 0, high: param.Size() - 1}
	}

	var totalSteps int64
	for round := 0; round < d.rounds; round++ {
		tasks, err := d.next(template, windows)
		if err != nil {
			return err
		}

		// A round without new vectors still narrows around the best result
		if len(tasks) > 0 {
			totalSteps += int64(len(tasks)) * r.TotalEvents()
			r.SetTotalSteps(totalSteps)

			if err := r.Evaluate(ctx, tasks); err != nil {
				return err
			}
			if r.Cancelled() {
				return nil
			}
		}

		best, ok := r.Best()
		if !ok {
			return nil
		}
		for i, param := range template {
			windows[i] = windows[i].narrow(param.Index(best.Params.Value(param.Name)), param.Size())
		}
	}
	return nil
}

func (d *DivideAndConquer) reset() {
	d.visited = set.NewLinkedHashSetString()
	d.seen = make(map[string]struct{})
}

// next returns the vectors of the sub-grid not evaluated yet and marks them visited
func (d *DivideAndConquer) next(template core.Params, windows []window) ([]core.Params, error) {
	samples := make([][]int, len(template))
	indexes := make(core.Params, len(template))
	for i, param := range template {
		samples[i] = windows[i].sample(d.width)
		indexes[i] = core.NewParameter(param.Name, 0, float64(len(samples[i])-1), 1)
	}

	positions, err := Enumerate(indexes)
	if err != nil {
		return nil, core.InternalError("sub-grid: %w", err)
	}

	var tasks []core.Params
	for _, position := range positions {
		params := template.Clone()
		for i := range params {
			params[i].Value = params[i].At(samples[i][int(position[i].Value)])
		}

		key := params.Key()
		if _, ok := d.seen[key]; ok {
			continue
		}
		d.seen[key] = struct{}{}
		d.visited.Add(key)
		tasks = append(tasks, params)
	}
	return tasks, nil
}

// window is an inclusive range of grid indexes of one dimension
type window struct {
	low, high int
}

// sample returns up to width evenly spaced indexes of the window, both ends included
func (w window) sample(width int) []int {
	span := w.high - w.low
	if span == 0 {
		return []int{w.low}
	}

	indexes := make([]int, 0, width)
	for j := 0; j < width; j++ {
		index := w.low + int(math.Round(float64(j)*float64(span)/float64(width-1)))
		if n := len(indexes); n == 0 || indexes[n-1] != index {
			indexes = append(indexes, index)
		}
	}
	return indexes
}

// narrow halves the span and centres it on center, shifted to stay inside [0, size)
func (w window) narrow(center, size int) window {
	span := (w.high - w.low) / 2
	low := center - span/2
	low = max(0, min(low, size-1-span))
	return window{low: low, high: low + span}
}
