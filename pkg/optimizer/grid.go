package optimizer

import (
	"github.com/raykavin/depthrun/pkg/core"
)

// Enumerate returns every vector of the grid described by template. The
// parameters work as an odometer: the last one varies fastest and carries
// into the previous one when it passes its maximum. An empty template
// produces a single empty vector. A malformed range is a configuration error.
func Enumerate(template core.Params) ([]core.Params, error) {
	if err := template.Validate(); err != nil {
		return nil, err
	}

	params := template.Clone()
	tasks := make([]core.Params, 0, GridSize(template))

	// Values are computed from indexes so float steps do not drift
	index := make([]int, len(params))
	for i := range params {
		params[i].Value = params[i].Min
	}

	for {
		tasks = append(tasks, params.Clone())

		i := len(params) - 1
		for ; i >= 0; i-- {
			index[i]++
			if index[i] < params[i].Size() {
				params[i].Value = params[i].At(index[i])
				break
			}
			index[i] = 0
			params[i].Value = params[i].Min
		}

		if i < 0 {
			return tasks, nil
		}
	}
}

// GridSize returns the number of vectors Enumerate produces, zero for a malformed template
func GridSize(template core.Params) int {
	size := 1
	for _, param := range template {
		size *= param.Size()
	}
	return size
}

// batches splits tasks into contiguous non-empty slices of at most size vectors
func batches(tasks []core.Params, size int) [][]core.Params {
	if size <= 0 {
		size = len(tasks)
	}

	result := make([][]core.Params, 0, (len(tasks)+size-1)/max(size, 1))
	for start := 0; start < len(tasks); start += size {
		result = append(result, tasks[start:min(start+size, len(tasks))])
	}
	return result
}
