package optimizer

import (
	"sort"
	"sync"

	"github.com/raykavin/depthrun/pkg/core"
)

// MaxResults bounds the number of ranked results kept by a run
const MaxResults = 5000

type rankedResult struct {
	core.Result
	seq uint64
}

// RankStore keeps the best results of a run under a comparator. It is safe
// for concurrent use.
type RankStore struct {
	mu       sync.Mutex
	criteria SortCriteria
	capacity int
	seq      uint64
	results  []rankedResult
}

// NewRankStore creates a store keeping at most capacity results,
// MaxResults when capacity <= 0
func NewRankStore(criteria SortCriteria, capacity int) *RankStore {
	if capacity <= 0 {
		capacity = MaxResults
	}
	return &RankStore{criteria: criteria, capacity: capacity}
}

// Insert admits a result, ties keep the insertion order
func (r *RankStore) Insert(results ...core.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, result := range results {
		r.seq++
		r.results = append(r.results, rankedResult{Result: result, seq: r.seq})
	}
}

// Snapshot sorts the store, drops everything past the capacity and returns
// a copy of the ranking
func (r *RankStore) Snapshot() []core.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.SliceStable(r.results, func(i, j int) bool {
		a, b := r.results[i], r.results[j]
		if r.criteria.better(a.Result, b.Result) {
			return true
		}
		if r.criteria.better(b.Result, a.Result) {
			return false
		}
		return a.seq < b.seq
	})

	if len(r.results) > r.capacity {
		clear(r.results[r.capacity:])
		r.results = r.results[:r.capacity]
	}

	snapshot := make([]core.Result, len(r.results))
	for i, result := range r.results {
		snapshot[i] = result.Result
	}
	return snapshot
}

// Len returns the number of stored results, at most the capacity after a snapshot
func (r *RankStore) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// Best returns the top result of the current ranking
func (r *RankStore) Best() (core.Result, bool) {
	snapshot := r.Snapshot()
	if len(snapshot) == 0 {
		return core.Result{}, false
	}
	return snapshot[0], true
}
