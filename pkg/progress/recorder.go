package progress

import (
	"sync"

	"github.com/raykavin/depthrun/pkg/core"
)

// Update is one SetProgress call
type Update struct {
	Completed, Total int64
	Label, ETA       string
}

// Recorder is a headless sink keeping every call
type Recorder struct {
	mu        sync.Mutex
	updates   []Update
	messages  []string
	results   [][]core.Result
	enabled   int
	completed int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetProgress(completed, total int64, label, eta string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, Update{Completed: completed, Total: total, Label: label, ETA: eta})
}

func (r *Recorder) ShowProgress(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *Recorder) EnableProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled++
}

func (r *Recorder) SetResults(results []core.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, results)
}

func (r *Recorder) SignalCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *Recorder) Updates() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Snapshots returns every result list received, oldest first
func (r *Recorder) Snapshots() [][]core.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]core.Result(nil), r.results...)
}

func (r *Recorder) EnabledCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

func (r *Recorder) CompletedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}
