package progress

import (
	"github.com/raykavin/depthrun/pkg/core"
)

// Sink receives the progress of a run. Calls are best effort and may come
// from any worker, implementations must be safe for concurrent use.
type Sink interface {
	SetProgress(completed, total int64, label, eta string)
	ShowProgress(message string)
	EnableProgress()
	SetResults(results []core.Result)
	SignalCompleted()
}

// Discard is a sink that ignores every call
var Discard Sink = discard{}

type discard struct{}

func (discard) SetProgress(int64, int64, string, string) {}
func (discard) ShowProgress(string)                      {}
func (discard) EnableProgress()                          {}
func (discard) SetResults([]core.Result)                 {}
func (discard) SignalCompleted()                         {}

// Percent returns completed / total in percent, 100 for an empty run
func Percent(completed, total int64) float64 {
	if total <= 0 {
		return 100
	}
	return 100 * float64(completed) / float64(total)
}
