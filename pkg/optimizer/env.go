package optimizer

import (
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/logger"
	"github.com/raykavin/depthrun/pkg/report"
)

// Env carries the collaborators of a run
type Env struct {
	// Reporter receives the final ranking of a completed run
	Reporter report.Sink
	// Errors receives the errors aborting a run or a batch
	Errors core.ErrorReporter
	// Mode is given to every position manager, live trading is not supported
	Mode   core.Mode
	Logger logger.Logger
}

// LogErrorReporter writes reported errors to a logger
type LogErrorReporter struct {
	Log logger.Logger
}

func (l LogErrorReporter) Report(err error) {
	l.Log.WithError(err).Error("optimization error")
}

func (e Env) withDefaults() (Env, error) {
	if e.Mode == core.ModeLive {
		return e, core.ConfigurationError("%s mode is not supported by the optimizer", e.Mode)
	}
	if e.Logger == nil {
		e.Logger = logger.Nop()
	}
	if e.Reporter == nil {
		e.Reporter = report.Discard
	}
	if e.Errors == nil {
		e.Errors = LogErrorReporter{Log: e.Logger}
	}
	return e, nil
}
