package progress

import (
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/logger"
)

// LogSink writes the progress to a logger
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (l *LogSink) SetProgress(completed, total int64, label, eta string) {
	l.log.WithFields(map[string]any{
		"completed": completed,
		"total":     total,
		"eta":       eta,
	}).Infof("%s %.1f%%", label, Percent(completed, total))
}

func (l *LogSink) ShowProgress(message string) { l.log.Info(message) }
func (l *LogSink) EnableProgress()             {}
func (l *LogSink) SignalCompleted()            { l.log.Debug("run completed") }

func (l *LogSink) SetResults(results []core.Result) {
	if len(results) == 0 {
		return
	}
	l.log.WithField("results", len(results)).Debugf("best so far %s", results[0].Params)
}
