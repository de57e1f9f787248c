// Package logrus adapts sirupsen/logrus to the logger.Logger contract.
package logrus

import (
	"github.com/raykavin/depthrun/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Adapter wraps a logrus entry
type Adapter struct {
	entry *logrus.Entry
	base  *logrus.Logger
}

// New wraps a logrus logger
func New(l *logrus.Logger) *Adapter {
	return &Adapter{entry: logrus.NewEntry(l), base: l}
}

func (a *Adapter) Debug(args ...any) { a.entry.Debug(args...) }
func (a *Adapter) Info(args ...any)  { a.entry.Info(args...) }
func (a *Adapter) Warn(args ...any)  { a.entry.Warn(args...) }
func (a *Adapter) Error(args ...any) { a.entry.Error(args...) }
func (a *Adapter) Fatal(args ...any) { a.entry.Fatal(args...) }

func (a *Adapter) Debugf(format string, args ...any) { a.entry.Debugf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.entry.Infof(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.entry.Warnf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.entry.Errorf(format, args...) }
func (a *Adapter) Fatalf(format string, args ...any) { a.entry.Fatalf(format, args...) }

func (a *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{entry: a.entry.WithField(key, value), base: a.base}
}

func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	return &Adapter{entry: a.entry.WithFields(fields), base: a.base}
}

func (a *Adapter) WithError(err error) logger.Logger {
	return &Adapter{entry: a.entry.WithError(err), base: a.base}
}

// SetLevel changes the level of the underlying logrus logger, shared by
// every derived adapter.
func (a *Adapter) SetLevel(level logger.Level) {
	switch level {
	case logger.TraceLevel:
		a.base.SetLevel(logrus.TraceLevel)
	case logger.DebugLevel:
		a.base.SetLevel(logrus.DebugLevel)
	case logger.InfoLevel:
		a.base.SetLevel(logrus.InfoLevel)
	case logger.WarnLevel:
		a.base.SetLevel(logrus.WarnLevel)
	case logger.ErrorLevel:
		a.base.SetLevel(logrus.ErrorLevel)
	case logger.FatalLevel, logger.Disabled:
		a.base.SetLevel(logrus.FatalLevel)
	}
}

func (a *Adapter) GetLevel() logger.Level {
	switch a.base.GetLevel() {
	case logrus.TraceLevel:
		return logger.TraceLevel
	case logrus.DebugLevel:
		return logger.DebugLevel
	case logrus.InfoLevel:
		return logger.InfoLevel
	case logrus.WarnLevel:
		return logger.WarnLevel
	case logrus.ErrorLevel:
		return logger.ErrorLevel
	case logrus.FatalLevel, logrus.PanicLevel:
		return logger.FatalLevel
	default:
		return logger.NoLevel
	}
}
