// Package zerolog adapts rs/zerolog to the logger.Logger contract.
package zerolog

import (
	"fmt"

	"github.com/raykavin/depthrun/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter wraps a zerolog.Logger
type Adapter struct {
	zl *zerolog.Logger
}

// NewAdapter wraps an existing zerolog logger
func NewAdapter(zl *zerolog.Logger) *Adapter {
	return &Adapter{zl: zl}
}

func (a *Adapter) Debug(args ...any) { a.zl.Debug().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Info(args ...any)  { a.zl.Info().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Warn(args ...any)  { a.zl.Warn().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Error(args ...any) { a.zl.Error().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Fatal(args ...any) { a.zl.Fatal().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Debugf(format string, args ...any) { a.zl.Debug().Msgf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.zl.Info().Msgf(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.zl.Warn().Msgf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.zl.Error().Msgf(format, args...) }
func (a *Adapter) Fatalf(format string, args ...any) { a.zl.Fatal().Msgf(format, args...) }

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	child := a.zl.With().Stack().Err(err).Logger()
	return &Adapter{zl: &child}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	child := a.zl.With().Interface(key, value).Logger()
	return &Adapter{zl: &child}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	child := a.zl.With().Fields(fields).Logger()
	return &Adapter{zl: &child}
}

// SetLevel changes the level of this logger only.
func (a *Adapter) SetLevel(level logger.Level) {
	child := a.zl.Level(toZerologLevel(level))
	a.zl = &child
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.zl.GetLevel())
}

var levels = map[zerolog.Level]logger.Level{
	zerolog.Disabled:   logger.Disabled,
	zerolog.NoLevel:    logger.NoLevel,
	zerolog.TraceLevel: logger.TraceLevel,
	zerolog.DebugLevel: logger.DebugLevel,
	zerolog.InfoLevel:  logger.InfoLevel,
	zerolog.WarnLevel:  logger.WarnLevel,
	zerolog.ErrorLevel: logger.ErrorLevel,
	zerolog.FatalLevel: logger.FatalLevel,
}

func toLevel(level zerolog.Level) logger.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return logger.NoLevel
}

func toZerologLevel(level logger.Level) zerolog.Level {
	for zl, l := range levels {
		if l == level {
			return zl
		}
	}
	return zerolog.NoLevel
}
