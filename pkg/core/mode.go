package core

import (
	"fmt"
	"strings"
)

// Mode is the execution mode a strategy runs in
type Mode int

const (
	ModeBacktest Mode = iota
	ModeOptimization
	ModeLive
)

func (m Mode) String() string {
	switch m {
	case ModeBacktest:
		return "backtest"
	case ModeOptimization:
		return "optimization"
	case ModeLive:
		return "live"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "backtest":
		return ModeBacktest, nil
	case "optimization", "optimize":
		return ModeOptimization, nil
	case "live":
		return ModeLive, nil
	default:
		return 0, ConfigurationError("unknown mode %q", name)
	}
}
