// Package schedule implements time-of-day trading windows.
package schedule

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/raykavin/depthrun/pkg/core"
)

const minutesPerDay = 24 * 60

// TradingSchedule is a daily window [start, end) in a fixed location.
// A window whose start is after its end wraps past midnight.
type TradingSchedule struct {
	start, end int // minutes from midnight
	location   *time.Location
	always     bool
}

// New parses a HH:MM-HH:MM window in the named location ("" means UTC)
func New(start, end, location string) (*TradingSchedule, error) {
	from, err := parseClock(start)
	if err != nil {
		return nil, err
	}

	to, err := parseClock(end)
	if err != nil {
		return nil, err
	}

	if from == to {
		return nil, core.ConfigurationError("empty trading window %s-%s", start, end)
	}

	loc, err := time.LoadLocation(location)
	if err != nil {
		return nil, core.ConfigurationError("trading schedule location %q: %w", location, err)
	}

	return &TradingSchedule{start: from, end: to, location: loc}, nil
}

// All returns a schedule that accepts every timestamp
func All() *TradingSchedule {
	return &TradingSchedule{location: time.UTC, always: true}
}

// Contains reports whether the unix millisecond timestamp falls inside the window
func (s *TradingSchedule) Contains(millis int64) bool {
	if s == nil || s.always {
		return true
	}

	t := time.UnixMilli(millis).In(s.location)
	minute := t.Hour()*60 + t.Minute()

	if s.start < s.end {
		return minute >= s.start && minute < s.end
	}
	return minute >= s.start || minute < s.end
}

// Location returns the time zone the window is evaluated in
func (s *TradingSchedule) Location() *time.Location {
	return s.location
}

func (s *TradingSchedule) String() string {
	if s == nil || s.always {
		return "always"
	}
	return fmt.Sprintf("%s-%s %s", formatClock(s.start), formatClock(s.end), s.location)
}

func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, core.ConfigurationError("invalid time of day %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	minutes %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
