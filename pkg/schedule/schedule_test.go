package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, loc *time.Location, clock string) int64 {
	t.Helper()
	day, err := time.ParseInLocation("2006-01-02 15:04", "2024-03-12 "+clock, loc)
	require.NoError(t, err)
	return day.UnixMilli()
}

func TestTradingSchedule_Contains(t *testing.T) {
	s, err := New("09:30", "16:00", "America/New_York")
	require.NoError(t, err)

	loc := s.Location()
	tests := []struct {
		clock    string
		expected bool
	}{
		{"09:29", false},
		{"09:30", true},
		{"12:00", true},
		{"15:59", true},
		{"16:00", false},
		{"23:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Contains(at(t, loc, tt.clock)))
		})
	}
	assert.Equal(t, "09:30-16:00 America/New_York", s.String())
}

func TestTradingSchedule_CrossesMidnight(t *testing.T) {
	s, err := New("22:00", "02:00", "")
	require.NoError(t, err)

	assert.True(t, s.Contains(at(t, time.UTC, "23:15")))
	assert.True(t, s.Contains(at(t, time.UTC, "00:00")))
	assert.True(t, s.Contains(at(t, time.UTC, "01:59")))
	assert.False(t, s.Contains(at(t, time.UTC, "02:00")))
	assert.False(t, s.Contains(at(t, time.UTC, "12:00")))
}

func TestTradingSchedule_All(t *testing.T) {
	s := All()
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(at(t, time.UTC, "03:00")))
	assert.Equal(t, "always", s.String())

	var none *TradingSchedule
	assert.True(t, none.Contains(42))
}

func TestNew_Invalid(t *testing.T) {
	for _, args := range [][3]string{
		{"9h", "16:00", ""},
		{"09:30", "25:00", ""},
		{"10:00", "10:00", ""},
		{"09:30", "16:00", "Mars/Olympus"},
	} {
		_, err := New(args[0], args[1], args[2])
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrConfiguration), err.Error())
	}
}
