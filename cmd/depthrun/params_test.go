package main

import (
	"testing"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParam(t *testing.T) {
	for value, expected := range map[string]core.Parameter{
		"period=10:100:10": core.NewParameter("period", 10, 100, 10),
		" entry = 20 ":     core.NewParameter("entry", 20, 20, 1),
		"exit=0:5":         core.NewParameter("exit", 0, 5, 1),
		"threshold=0:1:.5": core.NewParameter("threshold", 0, 1, 0.5),
	} {
		param, err := parseParam(value)
		require.NoError(t, err, value)
		assert.Equal(t, expected, param, value)
	}

	for _, value := range []string{"period", "=1:2:1", "period=a:b:c", "period=1:2:3:4", "period=5:1:1", "period=1:5:0"} {
		_, err := parseParam(value)
		assert.ErrorIs(t, err, core.ErrConfiguration, value)
	}
}
