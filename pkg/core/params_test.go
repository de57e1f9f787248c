package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameter_Size(t *testing.T) {
	tests := []struct {
		name  string
		param Parameter
		want  int
	}{
		{"integer steps", NewParameter("a", 1, 3, 1), 3},
		{"single value", NewParameter("b", 5, 5, 1), 1},
		{"step larger than span", NewParameter("c", 0, 1, 5), 1},
		{"uneven span", NewParameter("d", 0, 10, 3), 4},
		{"fractional step", NewParameter("e", 0, 0.3, 0.1), 4},
		{"zero step", NewParameter("f", 0, 1, 0), 0},
		{"inverted range", NewParameter("g", 2, 1, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.param.Size())
		})
	}
}

func TestParameter_Validate(t *testing.T) {
	require.NoError(t, NewParameter("ok", 1, 2, 1).Validate())

	err := NewParameter("neg", 1, 2, 0).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	err = NewParameter("inverted", 3, 2, 1).Validate()
	assert.True(t, errors.Is(err, ErrConfiguration))

	err = Params{NewParameter("x", 1, 2, 1), NewParameter("x", 1, 2, 1)}.Validate()
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestParams_CloneIsIndependent(t *testing.T) {
	original := Params{NewParameter("period", 10, 20, 5)}
	clone := original.Clone()
	clone.Set("period", 15)

	assert.Equal(t, 10.0, original.Value("period"))
	assert.Equal(t, 15.0, clone.Value("period"))
	assert.True(t, original.SameShape(clone))
	assert.False(t, original.SameShape(Params{NewParameter("other", 1, 1, 1)}))
}

func TestParams_Accessors(t *testing.T) {
	params := Params{NewParameter("fast", 2, 4, 1), NewParameter("slow", 10.4, 12, 1)}

	assert.Equal(t, []string{"fast", "slow"}, params.Names())
	assert.Equal(t, []float64{2, 10.4}, params.Values())
	assert.Equal(t, 10, params.Int("slow"))
	assert.Equal(t, "{fast=2,slow=10.4}", params.String())
	assert.Zero(t, params.Value("missing"))
}
