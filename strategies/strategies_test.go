package strategies

import (
	"errors"
	"testing"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depth(t int64, bid, bidSize, ask, askSize float64) core.MarketDepth {
	return core.MarketDepth{
		Time: t,
		Bids: []core.BookLevel{{Price: bid, Size: bidSize}},
		Asks: []core.BookLevel{{Price: ask, Size: askSize}},
	}
}

func params(values map[string]float64, template core.Params) core.Params {
	p := template.Clone()
	for name, v := range values {
		p.Set(name, v)
	}
	return p
}

func TestRegister(t *testing.T) {
	registry := strategy.NewRegistry()
	require.NoError(t, Register(registry, Options{}))
	assert.Equal(t, []string{BalanceEMAName, MidMomentumName}, registry.Names())

	definition, err := registry.Lookup(BalanceEMAName)
	require.NoError(t, err)

	s, err := definition.Factory(definition.Params.Clone(), core.NewMarketBook())
	require.NoError(t, err)
	assert.Equal(t, "ES", s.Contract().Symbol)
	assert.Equal(t, 50, s.Contract().Multiplier)

	assert.Error(t, Register(registry, Options{}))
}

func TestBalanceEMA(t *testing.T) {
	book := core.NewMarketBook()
	template := balanceEMADefinition(Options{Contract: DefaultContract()}).Params
	s, err := NewBalanceEMA(params(map[string]float64{"period": 2, "entry": 20, "exit": 5}, template), book, Options{})
	require.NoError(t, err)

	step := func(d core.MarketDepth) {
		book.Add(d)
		s.UpdateIndicators()
		if s.HasValidIndicators() {
			s.OnBookChange()
		}
	}

	step(depth(1, 10, 30, 11, 10))
	assert.False(t, s.HasValidIndicators())
	assert.Zero(t, s.Position())

	// balance 50 then 50
	step(depth(2, 10, 30, 11, 10))
	assert.Equal(t, 1, s.Position())

	// strongly offered book drives the average below -entry
	for i := int64(3); i < 6; i++ {
		step(depth(i, 10, 10, 11, 90))
	}
	assert.Equal(t, -1, s.Position())

	for i := int64(6); i < 12; i++ {
		step(depth(i, 10, 10, 11, 10))
	}
	assert.Zero(t, s.Position())

	_, err = NewBalanceEMA(params(map[string]float64{"period": 0}, template), book, Options{})
	assert.True(t, errors.Is(err, core.ErrStrategy))
}

func TestMidMomentum(t *testing.T) {
	book := core.NewMarketBook()
	template := midMomentumDefinition(Options{}).Params
	s, err := NewMidMomentum(params(map[string]float64{"fast": 2, "slow": 4, "threshold": 0.1}, template), book, Options{})
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		book.Add(depth(i, 100, 1, 101, 1))
		s.UpdateIndicators()
		assert.False(t, s.HasValidIndicators())
	}

	// rising mids: fast average above slow average
	for i, bid := range []float64{101, 102, 103} {
		book.Add(depth(int64(4+i), bid, 1, bid+1, 1))
		s.UpdateIndicators()
		require.True(t, s.HasValidIndicators())
		s.OnBookChange()
	}
	assert.Greater(t, s.Momentum(), 0.1)
	assert.Equal(t, 1, s.Position())

	for i, bid := range []float64{99, 96, 93, 90} {
		book.Add(depth(int64(7+i), bid, 1, bid+1, 1))
		s.UpdateIndicators()
		s.OnBookChange()
	}
	assert.Equal(t, -1, s.Position())

	_, err = NewMidMomentum(params(map[string]float64{"fast": 5, "slow": 5}, template), book, Options{})
	assert.True(t, errors.Is(err, core.ErrStrategy))
}
