package optimizer

import (
	"context"
	"math"
	"testing"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/exchange"
	"github.com/raykavin/depthrun/pkg/progress"
	"github.com/raykavin/depthrun/pkg/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	assert.Equal(t, []int{0, 5, 10}, window{low: 0, high: 10}.sample(3))
	assert.Equal(t, []int{2, 3, 4}, window{low: 2, high: 4}.sample(5))
	assert.Equal(t, []int{7}, window{low: 7, high: 7}.sample(4))

	assert.Equal(t, window{low: 3, high: 8}, window{low: 0, high: 10}.narrow(5, 11))
	assert.Equal(t, window{low: 0, high: 5}, window{low: 0, high: 10}.narrow(0, 11))
	assert.Equal(t, window{low: 5, high: 10}, window{low: 0, high: 10}.narrow(10, 11))
	assert.Equal(t, window{low: 4, high: 4}, window{low: 4, high: 5}.narrow(4, 11))
}

func TestDivideAndConquer(t *testing.T) {
	registry := scriptRegistry(t, scriptOptions{})
	cfg := NewConfig().
		WithStrategy(scriptName, registry).
		WithSource(exchange.MemoryFeedFactory(testEvents(30)...)).
		WithParams(core.NewParameter("trades", 2, 22, 1), core.NewParameter("size", 1, 9, 1)).
		WithMethod(MethodDivide).
		WithDivide(4, 3).
		WithBatchSize(4).
		WithWorkers(2)

	recorder := progress.NewRecorder()
	runner, err := NewRunner(cfg, Env{Mode: core.ModeOptimization}, recorder)
	require.NoError(t, err)

	policy := NewDivideAndConquer(4, 3)
	runner.WithOptimizer(policy)
	require.NoError(t, runner.Run(context.Background()))

	visited := policy.Visited()
	require.NotEmpty(t, visited)
	assert.Equal(t, int64(len(visited)), runner.Evaluated())
	assert.Less(t, len(visited), GridSize(runner.Params()))

	seen := make(map[string]bool)
	for _, key := range visited {
		assert.False(t, seen[key], "%s evaluated twice", key)
		seen[key] = true
	}

	// every ranked vector sits on the lattice of the template
	template := runner.Params()
	for _, result := range runner.Results() {
		for _, param := range template {
			value := result.Params.Value(param.Name)
			assert.GreaterOrEqual(t, value, param.Min)
			assert.LessOrEqual(t, value, param.Max)
			steps := (value - param.Min) / param.Step
			assert.InDelta(t, math.Round(steps), steps, 1e-9)
		}
	}

	// the coarse round samples three values per dimension
	coarse := visited[:9]
	assert.Contains(t, coarse, "trades=2,size=1")
	assert.Contains(t, coarse, "trades=12,size=5")
	assert.Contains(t, coarse, "trades=22,size=9")
}

func TestDivideAndConquer_SingleVector(t *testing.T) {
	registry := scriptRegistry(t, scriptOptions{})
	cfg := NewConfig().
		WithStrategy(scriptName, registry).
		WithSource(exchange.MemoryFeedFactory(testEvents(5)...)).
		WithParams(core.NewParameter("trades", 3, 3, 1), core.NewParameter("size", 2, 2, 1)).
		WithMethod(MethodDivide)

	runner, err := NewRunner(cfg, Env{Mode: core.ModeOptimization}, nil)
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, int64(1), runner.Evaluated())
	assert.Len(t, runner.Results(), 1)
}

func TestDivideAndConquer_NextSkipsVisited(t *testing.T) {
	template := core.Params{core.NewParameter("x", 0, 99, 1), core.NewParameter("y", 0, 99, 1)}
	windows := []window{{low: 0, high: 99}, {low: 0, high: 99}}

	policy := NewDivideAndConquer(1, 60)
	policy.reset()

	tasks, err := policy.next(template, windows)
	require.NoError(t, err)
	require.Len(t, tasks, 3600)

	again, err := policy.next(template, windows)
	require.NoError(t, err)
	assert.Empty(t, again)

	visited := policy.Visited()
	require.Len(t, visited, 3600)
	assert.Equal(t, tasks[0].Key(), visited[0])
	assert.Equal(t, tasks[3599].Key(), visited[3599])
}

// peakRegistry registers a strategy whose number of trades peaks at x = peak
func peakRegistry(t *testing.T, peak int) *strategy.Registry {
	t.Helper()

	registry := strategy.NewRegistry()
	require.NoError(t, registry.Register(strategy.Definition{
		Name:   scriptName,
		Params: core.Params{core.NewParameter("x", 0, 46, 1)},
		Factory: func(params core.Params, book *core.MarketBook) (strategy.Strategy, error) {
			distance := params.Int("x") - peak
			return &script{
				Base:   strategy.NewBase(scriptName, params, book, core.Contract{Symbol: "ES", Multiplier: 1}, nil),
				trades: 60 - max(distance, -distance),
				size:   1,
			}, nil
		},
	}))
	return registry
}

func TestDivideAndConquer_ContinuesAfterRoundWithoutNewVectors(t *testing.T) {
	cfg := NewConfig().
		WithStrategy(scriptName, peakRegistry(t, 14)).
		WithSource(exchange.MemoryFeedFactory(testEvents(70)...)).
		WithSortCriteria(SortByTrades).
		WithMethod(MethodDivide).
		WithDivide(5, 4)

	runner, err := NewRunner(cfg, Env{Mode: core.ModeOptimization}, nil)
	require.NoError(t, err)

	policy := NewDivideAndConquer(5, 4)
	runner.WithOptimizer(policy)
	require.NoError(t, runner.Run(context.Background()))

	// rounds add 4, 4, 4, 0 and 1 vectors, the last one only after the empty round
	visited := policy.Visited()
	require.Len(t, visited, 13)
	assert.Equal(t, "x=13", visited[12])
	assert.Equal(t, int64(13), runner.Evaluated())

	best, ok := runner.Best()
	require.True(t, ok)
	assert.Equal(t, 14.0, best.Params.Value("x"))
	assert.Equal(t, 60, best.Trades)
}
