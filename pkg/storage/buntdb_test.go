package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(profit float64, trades int, period float64) core.Result {
	p := core.NewParameter("period", 1, 10, 1)
	p.Value = period
	return core.Result{Params: core.Params{p}, NetProfit: profit, Trades: trades, ProfitFactor: 1.5}
}

func TestResultArchive_SaveAndLoad(t *testing.T) {
	archive, err := FromMemory()
	require.NoError(t, err)
	defer archive.Close()

	ranked := []core.Result{result(30, 10, 3), result(20, 4, 2), result(-5, 12, 9)}
	require.NoError(t, archive.Save(Run{Name: "es-a", Strategy: "BalanceEMA"}, ranked))

	loaded, err := archive.Results("es-a")
	require.NoError(t, err)
	assert.Equal(t, ranked, loaded)

	filtered, err := archive.Results("es-a", WithMinTrades(5), WithMinNetProfit(0))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 3.0, filtered[0].Params.Value("period"))

	_, err = archive.Results("missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestResultArchive_ReplaceAndBest(t *testing.T) {
	archive, err := FromMemory()
	require.NoError(t, err)
	defer archive.Close()

	require.NoError(t, archive.Save(Run{Name: "a"}, []core.Result{result(10, 1, 1), result(5, 1, 2), result(1, 1, 3)}))
	require.NoError(t, archive.Save(Run{Name: "a"}, []core.Result{result(8, 1, 4)}))
	require.NoError(t, archive.Save(Run{Name: "b"}, []core.Result{result(50, 1, 5), result(-1, 1, 6)}))

	loaded, err := archive.Results("a")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 8.0, loaded[0].NetProfit)

	best, err := archive.Best(2)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, 50.0, best[0].NetProfit)
	assert.Equal(t, 8.0, best[1].NetProfit)

	runs, err := archive.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].Name)
	assert.Equal(t, 1, runs[0].Results)
	assert.False(t, runs[0].CreatedAt.IsZero())
	assert.Len(t, runs[0].ID, 36)
	assert.NotEqual(t, runs[0].ID, runs[1].ID)

	assert.Error(t, archive.Save(Run{Name: "bad:name"}, nil))
}

func TestResultArchive_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	archive, err := FromFile(path)
	require.NoError(t, err)
	require.NoError(t, archive.Save(Run{Name: "persisted"}, []core.Result{result(1, 2, 3)}))
	require.NoError(t, archive.Close())

	reopened, err := FromFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Results("persisted")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
