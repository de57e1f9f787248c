package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDepthFile(t *testing.T) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("time,bid_price_1,bid_size_1,ask_price_1,ask_size_1\n")
	for k := 0; k < 40; k++ {
		bidSize, askSize := 30, 10
		if k/5%2 == 1 {
			bidSize, askSize = 10, 30
		}
		mid := 4000 + float64(k%9)*0.25
		fmt.Fprintf(&sb, "%d,%.2f,%d,%.2f,%d\n", 1_000*(k+1), mid-0.25, bidSize, mid+0.25, askSize)
	}

	path := filepath.Join(t.TempDir(), "es.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOptimizeAndResults(t *testing.T) {
	file := writeDepthFile(t)
	dir := t.TempDir()
	reportFile := filepath.Join(dir, "ranking.csv")
	archiveFile := filepath.Join(dir, "runs.db")

	out, err := execute(t, "optimize",
		"--file", file,
		"--strategy", strategies.BalanceEMAName,
		"-p", "period=2:4:2",
		"-p", "entry=10",
		"-p", "exit=0",
		"--workers", "2",
		"--batch-size", "1",
		"--report", reportFile,
		"--archive", archiveFile,
		"--run", "es-test",
		"--quiet",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "2 vectors evaluated, 2 ranked by net-profit")
	assert.Contains(t, out, "NET PROFIT")

	content, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Back data file: "+file)
	assert.Contains(t, string(content), "period,entry,exit,Total P&L,Max DD,Trades,Profit Factor,Kelly,Perf Index")

	out, err = execute(t, "results", "--archive", archiveFile)
	require.NoError(t, err)
	assert.Contains(t, out, "es-test")
	assert.Contains(t, out, strategies.BalanceEMAName)

	out, err = execute(t, "results", "es-test", "--archive", archiveFile)
	require.NoError(t, err)
	assert.Contains(t, out, "PERIOD")

	_, err = execute(t, "results", "missing", "--archive", archiveFile)
	assert.Error(t, err)
}

func TestOptimize_ConfigFile(t *testing.T) {
	file := writeDepthFile(t)
	config := filepath.Join(t.TempDir(), "depthrun.yaml")
	require.NoError(t, os.WriteFile(config, []byte(fmt.Sprintf(`
file: %s
strategy: %s
sort: trades
param:
  - period=2
  - entry=10:20:10
  - exit=0
quiet: true
`, file, strategies.BalanceEMAName)), 0o600))

	out, err := execute(t, "optimize", "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, "2 vectors evaluated, 2 ranked by trades")
}

func TestOptimize_Errors(t *testing.T) {
	file := writeDepthFile(t)

	_, err := execute(t, "optimize", "--strategy", strategies.BalanceEMAName, "--quiet")
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = execute(t, "optimize", "--file", file, "--strategy", "Nope", "--quiet")
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = execute(t, "optimize", "--file", file, "--strategy", strategies.BalanceEMAName, "--sort", "sharpe", "--quiet")
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = execute(t, "optimize", "--file", file, "--strategy", strategies.BalanceEMAName, "--last", "soon", "--quiet")
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = execute(t, "optimize", "--file", file, "--strategy", strategies.BalanceEMAName, "--schedule", "9:30", "--quiet")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestBacktest(t *testing.T) {
	file := writeDepthFile(t)
	returns := filepath.Join(t.TempDir(), "returns.csv")

	out, err := execute(t, "backtest",
		"--file", file,
		"--strategy", strategies.BalanceEMAName,
		"-p", "period=2",
		"-p", "entry=10",
		"-p", "exit=0",
		"--last", "20s",
		"--returns", returns,
	)
	require.NoError(t, err)
	assert.Contains(t, out, strategies.BalanceEMAName+" {period=2,entry=10,exit=0}")

	content, err := os.ReadFile(returns)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "time,position,avg_fill_price,pnl,total_pnl\n"))
}

func TestStrategies(t *testing.T) {
	out, err := execute(t, "strategies", "--schedule", "09:30-16:00", "--timezone", "America/New_York")
	require.NoError(t, err)
	assert.Contains(t, out, strategies.BalanceEMAName)
	assert.Contains(t, out, strategies.MidMomentumName)
	assert.Contains(t, out, "ES FUT GLOBEX USD")
	assert.Contains(t, out, "09:30-16:00 America/New_York")
}
