package main

import (
	"fmt"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/raykavin/depthrun"
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/metric"
	"github.com/raykavin/depthrun/pkg/optimizer"
	"github.com/raykavin/depthrun/pkg/progress"
	"github.com/spf13/cobra"
)

const (
	bootstrapSamples = 10000
	bootstrapSeed    = 1
)

func buildBacktestCmd() *cobra.Command {
	backtestCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay a single parameter vector and print its performance",
		Long: "Replay a single parameter vector and print its performance. Parameters given " +
			"as ranges are evaluated at their minimum.",
		RunE: runBacktest,
	}
	flags := backtestCmd.Flags()
	addReplayFlags(flags)
	flags.String("returns", "", "write the per fill returns to this CSV file")
	return backtestCmd
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cfg, err := s.config()
	if err != nil {
		return err
	}

	log := depthrun.DefaultLog
	runner, err := optimizer.NewRunner(cfg, optimizer.Env{Mode: core.ModeBacktest, Logger: log}, progress.NewLogSink(log))
	if err != nil {
		return err
	}

	bt, err := runner.Backtest(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s on %s\n", bt.Name(), bt.Params(), cfg.FileName)
	fmt.Fprintln(out, bt.Performance().String())

	if path, _ := cmd.Flags().GetString("returns"); path != "" {
		if err := bt.Performance().SaveReturns(path); err != nil {
			return core.ConfigurationError("writing returns: %w", err)
		}
	}

	returns := bt.PositionManager().TradeResults()
	if len(returns) == 0 {
		fmt.Fprintln(out, "no trades")
		return nil
	}

	fmt.Fprintln(out, "------ P&L PER FILL -------")
	hist := histogram.Hist(15, returns)
	if err := histogram.Fprint(out, hist, histogram.Linear(10)); err != nil {
		return err
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "------ CONFIDENCE INTERVAL (95%) -------")
	mean := metric.Bootstrap(returns, metric.Mean, bootstrapSamples, 0.95, bootstrapSeed)
	payoff := metric.Bootstrap(returns, metric.Payoff, bootstrapSamples, 0.95, bootstrapSeed)
	profitFactor := metric.Bootstrap(returns, metric.ProfitFactor, bootstrapSamples, 0.95, bootstrapSeed)

	fmt.Fprintf(out, "MEAN P&L:    %.2f (%.2f ~ %.2f)\n", mean.Mean, mean.Lower, mean.Upper)
	fmt.Fprintf(out, "PAYOFF:      %.2f (%.2f ~ %.2f)\n", payoff.Mean, payoff.Lower, payoff.Upper)
	fmt.Fprintf(out, "PROF.FACTOR: %.2f (%.2f ~ %.2f)\n", profitFactor.Mean, profitFactor.Lower, profitFactor.Upper)
	fmt.Fprintf(out, "SQN:         %.2f\n", bt.Performance().SQN())
	return nil
}
