package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/raykavin/depthrun"
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/optimizer"
	"github.com/raykavin/depthrun/pkg/progress"
	"github.com/raykavin/depthrun/pkg/report"
	"github.com/raykavin/depthrun/pkg/storage"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func buildOptimizeCmd() *cobra.Command {
	defaults := optimizer.NewConfig()

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Rank every parameter vector of a strategy over historical depth",
		RunE:  runOptimize,
	}

	flags := optimizeCmd.Flags()
	addReplayFlags(flags)
	flags.Int("min-trades", 0, "Minimum trades for a result to be ranked")
	flags.String("sort", defaults.SortCriteria.String(), "Ranking criteria: net-profit, profit-factor, max-drawdown, kelly, performance-index, trades")
	flags.Int("batch-size", defaults.BatchSize, "Parameter vectors sharing one replay of the file")
	flags.IntP("workers", "w", defaults.Workers, "Batches replayed concurrently")
	flags.StringP("method", "m", string(defaults.Method), "Optimization method: exhaustive or divide")
	flags.Int("divide-rounds", defaults.DivideRounds, "Rounds of the divide method")
	flags.Int("divide-width", defaults.DivideWidth, "Values sampled per parameter by the divide method")
	flags.StringP("report", "o", "", "Write the ranking to this CSV file")
	flags.String("archive", "", "Archive the ranking in this buntdb file")
	flags.String("run", "", "Archive name of the run, defaults to strategy and start time")
	flags.Int("top", 20, "Ranked results printed when the run completes")

	return optimizeCmd
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cfg, err := s.config()
	if err != nil {
		return err
	}

	log := depthrun.DefaultLog
	reporter, err := newReporter(s)
	if err != nil {
		return err
	}

	var sink progress.Sink = progress.NewConsoleSink(os.Stderr, log)
	if s.Quiet {
		sink = progress.NewLogSink(log)
	}

	runner, err := optimizer.NewRunner(cfg, optimizer.Env{
		Reporter: reporter,
		Errors:   optimizer.LogErrorReporter{Log: log},
		Mode:     core.ModeOptimization,
		Logger:   log,
	}, sink)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := runner.Run(cmd.Context()); err != nil {
		return err
	}
	if runner.Cancelled() {
		log.Warn("optimization cancelled, results were not saved")
		return nil
	}

	results := runner.Results()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d vectors evaluated, %d ranked by %s\n", runner.Evaluated(), len(results), cfg.SortCriteria)
	if len(results) == 0 {
		return nil
	}

	if err := report.Write(report.NewTableReport(out, s.Top), nil, results[0].Params, results); err != nil {
		return err
	}

	fmt.Fprintln(out, "------ NET PROFIT -------")
	hist := histogram.Hist(15, lo.Map(results, func(r core.Result, _ int) float64 { return r.NetProfit }))
	if err := histogram.Fprint(out, hist, histogram.Linear(10)); err != nil {
		return err
	}

	if s.Archive != "" {
		return archiveRun(s, cfg, start, results)
	}
	return nil
}

func newReporter(s settings) (report.Sink, error) {
	if s.Report == "" {
		return report.Discard, nil
	}
	return report.CreateCSVReport(s.Report)
}

func archiveRun(s settings, cfg *optimizer.Config, start time.Time, results []core.Result) error {
	archive, err := storage.FromFile(s.Archive)
	if err != nil {
		return err
	}
	defer archive.Close()

	run := storage.Run{
		Name:      s.runName(start),
		Strategy:  cfg.Strategy,
		File:      cfg.FileName,
		Sort:      cfg.SortCriteria.String(),
		CreatedAt: start.UTC(),
	}
	if err := archive.Save(run, results); err != nil {
		return err
	}

	depthrun.DefaultLog.WithField("run", run.Name).Infof("%d results archived in %s", len(results), s.Archive)
	return nil
}
