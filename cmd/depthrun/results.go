package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/report"
	"github.com/raykavin/depthrun/pkg/storage"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func buildResultsCmd() *cobra.Command {
	resultsCmd := &cobra.Command{
		Use:   "results [run]",
		Short: "List archived runs or print the ranking of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResults,
	}

	flags := resultsCmd.Flags()
	flags.String("archive", "depthrun.db", "buntdb archive file")
	flags.Int("min-trades", 0, "Only results with at least this number of trades")
	flags.Float64("min-profit", 0, "Only results earning at least this net profit")
	flags.Int("top", 20, "Number of results printed")
	flags.Bool("best", false, "Best results by net profit across every archived run")
	return resultsCmd
}

func runResults(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	archive, err := storage.FromFile(v.GetString("archive"))
	if err != nil {
		return err
	}
	defer archive.Close()

	filters := []storage.ResultFilter{storage.WithMinTrades(v.GetInt("min-trades"))}
	if cmd.Flags().Changed("min-profit") {
		filters = append(filters, storage.WithMinNetProfit(v.GetFloat64("min-profit")))
	}

	out := cmd.OutOrStdout()
	top := v.GetInt("top")

	var results []core.Result
	switch {
	case v.GetBool("best"):
		results, err = archive.Best(top, filters...)
		if err == nil && len(results) > 0 {
			// runs of other strategies do not share the columns of the best one
			first := results[0].Params
			results = lo.Filter(results, func(r core.Result, _ int) bool {
				return r.Params.SameShape(first)
			})
		}
	case len(args) == 1:
		results, err = archive.Results(args[0], filters...)
	default:
		return printRuns(cmd, archive)
	}
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}
	return report.Write(report.NewTableReport(out, top), nil, results[0].Params, results)
}

func printRuns(cmd *cobra.Command, archive *storage.ResultArchive) error {
	runs, err := archive.Runs()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Run", "ID", "Strategy", "File", "Sort", "Results", "Created"})
	for _, run := range runs {
		table.Append([]string{
			run.Name,
			strings.SplitN(run.ID, "-", 2)[0],
			run.Strategy,
			run.File,
			run.Sort,
			strconv.Itoa(run.Results),
			run.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
	return nil
}
