package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/spf13/cobra"
)

func buildStrategiesCmd() *cobra.Command {
	strategiesCmd := &cobra.Command{
		Use:   "strategies",
		Short: "Describe the available strategies and their parameter ranges",
		RunE:  runStrategies,
	}

	flags := strategiesCmd.Flags()
	flags.String("schedule", "", `Trading window "HH:MM-HH:MM"`)
	flags.String("timezone", "", "Location of the trading window")
	return strategiesCmd
}

func runStrategies(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	registry, err := s.registry()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Strategy", "Contract", "Multiplier", "Commission", "Schedule", "Parameters"})
	table.SetAutoWrapText(false)

	for _, name := range registry.Names() {
		definition, err := registry.Lookup(name)
		if err != nil {
			return err
		}

		// a strategy built at the template minimums exposes its contract and schedule
		instance, err := definition.Factory(definition.Params.Clone(), core.NewMarketBook())
		if err != nil {
			return err
		}

		contract := instance.Contract()
		ranges := make([]string, len(definition.Params))
		for i, param := range definition.Params {
			ranges[i] = fmt.Sprintf("%s=%g:%g:%g", param.Name, param.Min, param.Max, param.Step)
		}

		table.Append([]string{
			name,
			fmt.Sprintf("%s %s %s %s", contract.Symbol, contract.SecurityType, contract.Exchange, contract.Currency),
			fmt.Sprintf("%d", contract.GetMultiplier()),
			fmt.Sprintf("%.2f", contract.GetCommission()),
			instance.Schedule().String(),
			strings.Join(ranges, "\n"),
		})
	}

	table.Render()
	return nil
}
