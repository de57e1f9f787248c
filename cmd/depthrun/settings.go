package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/exchange"
	"github.com/raykavin/depthrun/pkg/optimizer"
	"github.com/raykavin/depthrun/pkg/schedule"
	"github.com/raykavin/depthrun/pkg/strategy"
	"github.com/raykavin/depthrun/strategies"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

const envPrefix = "DEPTHRUN"

// settings are the options shared by the replay commands. Flags override
// the environment, which overrides the config file.
type settings struct {
	File         string
	Strategy     string
	MinTrades    int
	Sort         string
	Params       []string
	BatchSize    int
	Workers      int
	Method       string
	DivideRounds int
	DivideWidth  int
	Last         time.Duration
	Report       string
	Archive      string
	Run          string
	History      int
	Slippage     float64
	Schedule     string
	Timezone     string
	Top          int
	Quiet        bool
}

func addReplayFlags(flags *pflag.FlagSet) {
	defaults := optimizer.NewConfig()

	flags.StringP("file", "f", "", "Historical market depth file (CSV)")
	flags.StringP("strategy", "s", "", "Strategy name, see the strategies command")
	flags.StringArrayP("param", "p", nil, `Parameter range "name=min:max:step" or value "name=value", repeatable`)
	flags.String("last", "", "Replay only the last period of the file (e.g. 2d, 6h)")
	flags.Int("history", defaults.BookHistory, "Market depth snapshots kept by each book")
	flags.Float64("slippage", 0, "Price slippage added to every simulated fill")
	flags.String("schedule", "", `Trading window "HH:MM-HH:MM", positions are closed outside of it`)
	flags.String("timezone", "", "Location of the trading window (e.g. America/New_York)")
	flags.BoolP("quiet", "q", false, "Log progress instead of drawing a progress bar")
}

// loadSettings merges the config file, the environment and the flags of cmd
func loadSettings(cmd *cobra.Command) (settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return settings{}, err
	}

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, core.ConfigurationError("read config %s: %w", file, err)
		}
	}

	s := settings{
		File:         v.GetString("file"),
		Strategy:     v.GetString("strategy"),
		MinTrades:    v.GetInt("min-trades"),
		Sort:         v.GetString("sort"),
		Params:       v.GetStringSlice("param"),
		BatchSize:    v.GetInt("batch-size"),
		Workers:      v.GetInt("workers"),
		Method:       v.GetString("method"),
		DivideRounds: v.GetInt("divide-rounds"),
		DivideWidth:  v.GetInt("divide-width"),
		Report:       v.GetString("report"),
		Archive:      v.GetString("archive"),
		Run:          v.GetString("run"),
		History:      v.GetInt("history"),
		Slippage:     v.GetFloat64("slippage"),
		Schedule:     v.GetString("schedule"),
		Timezone:     v.GetString("timezone"),
		Top:          v.GetInt("top"),
		Quiet:        v.GetBool("quiet"),
	}

	if last := v.GetString("last"); last != "" {
		duration, err := str2duration.ParseDuration(last)
		if err != nil {
			return settings{}, core.ConfigurationError("invalid --last %q: %w", last, err)
		}
		s.Last = duration
	}

	return s, nil
}

// registry returns the bundled strategies trading within the configured window
func (s settings) registry() (*strategy.Registry, error) {
	options := strategies.Options{Contract: strategies.DefaultContract()}

	if s.Schedule != "" {
		start, end, ok := strings.Cut(s.Schedule, "-")
		if !ok {
			return nil, core.ConfigurationError("invalid schedule %q, expected HH:MM-HH:MM", s.Schedule)
		}
		tradingSchedule, err := schedule.New(strings.TrimSpace(start), strings.TrimSpace(end), s.Timezone)
		if err != nil {
			return nil, err
		}
		options.Schedule = tradingSchedule
	}

	registry := strategy.NewRegistry()
	if err := strategies.Register(registry, options); err != nil {
		return nil, err
	}
	return registry, nil
}

// config builds the optimizer configuration
func (s settings) config() (*optimizer.Config, error) {
	if s.File == "" {
		return nil, core.ConfigurationError("the historical data file is required (--file)")
	}

	registry, err := s.registry()
	if err != nil {
		return nil, err
	}

	params, err := parseParams(s.Params)
	if err != nil {
		return nil, err
	}

	cfg := optimizer.NewConfig().
		WithFileName(s.File).
		WithStrategy(s.Strategy, registry).
		WithParams(params...).
		WithMinTrades(s.MinTrades).
		WithBookHistory(s.History).
		WithSlippage(s.Slippage)

	if s.Sort != "" {
		criteria, err := optimizer.ParseSortCriteria(s.Sort)
		if err != nil {
			return nil, err
		}
		cfg.WithSortCriteria(criteria)
	}

	if s.Method != "" {
		method, err := optimizer.ParseMethod(s.Method)
		if err != nil {
			return nil, err
		}
		cfg.WithMethod(method)
	}
	if s.BatchSize > 0 {
		cfg.WithBatchSize(s.BatchSize)
	}
	if s.Workers > 0 {
		cfg.WithWorkers(s.Workers)
	}
	if s.DivideRounds > 0 || s.DivideWidth > 0 {
		rounds, width := cfg.DivideRounds, cfg.DivideWidth
		if s.DivideRounds > 0 {
			rounds = s.DivideRounds
		}
		if s.DivideWidth > 0 {
			width = s.DivideWidth
		}
		cfg.WithDivide(rounds, width)
	}

	if s.Last > 0 {
		cfg.WithSource(exchange.DepthFeedFactory(s.File, exchange.WithLast(s.Last)))
	}

	return cfg, nil
}

// runName returns the archive name of a run started at start
func (s settings) runName(start time.Time) string {
	if s.Run != "" {
		return s.Run
	}
	return fmt.Sprintf("%s-%s", s.Strategy, start.UTC().Format("20060102T150405"))
}
