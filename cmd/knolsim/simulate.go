package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knolsim/internal/config"
	"github.com/conorfennell/knolsim/internal/domain"
	"github.com/conorfennell/knolsim/internal/parser"
	"github.com/conorfennell/knolsim/internal/report"
	"github.com/conorfennell/knolsim/internal/simulate"
)

var simulateFlagKeys = map[string]string{
	"seed":          "simulation.seed",
	"count":         "simulation.count",
	"max-late-days": "simulation.max_late_days",
	"script":        "simulation.script",
	"start":         "simulation.start",
	"format":        "report.format",
	"plain":         "report.plain",
	"detail":        "report.detail",
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a sequence of answers through the scheduler and print the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, simulateFlagKeys)
			if err != nil {
				return err
			}
			return runSimulate(cmd, cfg, time.Now())
		},
	}

	def := config.Default()
	flags := cmd.Flags()
	flags.Int64("seed", def.Simulation.Seed, "Seed for random answers")
	flags.Int("count", def.Simulation.Count, "Number of random answers")
	flags.Int("max-late-days", def.Simulation.MaxLateDays, "Random late days are drawn from [0, max-late-days)")
	flags.String("script", "", "Answer script to replay instead of random answers")
	flags.String("start", "", "RFC 3339 start time (default now)")
	flags.String("format", def.Report.Format, "Output format: list or json")
	flags.Bool("plain", def.Report.Plain, "Disable colours")
	flags.Int("detail", def.Report.Detail, "Also print the transition of this review index")
	return cmd
}

func runSimulate(cmd *cobra.Command, cfg *config.Config, now time.Time) error {
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	start, err := cfg.Simulation.StartTime(now)
	if err != nil {
		return err
	}

	var answers []domain.Answer
	if cfg.Simulation.Script != "" {
		answers, err = parser.ParseFile(cfg.Simulation.Script)
		if err != nil {
			return fmt.Errorf("failed to read answer script %s: %w", cfg.Simulation.Script, err)
		}
		logger.Info("replaying answer script", "path", cfg.Simulation.Script, "answers", len(answers))
	} else {
		answers = simulate.RandomAnswers(simulate.NewSource(cfg.Simulation.Seed), cfg.Simulation.Count, cfg.Simulation.MaxLateDays)
		logger.Info("generated random answers", "seed", cfg.Simulation.Seed, "answers", len(answers))
	}

	driver, err := simulate.NewDriver(cfg.Scheduler.Params(), logger)
	if err != nil {
		return err
	}
	history, err := driver.Run(start, answers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := report.Options{Plain: cfg.Report.Plain}
	switch cfg.Report.Format {
	case "json":
		err = report.WriteJSON(out, history)
	default:
		err = report.WriteList(out, history, opts)
	}
	if err != nil {
		return err
	}

	if cfg.Report.Detail >= 0 {
		fmt.Fprintln(out)
		return report.WriteDetail(out, history, cfg.Report.Detail, opts)
	}
	return nil
}
