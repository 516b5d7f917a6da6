package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/bonus/internal/domain/bonus"
	"github.com/okian/bonus/internal/domain/finance"
	"github.com/okian/bonus/internal/domain/types"
	"github.com/okian/bonus/internal/loadgen"
	"github.com/okian/bonus/pkg/logger"
)

// errLoadFailed is returned when a load run finds failed, missing or wrong awards.
var errLoadFailed = errors.New("load run found failed, missing or mismatched awards")

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "bonusctl",
		Short:         "Bonus calculator and bonus service tooling",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newCalcCmd(), newFinanceCmd(), newLoadCmd())
	return root
}

func newCalcCmd() *cobra.Command {
	var (
		salary float64
		rating float64
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a bonus from salary and performance rating",
		Long: `Compute a bonus on the two-tier schedule: 10% of salary when the
performance rating is 4 or higher, 5% otherwise.

With --strict, negative salaries and ratings outside 0-5 are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc := bonus.NewCalculator(bonus.WithStrict(strict))
			res, err := calc.Compute(cmd.Context(), bonus.Input{Salary: salary, PerformanceRating: rating})
			if err != nil {
				return err
			}
			return printJSON(cmd, types.Quote{
				Salary:            res.Salary,
				PerformanceRating: res.PerformanceRating,
				Rate:              res.Rate,
				Tier:              string(res.Tier),
				Bonus:             res.Amount,
			})
		},
	}
	cmd.Flags().Float64Var(&salary, "salary", 0, "base salary")
	cmd.Flags().Float64Var(&rating, "rating", 0, "performance rating")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject out-of-range inputs")
	_ = cmd.MarkFlagRequired("salary")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func newFinanceCmd() *cobra.Command {
	var b strings.Builder
	for _, name := range finance.Names() {
		f, _ := finance.Lookup(name)
		fmt.Fprintf(&b, "  %-14s %s\n", name, strings.Join(f.Params, " "))
	}

	return &cobra.Command{
		Use:       "finance <formula> <args...>",
		Short:     "Evaluate a business finance formula",
		Long:      "Evaluate a business finance formula with positional arguments.\n\nFormulas:\n" + b.String(),
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: finance.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := finance.Lookup(args[0])
			if err != nil {
				return err
			}
			vals := make([]float64, 0, len(args)-1)
			for _, a := range args[1:] {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("argument %q: %w", a, err)
				}
				vals = append(vals, v)
			}
			result, err := f.Eval(vals...)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"formula": f.Name, "result": result})
		},
	}
}

func newLoadCmd() *cobra.Command {
	cfg := loadgen.Config{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Submit generated awards to a running service and verify them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := loadgen.Run(cmd.Context(), cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !report.OK() {
				return errLoadFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().IntVar(&cfg.Requests, "requests", loadgen.DefaultRequests, "award requests to submit")
	cmd.Flags().IntVar(&cfg.Employees, "employees", loadgen.DefaultEmployees, "distinct employee ids")
	cmd.Flags().IntVar(&cfg.Workers, "workers", loadgen.DefaultWorkers, "concurrent HTTP workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", loadgen.DefaultTimeout, "per-request timeout")
	cmd.Flags().DurationVar(&cfg.Settle, "settle", loadgen.DefaultSettle, "how long to wait for awards to be stored")
	cmd.Flags().DurationVar(&cfg.PollInterval, "poll", loadgen.DefaultPollInterval, "delay between lookups of a pending award")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "generator seed (0 = time based)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
