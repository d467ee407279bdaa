package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaunstanislauslau/xls/ir"
	"github.com/shaunstanislauslau/xls/quickcheck"
)

type quickCheckOptions struct {
	*rootOptions
	Func     string
	Report   string
	Seed     int64
	NumTests int64
}

func newQuickCheckCommand(root *rootOptions) *cobra.Command {
	opts := &quickCheckOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "quickcheck <file.ir>",
		Short: "Search for arguments that make a bits[1] property return 0",
		Long: `Search for arguments that make a bits[1] property return 0.

Arguments are drawn from a generator seeded with --seed, so a run is
reproducible. The command exits with status 1 when the property is
falsified. --report writes a CBOR report that replay can re-run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.Seed = root.cfg.QuickCheck.Seed
			}
			if !cmd.Flags().Changed("num-tests") {
				opts.NumTests = root.cfg.QuickCheck.NumTests
			}
			return runQuickCheck(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Func, "func", "f", "", "property function (default: top)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "generator seed")
	cmd.Flags().Int64VarP(&opts.NumTests, "num-tests", "n", 1000, "maximum number of trials")
	cmd.Flags().StringVarP(&opts.Report, "report", "o", "", "write a CBOR report to this file")

	return cmd
}

func runQuickCheck(cmd *cobra.Command, opts *quickCheckOptions, path string) error {
	fn, err := loadFunction(path, opts.Func)
	if err != nil {
		return err
	}
	res, err := quickcheck.CreateAndQuickCheckWithConfig(fn, opts.Seed, opts.NumTests, opts.jitConfig())
	if err != nil {
		return err
	}

	report := quickcheck.NewReport(fn, opts.Seed, opts.NumTests, res)
	if opts.Report != "" {
		data, err := report.Marshal()
		if err != nil {
			return WrapExitError(ExitCommandError, "encode report", err)
		}
		if err := os.WriteFile(opts.Report, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write report", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d trials (seed %d, run %s)\n", describeFunction(fn), res.Trials(), opts.Seed, report.RunID)
	args, falsified := res.CounterExample()
	if !falsified {
		fmt.Fprintln(out, "ok")
		return nil
	}
	fmt.Fprintf(out, "falsified by %s\n", formatArgs(fn, args))
	return NewExitError(ExitFailure, "property falsified")
}

func formatArgs(fn *ir.Function, args []ir.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fn.Param(i).Name() + "=" + ir.ValueText(a)
	}
	return strings.Join(parts, " ")
}
