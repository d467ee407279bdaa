package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaunstanislauslau/xls/internal/codec"
	"github.com/shaunstanislauslau/xls/quickcheck"
)

type replayOptions struct {
	*rootOptions
	Func     string
	Diagnose bool
}

func newReplayCommand(root *rootOptions) *cobra.Command {
	opts := &replayOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "replay <file.ir> <report.cbor>",
		Short: "Re-run the counter-example of a quickcheck report",
		Long: `Re-run the counter-example of a quickcheck report.

The function must be unchanged since the report was written. The command
exits with status 1 while the counter-example still falsifies it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.Func, "func", "f", "", "property function (default: top)")
	cmd.Flags().BoolVar(&opts.Diagnose, "diag", false, "print the report in CBOR diagnostic notation first")

	return cmd
}

func runReplay(cmd *cobra.Command, opts *replayOptions, irPath, reportPath string) error {
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "read report", err)
	}
	out := cmd.OutOrStdout()
	if opts.Diagnose {
		diag, err := codec.Diagnose(data)
		if err != nil {
			return WrapExitError(ExitCommandError, "diagnose report", err)
		}
		fmt.Fprintln(out, diag)
	}

	report, err := quickcheck.UnmarshalReport(data)
	if err != nil {
		return err
	}
	name := opts.Func
	if name == "" {
		name = report.Function
	}
	fn, err := loadFunction(irPath, name)
	if err != nil {
		return err
	}

	result, err := quickcheck.ReplayWithConfig(fn, report, opts.jitConfig())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s(%v) = %s\n", fn.Name(), report.CounterExample, result.String())
	if result.Bits().IsZero() {
		return NewExitError(ExitFailure, "counter-example still falsifies "+fn.Name())
	}
	fmt.Fprintln(out, "fixed")
	return nil
}
