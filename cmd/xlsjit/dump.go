package main

import (
	"github.com/spf13/cobra"

	"github.com/shaunstanislauslau/xls/jit"
)

func newDumpCommand(root *rootOptions) *cobra.Command {
	var funcName string

	cmd := &cobra.Command{
		Use:   "dump <file.ir>",
		Short: "Print the frame layout and lowered program of a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := loadFunction(args[0], funcName)
			if err != nil {
				return err
			}
			f, err := jit.CompileWithConfig(fn, root.jitConfig())
			if err != nil {
				return err
			}
			defer f.Close()
			return f.Dump(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&funcName, "func", "f", "", "function to dump (default: top)")

	return cmd
}
