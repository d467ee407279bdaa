package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/ir"
	"github.com/shaunstanislauslau/xls/jit"
	"github.com/shaunstanislauslau/xls/packed"
)

type runOptions struct {
	*rootOptions
	Func   string
	Packed bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run <file.ir> [args...]",
		Short: "Compile a function and run it once",
		Long: `Compile a function and run it once.

Arguments are IR literals matched to parameters by position, or
name=value pairs matched by name:

  xlsjit run adder.ir 0x3 0x4
  xlsjit run adder.ir 'b=0x4' 'a=0x3'
  xlsjit run pair.ir '(0x1, [0x2, 0x3])'

With --packed every argument is a hex buffer in the packed layout,
byte 0 first, and the result is printed the same way.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunction(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&opts.Func, "func", "f", "", "function to run (default: top)")
	cmd.Flags().BoolVar(&opts.Packed, "packed", false, "arguments and result are packed hex buffers")

	return cmd
}

func runFunction(cmd *cobra.Command, opts *runOptions, path string, texts []string) error {
	fn, err := loadFunction(path, opts.Func)
	if err != nil {
		return err
	}
	f, err := jit.CompileWithConfig(fn, opts.jitConfig())
	if err != nil {
		return err
	}
	defer f.Close()

	if opts.Packed {
		out, err := runPacked(f, texts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	args, err := parseArgs(fn, texts)
	if err != nil {
		return err
	}
	result, err := f.Run(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return nil
}

// runPacked decodes one hex buffer per parameter, runs f on packed views
// and returns the packed result as hex.
func runPacked(f *jit.Function, texts []string) (string, error) {
	fn := f.IR()
	if len(texts) != fn.ParamCount() {
		return "", errors.ArgCount(len(texts), fn.ParamCount())
	}
	views := make([]packed.View, 0, len(texts)+1)
	for i, p := range fn.Params() {
		size := packed.NewView(nil, 0, p.Type()).ByteCount()
		buf, err := decodeHex(p.Name(), texts[i], size)
		if err != nil {
			return "", err
		}
		views = append(views, packed.NewView(buf, 0, p.Type()))
	}
	ret := fn.ReturnType()
	out := make([]byte, packed.NewView(nil, 0, ret).ByteCount())
	views = append(views, packed.NewView(out, 0, ret))

	if err := f.RunWithPackedViews(views...); err != nil {
		return "", err
	}
	return hex.EncodeToString(out), nil
}

// describeFunction renders fn as name(param: type, ...) -> type.
func describeFunction(fn *ir.Function) string {
	s := fn.Name() + "("
	for i, p := range fn.Params() {
		if i > 0 {
			s += ", "
		}
		s += p.Name() + ": " + p.Type().String()
	}
	return s + ") -> " + fn.ReturnType().String()
}
