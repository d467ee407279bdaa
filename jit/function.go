package jit

import (
	"context"
	"maps"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/internal/layout"
	"github.com/shaunstanislauslau/xls/ir"
	"github.com/shaunstanislauslau/xls/packed"
)

// Function is a compiled IR function. It is created once and may be
// invoked any number of times from any number of goroutines.
type Function struct {
	fn     *ir.Function
	prog   *Program
	abi    *ABI
	exec   executor
	closed atomic.Bool
}

// Compile compiles fn with the default configuration.
func Compile(fn *ir.Function) (*Function, error) {
	return CompileWithConfig(fn, nil)
}

// CompileWithConfig compiles fn. The returned error is a compilation error
// when fn uses an operation the JIT does not support or code generation
// fails.
func CompileWithConfig(fn *ir.Function, cfg *Config) (*Function, error) {
	if fn == nil {
		return nil, errors.InvalidInput(errors.PhaseCompile, "nil function")
	}
	backend, err := ParseBackend(string(cfg.backend()))
	if err != nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			Cause(err).
			Detail("invalid configuration").
			Build()
	}

	start := time.Now()
	calc := layout.NewCalculator()
	prog, err := lower(fn, calc)
	if err != nil {
		return nil, err
	}

	exec, err := newExecutor(context.Background(), prog, cfg, backend)
	if err != nil {
		return nil, err
	}

	f := &Function{
		fn:   fn,
		prog: prog,
		abi:  newABI(fn, prog, calc),
		exec: exec,
	}
	Logger().Debug("compiled function",
		zap.String("function", fn.Name()),
		zap.String("backend", string(exec.backend())),
		zap.Int("frame_limbs", prog.FrameLimbs),
		zap.Int("instructions", len(prog.Insts)),
		zap.Duration("elapsed", time.Since(start)))
	return f, nil
}

func newExecutor(ctx context.Context, p *Program, cfg *Config, backend Backend) (executor, error) {
	switch backend {
	case BackendClosure:
		return newClosureExec(p), nil
	case BackendNative:
		return newNativeExec(ctx, p, cfg)
	}

	if p.Uses(InstShift) {
		Logger().Debug("native backend cannot lower program, using closures",
			zap.String("reason", "dynamic shift"))
		return newClosureExec(p), nil
	}
	return newNativeExec(ctx, p, cfg)
}

// IR returns the function this artifact was compiled from.
func (f *Function) IR() *ir.Function { return f.fn }

// ABI returns the frame layout of parameters and return value.
func (f *Function) ABI() *ABI { return f.abi }

// Program returns the lowered program.
func (f *Function) Program() *Program { return f.prog }

// Backend returns the backend executing this function.
func (f *Function) Backend() Backend { return f.exec.backend() }

// Close releases the compiled code. Calls after Close fail.
func (f *Function) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	return f.exec.close(context.Background())
}

func (f *Function) checkOpen() error {
	if f.closed.Load() {
		return errors.InvalidInput(errors.PhaseInvoke, "function "+f.fn.Name()+" is closed")
	}
	return nil
}

// Run invokes the function with positional arguments.
func (f *Function) Run(args []ir.Value) (ir.Value, error) {
	if err := f.checkOpen(); err != nil {
		return ir.Value{}, err
	}
	params := f.abi.Params
	if len(args) != len(params) {
		return ir.Value{}, errors.ArgCount(len(args), len(params))
	}
	for i := range params {
		if !args[i].HasType(params[i].Type) {
			return ir.Value{}, errors.TypeMismatch(errors.PhaseInvoke,
				[]string{params[i].Name}, args[i].Type().String(), params[i].Type.String())
		}
	}

	frame := getFrame(f.prog.FrameLimbs)
	defer putFrame(frame)
	fr := *frame

	var scratch []bits.Bits
	for i := range params {
		scratch = params[i].store(fr, args[i], scratch)
	}

	if err := f.exec.exec(context.Background(), fr); err != nil {
		return ir.Value{}, err
	}
	return f.abi.Return.load(fr), nil
}

// RunNamed invokes the function with arguments keyed by parameter name.
// Every parameter must be supplied exactly once.
func (f *Function) RunNamed(args map[string]ir.Value) (ir.Value, error) {
	for _, name := range slices.Sorted(maps.Keys(args)) {
		if _, ok := f.fn.ParamIndex(name); !ok {
			return ir.Value{}, errors.UnknownArg(name)
		}
	}
	positional := make([]ir.Value, len(f.abi.Params))
	for i, p := range f.abi.Params {
		v, ok := args[p.Name]
		if !ok {
			return ir.Value{}, errors.MissingArg(p.Name)
		}
		positional[i] = v
	}
	return f.Run(positional)
}

// RunWithPackedViews invokes the function on packed buffers. views holds
// one view per parameter in declaration order followed by the output view.
// Bits of the output buffer outside the output view are preserved.
func (f *Function) RunWithPackedViews(views ...packed.View) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	params := f.abi.Params
	if len(views) != len(params)+1 {
		return errors.ArgCount(len(views), len(params)+1)
	}
	for i, v := range views {
		pa := &f.abi.Return
		if i < len(params) {
			pa = &params[i]
		}
		if err := checkView(pa, v); err != nil {
			return err
		}
	}

	frame := getFrame(f.prog.FrameLimbs)
	defer putFrame(frame)
	fr := *frame

	for i := range params {
		params[i].readView(fr, views[i])
	}
	if err := f.exec.exec(context.Background(), fr); err != nil {
		return err
	}
	f.abi.Return.writeView(fr, views[len(params)])
	return nil
}

func checkView(pa *ParamABI, v packed.View) error {
	if v.Type() == nil || !v.Type().Equal(pa.Type) {
		got := "<nil>"
		if v.Type() != nil {
			got = v.Type().String()
		}
		return errors.TypeMismatch(errors.PhaseInvoke, []string{pa.Name}, got, pa.Type.String())
	}
	if err := v.Validate(); err != nil {
		return errors.New(errors.PhaseInvoke, errors.KindShape).
			Path(pa.Name).
			Cause(err).
			Detail("invalid packed view").
			Build()
	}
	return nil
}
