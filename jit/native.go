package jit

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/shaunstanislauslau/xls/errors"
)

// executor runs a lowered program over a frame whose parameter region has
// been filled. On return the return region holds the result.
type executor interface {
	backend() Backend
	exec(ctx context.Context, f []uint64) error
	close(ctx context.Context) error
}

// nativeExec runs a program compiled to wasm. Each compiled function owns
// its runtime; instances are pooled so concurrent calls never share a
// linear memory.
type nativeExec struct {
	runtime    wazero.Runtime
	compiled   wazero.CompiledModule
	idle       []*nativeInstance
	maxIdle    int
	paramLimbs int
	retOff     int
	retLimbs   int
	mu         sync.Mutex
	closed     bool
}

type nativeInstance struct {
	mod api.Module
	mem api.Memory
	run api.Function
}

func newNativeExec(ctx context.Context, p *Program, cfg *Config) (*nativeExec, error) {
	mod, err := emitModule(p)
	if err != nil {
		return nil, err
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.Interpreter {
		runtimeCfg = wazero.NewRuntimeConfigInterpreter()
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := rt.CompileModule(ctx, mod.Encode())
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Codegen(err, "compile wasm module")
	}

	maxIdle := runtime.GOMAXPROCS(0)
	if cfg != nil && cfg.MaxIdleInstances > 0 {
		maxIdle = cfg.MaxIdleInstances
	}

	e := &nativeExec{
		runtime:    rt,
		compiled:   compiled,
		maxIdle:    maxIdle,
		paramLimbs: p.ParamLimbs,
		retOff:     p.ReturnOff,
		retLimbs:   p.ReturnLimbs,
	}

	// Instantiate once up front so link failures surface at compile time.
	inst, err := e.instantiate(ctx)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Codegen(err, "instantiate wasm module")
	}
	e.idle = append(e.idle, inst)
	return e, nil
}

func (e *nativeExec) backend() Backend { return BackendNative }

func (e *nativeExec) instantiate(ctx context.Context) (*nativeInstance, error) {
	// Anonymous so instances can be created in parallel
	mod, err := e.runtime.InstantiateModule(ctx, e.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, err
	}
	run := mod.ExportedFunction(exportRun)
	if run == nil {
		_ = mod.Close(ctx)
		return nil, fmt.Errorf("export %q not found", exportRun)
	}
	return &nativeInstance{mod: mod, mem: mod.Memory(), run: run}, nil
}

func (e *nativeExec) acquire(ctx context.Context) (*nativeInstance, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, errors.InvalidInput(errors.PhaseInvoke, "function is closed")
	}
	if n := len(e.idle); n > 0 {
		inst := e.idle[n-1]
		e.idle = e.idle[:n-1]
		e.mu.Unlock()
		return inst, nil
	}
	e.mu.Unlock()

	inst, err := e.instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseInvoke, errors.KindCodegen, err, "instantiate wasm module")
	}
	return inst, nil
}

func (e *nativeExec) release(ctx context.Context, inst *nativeInstance) {
	e.mu.Lock()
	if e.closed || len(e.idle) >= e.maxIdle {
		e.mu.Unlock()
		_ = inst.mod.Close(ctx)
		return
	}
	e.idle = append(e.idle, inst)
	e.mu.Unlock()
}

func (e *nativeExec) exec(ctx context.Context, f []uint64) error {
	inst, err := e.acquire(ctx)
	if err != nil {
		return err
	}
	defer e.release(ctx, inst)

	for i := 0; i < e.paramLimbs; i++ {
		if !inst.mem.WriteUint64Le(uint32(i*8), f[i]) {
			return errors.OutOfBounds(errors.PhaseInvoke, []string{"memory"}, i*8, int(inst.mem.Size()))
		}
	}
	if _, err := inst.run.Call(ctx); err != nil {
		return errors.Wrap(errors.PhaseInvoke, errors.KindCodegen, err, "native call trapped")
	}
	for i := 0; i < e.retLimbs; i++ {
		at := e.retOff + i
		v, ok := inst.mem.ReadUint64Le(uint32(at * 8))
		if !ok {
			return errors.OutOfBounds(errors.PhaseInvoke, []string{"memory"}, at*8, int(inst.mem.Size()))
		}
		f[at] = v
	}
	return nil
}

func (e *nativeExec) close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.idle = nil
	e.mu.Unlock()
	return e.runtime.Close(ctx)
}
