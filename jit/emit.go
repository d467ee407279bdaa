package jit

import (
	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/internal/wasmgen"
)

// Export names of the emitted module.
const (
	exportRun    = "run"
	exportMemory = "memory"
)

// locals of the emitted function
const (
	locX  uint32 = iota // i64 operand scratch
	locY                // i64 operand scratch
	locT                // i64 partial sum or difference
	locT2               // i64 limb result
	locC                // i64 running carry or borrow
	locC1               // i64 carry out of the first half
	locK                // i32 element index
	locLt               // i32 running less-than
)

// emitModule encodes p as a single-function wasm module whose linear
// memory holds the frame starting at address 0.
func emitModule(p *Program) (*wasmgen.Module, error) {
	e := &emitter{code: &wasmgen.Code{I64Locals: 6, I32Locals: 2}}
	for i := range p.Insts {
		if err := e.inst(&p.Insts[i]); err != nil {
			return nil, err
		}
	}
	return &wasmgen.Module{
		Code:        e.code,
		FuncName:    exportRun,
		MemoryName:  exportMemory,
		MemoryPages: wasmgen.PagesFor(p.FrameLimbs * 8),
	}, nil
}

type emitter struct {
	code *wasmgen.Code
}

func addr(limb int) uint32 { return uint32(limb) * 8 }

func (e *emitter) i32(v int) { e.code.I32Const(int32(uint32(v))) }

func (e *emitter) inst(in *Inst) error {
	c := e.code
	switch in.Op {
	case InstCopy:
		e.copy(in.Dst, in.A, in.N)

	case InstZero:
		if in.N <= 2 {
			for i := 0; i < in.N; i++ {
				c.StorePrefix()
				c.I64Const(0)
				c.Store(addr(in.Dst + i))
			}
			break
		}
		e.i32(in.Dst * 8)
		e.i32(0)
		e.i32(in.N * 8)
		c.MemoryFill()

	case InstConst:
		for i, v := range in.Imm {
			c.StorePrefix()
			c.I64Const(v)
			c.Store(addr(in.Dst + i))
		}

	case InstAdd:
		c.I64Const(0)
		c.LocalSet(locC)
		for i := 0; i < in.N; i++ {
			c.Load(addr(in.A + i))
			c.LocalTee(locX)
			c.Load(addr(in.B + i))
			c.Op(wasmgen.OpI64Add)
			c.LocalTee(locT)
			c.LocalGet(locX)
			c.Op(wasmgen.OpI64LtU)
			c.Op(wasmgen.OpI64ExtendI32U)
			c.LocalSet(locC1)

			c.LocalGet(locT)
			c.LocalGet(locC)
			c.Op(wasmgen.OpI64Add)
			c.LocalTee(locT2)
			c.LocalGet(locT)
			c.Op(wasmgen.OpI64LtU)
			c.Op(wasmgen.OpI64ExtendI32U)
			c.LocalGet(locC1)
			c.Op(wasmgen.OpI64Or)
			c.LocalSet(locC)

			e.storeLimb(in.Dst+i, i == in.N-1, in.Mask)
		}

	case InstSub:
		c.I64Const(0)
		c.LocalSet(locC)
		for i := 0; i < in.N; i++ {
			c.Load(addr(in.A + i))
			c.LocalTee(locX)
			c.Load(addr(in.B + i))
			c.LocalTee(locY)
			c.Op(wasmgen.OpI64Sub)
			c.LocalSet(locT)
			c.LocalGet(locX)
			c.LocalGet(locY)
			c.Op(wasmgen.OpI64LtU)
			c.Op(wasmgen.OpI64ExtendI32U)
			c.LocalSet(locC1)

			c.LocalGet(locT)
			c.LocalGet(locC)
			c.Op(wasmgen.OpI64Sub)
			c.LocalSet(locT2)
			c.LocalGet(locT)
			c.LocalGet(locC)
			c.Op(wasmgen.OpI64LtU)
			c.Op(wasmgen.OpI64ExtendI32U)
			c.LocalGet(locC1)
			c.Op(wasmgen.OpI64Or)
			c.LocalSet(locC)

			e.storeLimb(in.Dst+i, i == in.N-1, in.Mask)
		}

	case InstNot:
		for i := 0; i < in.N; i++ {
			c.StorePrefix()
			c.Load(addr(in.A + i))
			c.I64Const(^uint64(0))
			c.Op(wasmgen.OpI64Xor)
			if i == in.N-1 && in.Mask != ^uint64(0) {
				c.I64Const(in.Mask)
				c.Op(wasmgen.OpI64And)
			}
			c.Store(addr(in.Dst + i))
		}

	case InstAnd, InstOr, InstXor:
		op := map[Opcode]byte{InstAnd: wasmgen.OpI64And, InstOr: wasmgen.OpI64Or, InstXor: wasmgen.OpI64Xor}[in.Op]
		for i := 0; i < in.N; i++ {
			c.StorePrefix()
			c.Load(addr(in.A + i))
			c.Load(addr(in.B + i))
			c.Op(op)
			c.Store(addr(in.Dst + i))
		}

	case InstEq:
		c.StorePrefix()
		c.I64Const(0)
		for i := 0; i < in.N; i++ {
			c.Load(addr(in.A + i))
			c.Load(addr(in.B + i))
			c.Op(wasmgen.OpI64Xor)
			c.Op(wasmgen.OpI64Or)
		}
		c.Op(wasmgen.OpI64Eqz)
		if in.Invert {
			c.Op(wasmgen.OpI32Eqz)
		}
		c.Op(wasmgen.OpI64ExtendI32U)
		c.Store(addr(in.Dst))

	case InstLt:
		var sign uint64
		if in.Signed && in.Width > 0 {
			sign = 1 << uint((in.Width-1)%64)
		}
		c.I32Const(0)
		c.LocalSet(locLt)
		for i := 0; i < in.N; i++ {
			flip := uint64(0)
			if i == in.N-1 {
				flip = sign
			}
			e.loadFlipped(in.A+i, flip)
			c.LocalSet(locX)
			e.loadFlipped(in.B+i, flip)
			c.LocalSet(locY)

			c.LocalGet(locX)
			c.LocalGet(locY)
			c.Op(wasmgen.OpI64LtU)
			c.LocalGet(locX)
			c.LocalGet(locY)
			c.Op(wasmgen.OpI64Eq)
			c.LocalGet(locLt)
			c.Op(wasmgen.OpI32And)
			c.Op(wasmgen.OpI32Or)
			c.LocalSet(locLt)
		}
		c.StorePrefix()
		c.LocalGet(locLt)
		if in.Invert {
			c.Op(wasmgen.OpI32Eqz)
		}
		c.Op(wasmgen.OpI64ExtendI32U)
		c.Store(addr(in.Dst))

	case InstCopyBits:
		for _, p := range in.Pieces {
			c.StorePrefix()
			c.Load(addr(p.Dst))
			c.Load(addr(p.Src))
			if p.SrcShift > 0 {
				c.I64Const(uint64(p.SrcShift))
				c.Op(wasmgen.OpI64ShrU)
			}
			if p.Mask != ^uint64(0) {
				c.I64Const(p.Mask)
				c.Op(wasmgen.OpI64And)
			}
			if p.DstShift > 0 {
				c.I64Const(uint64(p.DstShift))
				c.Op(wasmgen.OpI64Shl)
			}
			c.Op(wasmgen.OpI64Or)
			c.Store(addr(p.Dst))
		}

	case InstSignExt:
		c.Load(addr(in.A + in.SignBit/64))
		c.I64Const(uint64(in.SignBit % 64))
		c.Op(wasmgen.OpI64ShrU)
		c.I64Const(1)
		c.Op(wasmgen.OpI64And)
		c.Op(wasmgen.OpI32WrapI64)
		c.If()
		for _, m := range in.Fill {
			c.StorePrefix()
			c.Load(addr(m.Limb))
			c.I64Const(m.Mask)
			c.Op(wasmgen.OpI64Or)
			c.Store(addr(m.Limb))
		}
		c.End()

	case InstReduce:
		e.reduce(in)

	case InstIndex:
		e.index(in.B, in.IdxLimbs, in.Count)
		e.i32(in.Dst * 8)
		e.i32(in.A * 8)
		c.LocalGet(locK)
		e.i32(in.N * 8)
		c.Op(wasmgen.OpI32Mul)
		c.Op(wasmgen.OpI32Add)
		e.i32(in.N * 8)
		c.MemoryCopy()

	case InstUpdate:
		if in.IdxLimbs == 0 {
			e.copy(in.Dst, in.C, in.N)
			break
		}
		c.Load(addr(in.B))
		c.LocalSet(locX)
		e.inRange(in.B, in.IdxLimbs, in.Count)
		c.If()
		e.i32(in.Dst * 8)
		c.LocalGet(locX)
		c.Op(wasmgen.OpI32WrapI64)
		e.i32(in.N * 8)
		c.Op(wasmgen.OpI32Mul)
		c.Op(wasmgen.OpI32Add)
		e.i32(in.C * 8)
		e.i32(in.N * 8)
		c.MemoryCopy()
		c.End()

	case InstSelect:
		e.selectCase(in)

	default:
		return errors.Unsupported(errors.PhaseCompile, "native backend cannot lower "+in.Op.String())
	}
	return nil
}

// storeLimb stores locT2 at limb, masking it when it is the top limb.
func (e *emitter) storeLimb(limb int, top bool, mask uint64) {
	c := e.code
	c.StorePrefix()
	c.LocalGet(locT2)
	if top && mask != ^uint64(0) {
		c.I64Const(mask)
		c.Op(wasmgen.OpI64And)
	}
	c.Store(addr(limb))
}

func (e *emitter) loadFlipped(limb int, flip uint64) {
	e.code.Load(addr(limb))
	if flip != 0 {
		e.code.I64Const(flip)
		e.code.Op(wasmgen.OpI64Xor)
	}
}

func (e *emitter) copy(dst, src, n int) {
	c := e.code
	if n <= 2 {
		for i := 0; i < n; i++ {
			c.StorePrefix()
			c.Load(addr(src + i))
			c.Store(addr(dst + i))
		}
		return
	}
	e.i32(dst * 8)
	e.i32(src * 8)
	e.i32(n * 8)
	c.MemoryCopy()
}

func (e *emitter) reduce(in *Inst) {
	c := e.code
	c.StorePrefix()
	switch in.Reduce {
	case ReduceAnd:
		c.I32Const(1)
		for i := 0; i < in.N; i++ {
			want := ^uint64(0)
			if i == in.N-1 {
				want = bits.TopMask(in.Width)
			}
			c.Load(addr(in.A + i))
			c.I64Const(want)
			c.Op(wasmgen.OpI64Eq)
			c.Op(wasmgen.OpI32And)
		}
		c.Op(wasmgen.OpI64ExtendI32U)
	case ReduceOr:
		c.I64Const(0)
		for i := 0; i < in.N; i++ {
			c.Load(addr(in.A + i))
			c.Op(wasmgen.OpI64Or)
		}
		c.I64Const(0)
		c.Op(wasmgen.OpI64Ne)
		c.Op(wasmgen.OpI64ExtendI32U)
	default:
		c.I64Const(0)
		for i := 0; i < in.N; i++ {
			c.Load(addr(in.A + i))
			c.Op(wasmgen.OpI64Popcnt)
			c.Op(wasmgen.OpI64Add)
		}
		c.I64Const(1)
		c.Op(wasmgen.OpI64And)
	}
	c.Store(addr(in.Dst))
}

// index leaves the clamped element index of the selector at limb b in locK.
func (e *emitter) index(b, limbs, count int) {
	c := e.code
	if limbs == 0 {
		c.I32Const(0)
		c.LocalSet(locK)
		return
	}
	c.Load(addr(b))
	c.LocalSet(locX)
	e.i32(count - 1)
	c.LocalGet(locX)
	c.Op(wasmgen.OpI32WrapI64)
	c.LocalGet(locX)
	c.I64Const(uint64(count - 1))
	c.Op(wasmgen.OpI64GtU)
	for i := 1; i < limbs; i++ {
		c.Load(addr(b + i))
		c.I64Const(0)
		c.Op(wasmgen.OpI64Ne)
		c.Op(wasmgen.OpI32Or)
	}
	c.Op(wasmgen.OpSelect)
	c.LocalSet(locK)
}

// inRange pushes whether the selector held in locX (low limb) and the limbs
// above b is below count.
func (e *emitter) inRange(b, limbs, count int) {
	c := e.code
	c.LocalGet(locX)
	c.I64Const(uint64(count))
	c.Op(wasmgen.OpI64LtU)
	for i := 1; i < limbs; i++ {
		c.Load(addr(b + i))
		c.Op(wasmgen.OpI64Eqz)
		c.Op(wasmgen.OpI32And)
	}
}

func (e *emitter) selectCase(in *Inst) {
	c := e.code
	if in.IdxLimbs == 0 {
		e.copy(in.Dst, in.Cases[0], in.N)
		return
	}
	c.Load(addr(in.B))
	c.LocalSet(locX)
	c.LocalGet(locX)
	c.Op(wasmgen.OpI32WrapI64)
	e.i32(len(in.Cases))
	e.inRange(in.B, in.IdxLimbs, len(in.Cases))
	c.Op(wasmgen.OpSelect)
	c.LocalSet(locK)

	branches := in.Cases
	final := in.Default
	if final < 0 {
		branches, final = in.Cases[:len(in.Cases)-1], in.Cases[len(in.Cases)-1]
	}
	for i, src := range branches {
		c.LocalGet(locK)
		e.i32(i)
		c.Op(wasmgen.OpI32Eq)
		c.If()
		e.copy(in.Dst, src, in.N)
		c.Else()
	}
	e.copy(in.Dst, final, in.N)
	for range branches {
		c.End()
	}
}
