package jit

import (
	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/internal/layout"
	"github.com/shaunstanislauslau/xls/ir"
	"github.com/shaunstanislauslau/xls/packed"
)

// unsupported lists operations the lowering rejects.
var unsupported = map[ir.Op]bool{
	ir.OpUMul:            true,
	ir.OpSMul:            true,
	ir.OpUDiv:            true,
	ir.OpSDiv:            true,
	ir.OpUMod:            true,
	ir.OpSMod:            true,
	ir.OpEncode:          true,
	ir.OpDecode:          true,
	ir.OpOneHot:          true,
	ir.OpDynamicBitSlice: true,
	ir.OpInvoke:          true,
	ir.OpMap:             true,
	ir.OpCountedFor:      true,
}

type lowering struct {
	calc  *layout.Calculator
	slots map[*ir.Node]int
	prog  *Program
	node  string
}

// lower translates fn into a limb program over a frame that holds every
// parameter followed by one slot per node.
func lower(fn *ir.Function, calc *layout.Calculator) (*Program, error) {
	for _, n := range fn.Nodes() {
		if unsupported[n.Op()] {
			return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				Path(fn.Name(), n.Name()).
				Detail("operation %s is not supported by the JIT", n.Op()).
				Build()
		}
	}

	l := &lowering{
		calc:  calc,
		slots: make(map[*ir.Node]int, fn.NodeCount()),
		prog:  &Program{},
	}
	for _, p := range fn.Params() {
		l.alloc(p)
	}
	l.prog.ParamLimbs = l.prog.FrameLimbs

	for _, n := range fn.Nodes() {
		if n.Op() == ir.OpParam {
			continue
		}
		l.node = n.Name()
		dst := l.alloc(n)
		if err := l.emitNode(n, dst); err != nil {
			return nil, err
		}
	}

	ret := fn.Return()
	l.prog.ReturnOff = l.slots[ret]
	l.prog.ReturnLimbs = l.limbs(ret)
	return l.prog, nil
}

func (l *lowering) alloc(n *ir.Node) int {
	off := l.prog.FrameLimbs
	l.slots[n] = off
	l.prog.FrameLimbs += l.limbs(n)
	return off
}

func (l *lowering) temp(limbs int) int {
	off := l.prog.FrameLimbs
	l.prog.FrameLimbs += limbs
	return off
}

func (l *lowering) limbs(n *ir.Node) int {
	return l.calc.Calculate(n.Type()).Limbs
}

func (l *lowering) emit(in Inst) {
	in.Node = l.node
	l.prog.Insts = append(l.prog.Insts, in)
}

func (l *lowering) slot(n *ir.Node, i int) int {
	return l.slots[n.Operand(i)]
}

func (l *lowering) emitNode(n *ir.Node, dst int) error {
	t := n.Type()
	limbs := l.limbs(n)
	width := t.BitCount()
	mask := bits.TopMask(width)

	switch op := n.Op(); op {
	case ir.OpLiteral:
		l.emit(Inst{Op: InstConst, Dst: dst, N: limbs, Imm: nativeLimbs(l.calc, t, n.Attrs().Value)})

	case ir.OpIdentity:
		l.copy(dst, l.slot(n, 0), limbs)

	case ir.OpAdd, ir.OpSub:
		kind := InstAdd
		if op == ir.OpSub {
			kind = InstSub
		}
		if limbs > 0 {
			l.emit(Inst{Op: kind, Dst: dst, A: l.slot(n, 0), B: l.slot(n, 1), N: limbs, Mask: mask})
		}

	case ir.OpNeg:
		if limbs > 0 {
			zero := l.temp(limbs)
			l.emit(Inst{Op: InstZero, Dst: zero, N: limbs})
			l.emit(Inst{Op: InstSub, Dst: dst, A: zero, B: l.slot(n, 0), N: limbs, Mask: mask})
		}

	case ir.OpNot:
		if limbs > 0 {
			l.emit(Inst{Op: InstNot, Dst: dst, A: l.slot(n, 0), N: limbs, Mask: mask})
		}

	case ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpNand, ir.OpNor:
		if limbs == 0 {
			break
		}
		kind := map[ir.Op]Opcode{
			ir.OpAnd: InstAnd, ir.OpNand: InstAnd,
			ir.OpOr: InstOr, ir.OpNor: InstOr,
			ir.OpXor: InstXor,
		}[op]
		if len(n.Operands()) == 1 {
			l.copy(dst, l.slot(n, 0), limbs)
		} else {
			l.emit(Inst{Op: kind, Dst: dst, A: l.slot(n, 0), B: l.slot(n, 1), N: limbs})
			for i := 2; i < len(n.Operands()); i++ {
				l.emit(Inst{Op: kind, Dst: dst, A: dst, B: l.slot(n, i), N: limbs})
			}
		}
		if op == ir.OpNand || op == ir.OpNor {
			l.emit(Inst{Op: InstNot, Dst: dst, A: dst, N: limbs, Mask: mask})
		}

	case ir.OpEq, ir.OpNe:
		l.emit(Inst{
			Op:     InstEq,
			Dst:    dst,
			A:      l.slot(n, 0),
			B:      l.slot(n, 1),
			N:      l.limbs(n.Operand(0)),
			Invert: op == ir.OpNe,
		})

	case ir.OpULt, ir.OpULe, ir.OpUGt, ir.OpUGe, ir.OpSLt, ir.OpSLe, ir.OpSGt, ir.OpSGe:
		a, b := l.slot(n, 0), l.slot(n, 1)
		in := Inst{
			Op:     InstLt,
			Dst:    dst,
			N:      l.limbs(n.Operand(0)),
			Width:  n.Operand(0).Type().BitCount(),
			Signed: op >= ir.OpSLt,
		}
		switch op {
		case ir.OpULt, ir.OpSLt: // a < b
			in.A, in.B = a, b
		case ir.OpUGt, ir.OpSGt: // b < a
			in.A, in.B = b, a
		case ir.OpULe, ir.OpSLe: // !(b < a)
			in.A, in.B, in.Invert = b, a, true
		case ir.OpUGe, ir.OpSGe: // !(a < b)
			in.A, in.B, in.Invert = a, b, true
		}
		l.emit(in)

	case ir.OpShll, ir.OpShrl, ir.OpShra:
		if limbs == 0 {
			break
		}
		kind := map[ir.Op]ShiftKind{ir.OpShll: ShiftLeft, ir.OpShrl: ShiftRightLogical, ir.OpShra: ShiftRightArith}[op]
		l.emit(Inst{
			Op:       InstShift,
			Shift:    kind,
			Dst:      dst,
			A:        l.slot(n, 0),
			B:        l.slot(n, 1),
			N:        limbs,
			Width:    width,
			IdxLimbs: l.limbs(n.Operand(1)),
		})

	case ir.OpBitSlice:
		a := n.Attrs()
		l.zero(dst, limbs)
		l.copyBits(dst, 0, l.slot(n, 0), a.Start, a.Width)

	case ir.OpConcat:
		l.zero(dst, limbs)
		at := 0
		ops := n.Operands()
		for i := len(ops) - 1; i >= 0; i-- {
			w := ops[i].Type().BitCount()
			l.copyBits(dst, at, l.slots[ops[i]], 0, w)
			at += w
		}

	case ir.OpZeroExt, ir.OpSignExt:
		src := l.slot(n, 0)
		w := n.Operand(0).Type().BitCount()
		l.zero(dst, limbs)
		l.copyBits(dst, 0, src, 0, w)
		if op == ir.OpSignExt && w > 0 && width > w {
			l.emit(Inst{
				Op:      InstSignExt,
				Dst:     dst,
				A:       src,
				SignBit: w - 1,
				Fill:    fillMasks(dst, w, width),
			})
		}

	case ir.OpAndReduce, ir.OpOrReduce, ir.OpXorReduce:
		kind := map[ir.Op]ReduceKind{ir.OpAndReduce: ReduceAnd, ir.OpOrReduce: ReduceOr, ir.OpXorReduce: ReduceXor}[op]
		src := n.Operand(0)
		l.emit(Inst{
			Op:     InstReduce,
			Reduce: kind,
			Dst:    dst,
			A:      l.slots[src],
			N:      l.limbs(src),
			Width:  src.Type().BitCount(),
		})

	case ir.OpSel:
		cases := n.SelCases()
		in := Inst{
			Op:       InstSelect,
			Dst:      dst,
			B:        l.slot(n, 0),
			IdxLimbs: l.limbs(n.Operand(0)),
			N:        limbs,
			Count:    len(cases),
			Cases:    make([]int, len(cases)),
			Default:  -1,
		}
		for i, c := range cases {
			in.Cases[i] = l.slots[c]
		}
		if d, ok := n.SelDefault(); ok {
			in.Default = l.slots[d]
		}
		if limbs > 0 {
			l.emit(in)
		}

	case ir.OpArray:
		info := l.calc.Calculate(t)
		for i, o := range n.Operands() {
			l.copy(dst+info.ElemOffs[i], l.slots[o], l.limbs(o))
		}

	case ir.OpArrayIndex:
		arr := n.Operand(0)
		if limbs > 0 {
			l.emit(Inst{
				Op:       InstIndex,
				Dst:      dst,
				A:        l.slots[arr],
				B:        l.slot(n, 1),
				IdxLimbs: l.limbs(n.Operand(1)),
				Count:    arr.Type().Size(),
				N:        limbs,
			})
		}

	case ir.OpArrayUpdate:
		l.copy(dst, l.slot(n, 0), limbs)
		elemLimbs := l.limbs(n.Operand(2))
		if elemLimbs > 0 {
			l.emit(Inst{
				Op:       InstUpdate,
				Dst:      dst,
				B:        l.slot(n, 1),
				C:        l.slot(n, 2),
				IdxLimbs: l.limbs(n.Operand(1)),
				Count:    t.Size(),
				N:        elemLimbs,
			})
		}

	case ir.OpTuple:
		info := l.calc.Calculate(t)
		for i, o := range n.Operands() {
			l.copy(dst+info.ElemOffs[i], l.slots[o], l.limbs(o))
		}

	case ir.OpTupleIndex:
		src := n.Operand(0)
		info := l.calc.Calculate(src.Type())
		l.copy(dst, l.slots[src]+info.ElemOffs[n.Attrs().Index], limbs)

	default:
		return errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(n.Function().Name(), n.Name()).
			Detail("no lowering for %s", op).
			Build()
	}
	return nil
}

func (l *lowering) copy(dst, src, n int) {
	if n > 0 {
		l.emit(Inst{Op: InstCopy, Dst: dst, A: src, N: n})
	}
}

func (l *lowering) zero(dst, n int) {
	if n > 0 {
		l.emit(Inst{Op: InstZero, Dst: dst, N: n})
	}
}

// copyBits ORs width bits of src starting at srcBit into dst at dstBit.
func (l *lowering) copyBits(dst, dstBit, src, srcBit, width int) {
	if width == 0 {
		return
	}
	l.emit(Inst{Op: InstCopyBits, Dst: dst, A: src, Pieces: bitPieces(dst, dstBit, src, srcBit, width)})
}

// bitPieces splits a bit range move into chunks that never cross a limb
// boundary on either side. Offsets in the result are absolute.
func bitPieces(dst, dstBit, src, srcBit, width int) []Piece {
	var out []Piece
	for done := 0; done < width; {
		s, d := srcBit+done, dstBit+done
		n := min(64-s%64, 64-d%64, width-done)
		out = append(out, Piece{
			Dst:      dst + d/64,
			Src:      src + s/64,
			DstShift: uint(d % 64),
			SrcShift: uint(s % 64),
			Mask:     lowMask(n),
		})
		done += n
	}
	return out
}

// fillMasks returns the limb masks covering bits [from, to) of dst.
func fillMasks(dst, from, to int) []LimbMask {
	var out []LimbMask
	for b := from; b < to; {
		n := min(64-b%64, to-b)
		out = append(out, LimbMask{Limb: dst + b/64, Mask: lowMask(n) << uint(b%64)})
		b += n
	}
	return out
}

func lowMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(n) - 1
}

// nativeLimbs encodes v in the native frame layout of t.
func nativeLimbs(calc *layout.Calculator, t *ir.Type, v ir.Value) []uint64 {
	info := calc.Calculate(t)
	out := make([]uint64, info.Limbs)
	for i, leaf := range packed.AppendLeaves(nil, v) {
		off := info.LeafOffs[i]
		for k := 0; k < info.LeafLens[i]; k++ {
			out[off+k] = leaf.Limb(k)
		}
	}
	return out
}
