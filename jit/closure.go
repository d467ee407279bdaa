package jit

import (
	"context"
	mathbits "math/bits"

	"github.com/shaunstanislauslau/xls/bits"
)

// step runs one instruction against a frame.
type step func(f []uint64)

// closureExec runs a program as a slice of Go closures over a frame held
// in Go memory.
type closureExec struct {
	steps []step
}

func newClosureExec(p *Program) *closureExec {
	e := &closureExec{steps: make([]step, 0, len(p.Insts))}
	for i := range p.Insts {
		e.steps = append(e.steps, compileInst(p.Insts[i]))
	}
	return e
}

func (e *closureExec) backend() Backend { return BackendClosure }

func (e *closureExec) exec(_ context.Context, f []uint64) error {
	for _, s := range e.steps {
		s(f)
	}
	return nil
}

func (e *closureExec) close(context.Context) error { return nil }

func compileInst(in Inst) step {
	dst, a, b, c, n := in.Dst, in.A, in.B, in.C, in.N
	mask := in.Mask

	switch in.Op {
	case InstCopy:
		return func(f []uint64) { copy(f[dst:dst+n], f[a:a+n]) }

	case InstZero:
		return func(f []uint64) { clear(f[dst : dst+n]) }

	case InstConst:
		imm := in.Imm
		return func(f []uint64) { copy(f[dst:dst+len(imm)], imm) }

	case InstAdd:
		return func(f []uint64) {
			var carry uint64
			for i := 0; i < n; i++ {
				f[dst+i], carry = mathbits.Add64(f[a+i], f[b+i], carry)
			}
			f[dst+n-1] &= mask
		}

	case InstSub:
		return func(f []uint64) {
			var borrow uint64
			for i := 0; i < n; i++ {
				f[dst+i], borrow = mathbits.Sub64(f[a+i], f[b+i], borrow)
			}
			f[dst+n-1] &= mask
		}

	case InstNot:
		return func(f []uint64) {
			for i := 0; i < n; i++ {
				f[dst+i] = ^f[a+i]
			}
			f[dst+n-1] &= mask
		}

	case InstAnd:
		return func(f []uint64) {
			for i := 0; i < n; i++ {
				f[dst+i] = f[a+i] & f[b+i]
			}
		}

	case InstOr:
		return func(f []uint64) {
			for i := 0; i < n; i++ {
				f[dst+i] = f[a+i] | f[b+i]
			}
		}

	case InstXor:
		return func(f []uint64) {
			for i := 0; i < n; i++ {
				f[dst+i] = f[a+i] ^ f[b+i]
			}
		}

	case InstEq:
		invert := in.Invert
		return func(f []uint64) {
			eq := true
			for i := 0; i < n && eq; i++ {
				eq = f[a+i] == f[b+i]
			}
			f[dst] = boolLimb(eq != invert)
		}

	case InstLt:
		var sign uint64
		if in.Signed && in.Width > 0 {
			sign = 1 << uint((in.Width-1)%64)
		}
		invert := in.Invert
		return func(f []uint64) {
			lt := false
			for i := n - 1; i >= 0; i-- {
				x, y := f[a+i], f[b+i]
				if i == n-1 {
					x, y = x^sign, y^sign
				}
				if x != y {
					lt = x < y
					break
				}
			}
			f[dst] = boolLimb(lt != invert)
		}

	case InstCopyBits:
		pieces := in.Pieces
		return func(f []uint64) {
			for _, p := range pieces {
				f[p.Dst] |= ((f[p.Src] >> p.SrcShift) & p.Mask) << p.DstShift
			}
		}

	case InstSignExt:
		limb, shift, fill := a+in.SignBit/64, uint(in.SignBit%64), in.Fill
		return func(f []uint64) {
			if f[limb]>>shift&1 == 0 {
				return
			}
			for _, m := range fill {
				f[m.Limb] |= m.Mask
			}
		}

	case InstReduce:
		top := bits.TopMask(in.Width)
		switch in.Reduce {
		case ReduceAnd:
			return func(f []uint64) {
				all := true
				for i := 0; i < n && all; i++ {
					want := ^uint64(0)
					if i == n-1 {
						want = top
					}
					all = f[a+i] == want
				}
				f[dst] = boolLimb(all)
			}
		case ReduceOr:
			return func(f []uint64) {
				var acc uint64
				for i := 0; i < n; i++ {
					acc |= f[a+i]
				}
				f[dst] = boolLimb(acc != 0)
			}
		default:
			return func(f []uint64) {
				ones := 0
				for i := 0; i < n; i++ {
					ones += mathbits.OnesCount64(f[a+i])
				}
				f[dst] = uint64(ones & 1)
			}
		}

	case InstShift:
		width, kind, idx := in.Width, in.Shift, in.IdxLimbs
		return func(f []uint64) {
			amt, over := readIndex(f, b, idx)
			if over || amt >= uint64(width) {
				amt = uint64(width)
			}
			shiftLimbs(f[dst:dst+n], f[a:a+n], width, int(amt), kind)
		}

	case InstIndex:
		count, idx := uint64(in.Count), in.IdxLimbs
		return func(f []uint64) {
			k, over := readIndex(f, b, idx)
			if over || k >= count {
				k = count - 1
			}
			src := a + int(k)*n
			copy(f[dst:dst+n], f[src:src+n])
		}

	case InstUpdate:
		count, idx := uint64(in.Count), in.IdxLimbs
		return func(f []uint64) {
			k, over := readIndex(f, b, idx)
			if over || k >= count {
				return
			}
			at := dst + int(k)*n
			copy(f[at:at+n], f[c:c+n])
		}

	case InstSelect:
		cases, def, idx := in.Cases, in.Default, in.IdxLimbs
		return func(f []uint64) {
			src := def
			if k, over := readIndex(f, b, idx); !over && k < uint64(len(cases)) {
				src = cases[k]
			}
			copy(f[dst:dst+n], f[src:src+n])
		}
	}
	panic("jit: no closure for " + in.Op.String())
}

func boolLimb(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// readIndex reads an unsigned index held in limbs [at, at+n). over is set
// when the value does not fit in 64 bits.
func readIndex(f []uint64, at, n int) (v uint64, over bool) {
	if n == 0 {
		return 0, false
	}
	for i := 1; i < n; i++ {
		if f[at+i] != 0 {
			return 0, true
		}
	}
	return f[at], false
}

// shiftLimbs writes src shifted by amt (0 <= amt <= width) into dst. Both
// hold width bits in len(dst) limbs and must not overlap.
func shiftLimbs(dst, src []uint64, width, amt int, kind ShiftKind) {
	n := len(dst)
	negative := width > 0 && src[(width-1)/64]>>uint((width-1)%64)&1 == 1
	clear(dst)
	if amt < width {
		ls, bs := amt/64, uint(amt%64)
		switch kind {
		case ShiftLeft:
			for i := n - 1; i >= ls; i-- {
				v := src[i-ls] << bs
				if bs > 0 && i-ls-1 >= 0 {
					v |= src[i-ls-1] >> (64 - bs)
				}
				dst[i] = v
			}
		default:
			for i := 0; i+ls < n; i++ {
				v := src[i+ls] >> bs
				if bs > 0 && i+ls+1 < n {
					v |= src[i+ls+1] << (64 - bs)
				}
				dst[i] = v
			}
		}
	}
	if kind == ShiftRightArith && negative && amt > 0 {
		for b := width - amt; b < width; {
			k := min(64-b%64, width-b)
			dst[b/64] |= lowMask(k) << uint(b%64)
			b += k
		}
	}
	if n > 0 {
		dst[n-1] &= bits.TopMask(width)
	}
}
