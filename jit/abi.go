package jit

import (
	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/internal/layout"
	"github.com/shaunstanislauslau/xls/ir"
	"github.com/shaunstanislauslau/xls/packed"
)

// LeafABI places one Bits leaf both in the native frame and in the packed
// encoding of its parameter.
type LeafABI struct {
	Limb      int // absolute limb offset in the frame
	Limbs     int
	Width     int
	BitOffset int // packed bit offset relative to the parameter start
}

// ParamABI describes where one parameter (or the return value) lives.
type ParamABI struct {
	Name     string
	Type     *ir.Type
	Leaves   []LeafABI
	Offset   int // frame limb offset
	Limbs    int
	FlatBits int
}

// ABI is the calling convention of a compiled function.
type ABI struct {
	Params     []ParamABI
	Return     ParamABI
	FrameLimbs int
	ParamLimbs int
}

func newABI(fn *ir.Function, p *Program, calc *layout.Calculator) *ABI {
	abi := &ABI{
		Params:     make([]ParamABI, 0, fn.ParamCount()),
		FrameLimbs: p.FrameLimbs,
		ParamLimbs: p.ParamLimbs,
	}
	off := 0
	for _, param := range fn.Params() {
		pa := paramABI(param.Name(), param.Type(), off, calc)
		abi.Params = append(abi.Params, pa)
		off += pa.Limbs
	}
	abi.Return = paramABI("return", fn.ReturnType(), p.ReturnOff, calc)
	return abi
}

func paramABI(name string, t *ir.Type, off int, calc *layout.Calculator) ParamABI {
	info := calc.Calculate(t)
	plan := packed.PlanFor(t)
	pa := ParamABI{
		Name:     name,
		Type:     t,
		Offset:   off,
		Limbs:    info.Limbs,
		FlatBits: t.FlatBitCount(),
		Leaves:   make([]LeafABI, len(plan.Leaves)),
	}
	for i, l := range plan.Leaves {
		pa.Leaves[i] = LeafABI{
			Limb:      off + info.LeafOffs[i],
			Limbs:     info.LeafLens[i],
			Width:     l.Width,
			BitOffset: l.BitOffset,
		}
	}
	return pa
}

// store writes the leaves of v into the frame.
func (pa *ParamABI) store(f []uint64, v ir.Value, scratch []bits.Bits) []bits.Bits {
	scratch = packed.AppendLeaves(scratch[:0], v)
	for i, l := range pa.Leaves {
		leaf := scratch[i]
		for k := 0; k < l.Limbs; k++ {
			f[l.Limb+k] = leaf.Limb(k)
		}
	}
	return scratch
}

// load reads a boxed value out of the frame.
func (pa *ParamABI) load(f []uint64) ir.Value {
	leaves := make([]bits.Bits, len(pa.Leaves))
	for i, l := range pa.Leaves {
		leaves[i] = bits.FromLimbs(f[l.Limb:l.Limb+l.Limbs], l.Width)
	}
	return packed.Assemble(pa.Type, leaves)
}

// readView copies the bits of a packed view into the frame.
func (pa *ParamABI) readView(f []uint64, v packed.View) {
	buf, off := v.Buffer(), v.BitOffset()
	for _, l := range pa.Leaves {
		packed.ReadLimbs(buf, off+l.BitOffset, l.Width, f[l.Limb:])
	}
}

// writeView copies the frame bits of the value into a packed view.
func (pa *ParamABI) writeView(f []uint64, v packed.View) {
	buf, off := v.Buffer(), v.BitOffset()
	for _, l := range pa.Leaves {
		packed.WriteLimbs(buf, off+l.BitOffset, l.Width, f[l.Limb:])
	}
}
