package packed

import (
	"strconv"

	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/ir"
)

// View describes a value of type Type stored bit-exactly in a caller-owned
// buffer starting at a bit offset. A View does not own or copy the buffer.
type View struct {
	typ *ir.Type
	buf []byte
	off int
}

// NewView describes a value of type t at bitOffset of buf.
func NewView(buf []byte, bitOffset int, t *ir.Type) View {
	return View{buf: buf, off: bitOffset, typ: t}
}

// BitsView describes a bits[width] value.
func BitsView(buf []byte, bitOffset, width int) View {
	return NewView(buf, bitOffset, ir.BitsType(width))
}

// ArrayView describes an elem[count] value; element 0 is least significant.
func ArrayView(buf []byte, bitOffset int, elem *ir.Type, count int) View {
	return NewView(buf, bitOffset, ir.ArrayType(elem, count))
}

// TupleView describes a tuple; the last element is least significant.
func TupleView(buf []byte, bitOffset int, elems ...*ir.Type) View {
	return NewView(buf, bitOffset, ir.TupleType(elems...))
}

func (v View) Buffer() []byte { return v.buf }
func (v View) BitOffset() int { return v.off }
func (v View) Type() *ir.Type { return v.typ }
func (v View) BitCount() int { return v.typ.FlatBitCount() }
func (v View) ByteCount() int { return byteSpan(v.off + v.BitCount()) }

// Element returns the view of array or tuple element i.
func (v View) Element(i int) View {
	switch v.typ.Kind() {
	case ir.TypeArray:
		e := v.typ.Element()
		return View{buf: v.buf, off: v.off + i*e.FlatBitCount(), typ: e}
	case ir.TypeTuple:
		off := v.off + v.typ.FlatBitCount()
		for j := 0; j <= i; j++ {
			off -= v.typ.TupleElement(j).FlatBitCount()
		}
		return View{buf: v.buf, off: off, typ: v.typ.TupleElement(i)}
	}
	panic("packed: Element on a bits view")
}

// Validate reports whether the buffer covers the view's bit span.
func (v View) Validate() error {
	if v.typ == nil {
		return errors.Shape(errors.PhasePack, nil, "view has no type")
	}
	if v.off < 0 {
		return errors.Shape(errors.PhasePack, nil, "negative bit offset "+strconv.Itoa(v.off))
	}
	if need := v.ByteCount(); len(v.buf) < need {
		return errors.New(errors.PhasePack, errors.KindShape).
			Got(strconv.Itoa(len(v.buf))+" bytes").
			Want(strconv.Itoa(need)+" bytes").
			Detail("buffer too small for %s at bit offset %d", v.typ, v.off).
			Build()
	}
	return nil
}

// Value decodes the viewed bits into a Value.
func (v View) Value() (ir.Value, error) {
	if err := v.Validate(); err != nil {
		return ir.Value{}, err
	}
	plan := PlanFor(v.typ)
	leaves := make([]bits.Bits, len(plan.Leaves))
	var limbs []uint64
	for i, l := range plan.Leaves {
		limbs = growLimbs(limbs, l.Width)
		ReadLimbs(v.buf, v.off+l.BitOffset, l.Width, limbs)
		leaves[i] = bits.FromLimbs(limbs, l.Width)
	}
	return Assemble(v.typ, leaves), nil
}

// Store writes val into the view, leaving bits outside the span untouched.
func (v View) Store(val ir.Value) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if !val.HasType(v.typ) {
		return errors.TypeMismatch(errors.PhasePack, nil, val.Type().String(), v.typ.String())
	}
	plan := PlanFor(v.typ)
	leaves := AppendLeaves(make([]bits.Bits, 0, len(plan.Leaves)), val)
	var limbs []uint64
	for i, l := range plan.Leaves {
		limbs = leaves[i].AppendLimbs(limbs[:0])
		WriteLimbs(v.buf, v.off+l.BitOffset, l.Width, limbs)
	}
	return nil
}

// AppendLeaves appends the Bits leaves of val in declaration traversal
// order, matching Plan.Leaves.
func AppendLeaves(dst []bits.Bits, val ir.Value) []bits.Bits {
	if val.IsBits() {
		return append(dst, val.Bits())
	}
	for _, e := range val.Elements() {
		dst = AppendLeaves(dst, e)
	}
	return dst
}

// Assemble rebuilds a value of type t from its leaves in declaration
// traversal order. It is the inverse of AppendLeaves.
func Assemble(t *ir.Type, leaves []bits.Bits) ir.Value {
	k := 0
	return assemble(t, leaves, &k)
}

func assemble(t *ir.Type, leaves []bits.Bits, k *int) ir.Value {
	switch t.Kind() {
	case ir.TypeArray:
		elems := make([]ir.Value, t.Size())
		for i := range elems {
			elems[i] = assemble(t.Element(), leaves, k)
		}
		return ir.MustArrayValue(elems...)
	case ir.TypeTuple:
		elems := make([]ir.Value, t.Size())
		for i := range elems {
			elems[i] = assemble(t.TupleElement(i), leaves, k)
		}
		return ir.TupleValue(elems...)
	}
	b := leaves[*k]
	*k++
	return ir.BitsValue(b)
}

func growLimbs(limbs []uint64, width int) []uint64 {
	n := bits.LimbCount(width)
	if cap(limbs) < n {
		return make([]uint64, n)
	}
	return limbs[:n]
}
