package ir

import (
	"math/rand/v2"

	"github.com/shaunstanislauslau/xls/bits"
)

// RandomValue draws a value of type t from r. Bits are drawn 64 at a time,
// array elements in index order and tuple elements in declaration order, so
// a given generator state always yields the same value.
func RandomValue(t *Type, r *rand.Rand) Value {
	switch t.kind {
	case TypeArray:
		elems := make([]Value, t.count)
		for i := range elems {
			elems[i] = RandomValue(t.elem, r)
		}
		return Value{kind: ValueArray, elems: elems}
	case TypeTuple:
		elems := make([]Value, len(t.elems))
		for i, e := range t.elems {
			elems[i] = RandomValue(e, r)
		}
		return Value{kind: ValueTuple, elems: elems}
	}
	limbs := make([]uint64, bits.LimbCount(t.width))
	for i := range limbs {
		limbs[i] = r.Uint64()
	}
	return BitsValue(bits.FromLimbs(limbs, t.width))
}

// ZeroValue returns the all-zeros value of type t.
func ZeroValue(t *Type) Value {
	switch t.kind {
	case TypeArray:
		elems := make([]Value, t.count)
		for i := range elems {
			elems[i] = ZeroValue(t.elem)
		}
		return Value{kind: ValueArray, elems: elems}
	case TypeTuple:
		elems := make([]Value, len(t.elems))
		for i, e := range t.elems {
			elems[i] = ZeroValue(e)
		}
		return Value{kind: ValueTuple, elems: elems}
	}
	return BitsValue(bits.Zero(t.width))
}
