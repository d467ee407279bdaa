package layout

import (
	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/ir"
)

// Info is the native frame layout of one type. All offsets are in 64-bit
// limbs relative to the start of the value.
type Info struct {
	LeafOffs []int // limb offset of each Bits leaf, declaration traversal order
	LeafLens []int // limb count of each Bits leaf
	ElemOffs []int // limb offset of each array or tuple element
	Limbs    int
}

type Calculator struct {
	cache map[*ir.Type]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*ir.Type]Info),
	}
}

// Calculate returns the layout of t. Bits[N] takes ceil(N/64) limbs; array
// elements and tuple elements are stored contiguously in index and
// declaration order respectively, with no padding.
func (c *Calculator) Calculate(t *ir.Type) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info
	switch t.Kind() {
	case ir.TypeArray:
		info = c.calculateAggregate(repeat(t.Element(), t.Size()))
	case ir.TypeTuple:
		info = c.calculateAggregate(t.TupleElements())
	default:
		n := bits.LimbCount(t.BitCount())
		info = Info{Limbs: n, LeafOffs: []int{0}, LeafLens: []int{n}}
	}

	c.cache[t] = info
	return info
}

func (c *Calculator) calculateAggregate(elems []*ir.Type) Info {
	info := Info{ElemOffs: make([]int, len(elems))}
	offset := 0
	for i, e := range elems {
		el := c.Calculate(e)
		info.ElemOffs[i] = offset
		for k, off := range el.LeafOffs {
			info.LeafOffs = append(info.LeafOffs, offset+off)
			info.LeafLens = append(info.LeafLens, el.LeafLens[k])
		}
		offset += el.Limbs
	}
	info.Limbs = offset
	return info
}

func repeat(t *ir.Type, n int) []*ir.Type {
	out := make([]*ir.Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}
