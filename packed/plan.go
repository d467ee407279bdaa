package packed

import (
	"sync"

	"github.com/shaunstanislauslau/xls/ir"
)

// Leaf is one Bits leaf of a flattened type.
type Leaf struct {
	Path      []int // element indices from the root
	Width     int
	BitOffset int // relative to the start of the value
}

// Plan lists the leaves of a type in declaration traversal order: array
// elements by ascending index, tuple elements by declaration order. Offsets
// follow the packed layout, so array element 0 and the last tuple element
// sit in the least significant bits.
type Plan struct {
	Type     *ir.Type
	Leaves   []Leaf
	BitCount int
}

var plans sync.Map // type string -> *Plan

// PlanFor returns the cached leaf plan for t.
func PlanFor(t *ir.Type) *Plan {
	key := t.String()
	if p, ok := plans.Load(key); ok {
		return p.(*Plan)
	}
	p := &Plan{Type: t, BitCount: t.FlatBitCount()}
	p.walk(t, 0, nil)
	actual, _ := plans.LoadOrStore(key, p)
	return actual.(*Plan)
}

func (p *Plan) walk(t *ir.Type, base int, path []int) {
	switch t.Kind() {
	case ir.TypeArray:
		w := t.Element().FlatBitCount()
		for i := 0; i < t.Size(); i++ {
			p.walk(t.Element(), base+i*w, appendPath(path, i))
		}
	case ir.TypeTuple:
		off := base + t.FlatBitCount()
		for j, e := range t.TupleElements() {
			off -= e.FlatBitCount()
			p.walk(e, off, appendPath(path, j))
		}
	default:
		p.Leaves = append(p.Leaves, Leaf{
			Path:      path,
			Width:     t.BitCount(),
			BitOffset: base,
		})
	}
}

func appendPath(path []int, i int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = i
	return out
}
