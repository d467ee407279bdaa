package layout

import (
	"reflect"
	"testing"

	"github.com/shaunstanislauslau/xls/ir"
)

func TestCalculateBits(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		width int
		limbs int
	}{
		{0, 0},
		{1, 1},
		{64, 1},
		{65, 2},
		{1000, 16},
		{1024, 16},
	}

	for _, tc := range tests {
		info := c.Calculate(ir.BitsType(tc.width))
		if info.Limbs != tc.limbs {
			t.Errorf("bits[%d]: limbs = %d, want %d", tc.width, info.Limbs, tc.limbs)
		}
	}
}

func TestCalculateAggregates(t *testing.T) {
	c := NewCalculator()

	t.Run("array", func(t *testing.T) {
		info := c.Calculate(ir.ArrayType(ir.BitsType(113), 3))
		if info.Limbs != 6 {
			t.Errorf("limbs = %d, want 6", info.Limbs)
		}
		if !reflect.DeepEqual(info.ElemOffs, []int{0, 2, 4}) {
			t.Errorf("ElemOffs = %v", info.ElemOffs)
		}
		if !reflect.DeepEqual(info.LeafOffs, []int{0, 2, 4}) {
			t.Errorf("LeafOffs = %v", info.LeafOffs)
		}
	})

	t.Run("tuple in declaration order", func(t *testing.T) {
		typ := ir.TupleType(ir.BitsType(1), ir.ArrayType(ir.BitsType(70), 2), ir.BitsType(0), ir.BitsType(8))
		info := c.Calculate(typ)
		if info.Limbs != 6 {
			t.Errorf("limbs = %d, want 6", info.Limbs)
		}
		if !reflect.DeepEqual(info.ElemOffs, []int{0, 1, 5, 5}) {
			t.Errorf("ElemOffs = %v", info.ElemOffs)
		}
		if !reflect.DeepEqual(info.LeafOffs, []int{0, 1, 3, 5, 5}) {
			t.Errorf("LeafOffs = %v", info.LeafOffs)
		}
		if !reflect.DeepEqual(info.LeafLens, []int{1, 2, 2, 0, 1}) {
			t.Errorf("LeafLens = %v", info.LeafLens)
		}
	})

	t.Run("cached", func(t *testing.T) {
		typ := ir.ArrayType(ir.BitsType(3), 4)
		a := c.Calculate(typ)
		b := c.Calculate(typ)
		if &a.LeafOffs[0] != &b.LeafOffs[0] {
			t.Error("second Calculate should hit the cache")
		}
	})
}
