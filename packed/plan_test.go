package packed

import (
	"reflect"
	"testing"

	"github.com/shaunstanislauslau/xls/ir"
)

func float32Type() *ir.Type {
	return ir.TupleType(ir.BitsType(1), ir.BitsType(8), ir.BitsType(23))
}

func TestPlanOffsets(t *testing.T) {
	tests := []struct {
		name    string
		typ     *ir.Type
		offsets []int
		widths  []int
	}{
		{"bits", ir.BitsType(13), []int{0}, []int{13}},
		{"array", ir.ArrayType(ir.BitsType(4), 3), []int{0, 4, 8}, []int{4, 4, 4}},
		{"tuple reverses", ir.TupleType(ir.BitsType(3), ir.BitsType(7)), []int{7, 0}, []int{3, 7}},
		{"float32", float32Type(), []int{31, 23, 0}, []int{1, 8, 23}},
		{
			"array of tuples",
			ir.ArrayType(ir.TupleType(ir.BitsType(1), ir.BitsType(2)), 2),
			[]int{2, 0, 5, 3},
			[]int{1, 2, 1, 2},
		},
		{
			"tuple of arrays",
			ir.TupleType(ir.ArrayType(ir.BitsType(2), 2), ir.BitsType(5)),
			[]int{5, 7, 0},
			[]int{2, 2, 5},
		},
		{"zero width", ir.TupleType(ir.BitsType(0), ir.BitsType(4)), []int{4, 0}, []int{0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PlanFor(tt.typ)
			var offsets, widths []int
			for _, l := range p.Leaves {
				offsets = append(offsets, l.BitOffset)
				widths = append(widths, l.Width)
			}
			if !reflect.DeepEqual(offsets, tt.offsets) {
				t.Errorf("offsets = %v, want %v", offsets, tt.offsets)
			}
			if !reflect.DeepEqual(widths, tt.widths) {
				t.Errorf("widths = %v, want %v", widths, tt.widths)
			}
			if p.BitCount != tt.typ.FlatBitCount() {
				t.Errorf("BitCount = %d, want %d", p.BitCount, tt.typ.FlatBitCount())
			}
		})
	}
}

func TestPlanPaths(t *testing.T) {
	p := PlanFor(ir.TupleType(ir.ArrayType(ir.BitsType(2), 2), ir.BitsType(5)))
	want := [][]int{{0, 0}, {0, 1}, {1}}
	for i, l := range p.Leaves {
		if !reflect.DeepEqual(l.Path, want[i]) {
			t.Errorf("leaf %d path = %v, want %v", i, l.Path, want[i])
		}
	}
}

func TestPlanForIsCached(t *testing.T) {
	a := PlanFor(ir.ArrayType(ir.BitsType(9), 7))
	b := PlanFor(ir.ArrayType(ir.BitsType(9), 7))
	if a != b {
		t.Error("structurally equal types should share a plan")
	}
}
