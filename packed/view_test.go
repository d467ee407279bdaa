package packed

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/ir"
)

func TestFlattenLayout(t *testing.T) {
	tests := []struct {
		name string
		v    ir.Value
		want []byte
	}{
		{"bits", ir.UBitsValue(0x5a, 8), []byte{0x5a}},
		{"bits lsb first", ir.UBitsValue(0x1234, 16), []byte{0x34, 0x12}},
		{
			"array element 0 lowest",
			ir.MustArrayValue(ir.UBitsValue(0x1, 4), ir.UBitsValue(0x2, 4), ir.UBitsValue(0x3, 4)),
			[]byte{0x21, 0x03},
		},
		{
			"tuple last element lowest",
			ir.TupleValue(ir.UBitsValue(0x5, 3), ir.UBitsValue(0x7f, 7)),
			[]byte{0xff, 0x02},
		},
		{
			"float32 one",
			ir.TupleValue(ir.UBitsValue(0, 1), ir.UBitsValue(127, 8), ir.UBitsValue(0, 23)),
			[]byte{0x00, 0x00, 0x80, 0x3f},
		},
		{"empty tuple", ir.TupleValue(), []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.v)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Flatten = %x, want %x", got, tt.want)
			}
			back, err := Unflatten(got, tt.v.Type())
			if err != nil {
				t.Fatalf("Unflatten: %v", err)
			}
			if !back.Equal(tt.v) {
				t.Errorf("Unflatten = %s, want %s", back, tt.v)
			}
		})
	}
}

func TestFlattenMatchesBitsToBytes(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, w := range []int{1, 2, 7, 8, 15, 64, 65, 543, 1000} {
		v := ir.RandomValue(ir.BitsType(w), r)
		if got, want := Flatten(v), v.Bits().ToBytes(); !bytes.Equal(got, want) {
			t.Errorf("width %d: Flatten = %x, ToBytes = %x", w, got, want)
		}
	}
}

func TestElementViews(t *testing.T) {
	f32 := float32Type()
	typ := ir.TupleType(ir.ArrayType(f32, 2), f32)
	buf := make([]byte, 2+typ.FlatBitCount()/8)
	root := NewView(buf, 5, typ)

	if got := root.Element(1).BitOffset(); got != 5 {
		t.Errorf("last tuple element offset = %d, want 5", got)
	}
	arr := root.Element(0)
	if got := arr.BitOffset(); got != 5+32 {
		t.Errorf("array offset = %d, want 37", got)
	}
	if got := arr.Element(1).BitOffset(); got != 5+32+32 {
		t.Errorf("array element 1 offset = %d, want 69", got)
	}
	if got := arr.Element(1).Element(0).BitOffset(); got != 5+32+32+31 {
		t.Errorf("sign bit offset = %d, want 100", got)
	}
}

func TestStorePreservesSurroundingBits(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff}
	v := BitsView(buf, 3, 10)
	if err := v.Store(ir.UBitsValue(0, 10)); err != nil {
		t.Fatalf("Store: %v", err)
	}
	want := []byte{0x07, 0xe0, 0xff}
	if !bytes.Equal(buf, want) {
		t.Errorf("buffer = %x, want %x", buf, want)
	}
	got, err := v.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if !got.Bits().Equal(bits.Zero(10)) {
		t.Errorf("Value = %s", got)
	}
}

func TestStoreValueRoundTripAtOffsets(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	typ := ir.TupleType(ir.ArrayType(float32Type(), 15), float32Type(), float32Type())
	for off := 0; off < 9; off++ {
		buf := make([]byte, byteSpan(off+typ.FlatBitCount()))
		v := ir.RandomValue(typ, r)
		view := NewView(buf, off, typ)
		if err := view.Store(v); err != nil {
			t.Fatalf("Store: %v", err)
		}
		got, err := view.Value()
		if err != nil {
			t.Fatalf("Value: %v", err)
		}
		if !got.Equal(v) {
			t.Fatalf("offset %d: round trip mismatch", off)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		view View
		ok   bool
	}{
		{"exact", BitsView(make([]byte, 2), 0, 16), true},
		{"offset spills", BitsView(make([]byte, 2), 1, 16), false},
		{"offset fits", BitsView(make([]byte, 3), 1, 16), true},
		{"negative offset", BitsView(make([]byte, 3), -1, 8), false},
		{"zero width", BitsView(nil, 0, 0), true},
		{"nil type", View{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.view.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil {
				if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindShape {
					t.Errorf("err = %v, want shape error", err)
				}
			}
		})
	}
}

func TestStoreTypeMismatch(t *testing.T) {
	v := BitsView(make([]byte, 1), 0, 8)
	err := v.Store(ir.UBitsValue(1, 7))
	if e, ok := err.(*errors.Error); !ok || e.Kind != errors.KindTypeMismatch {
		t.Fatalf("err = %v, want type mismatch", err)
	}
}
