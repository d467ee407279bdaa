package ir

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
		flat int
	}{
		{BitsType(8), "bits[8]", 8},
		{BitsType(0), "bits[0]", 0},
		{ArrayType(BitsType(8), 4), "bits[8][4]", 32},
		{ArrayType(ArrayType(BitsType(3), 4), 2), "bits[3][4][2]", 24},
		{TupleType(BitsType(1), BitsType(8), BitsType(23)), "(bits[1], bits[8], bits[23])", 32},
		{TupleType(), "()", 0},
		{ArrayType(TupleType(BitsType(1), BitsType(2)), 3), "(bits[1], bits[2])[3]", 9},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.typ.FlatBitCount(); got != tt.flat {
				t.Errorf("FlatBitCount() = %d, want %d", got, tt.flat)
			}
			parsed, err := ParseType(tt.want)
			if err != nil {
				t.Fatalf("ParseType(%q): %v", tt.want, err)
			}
			if !parsed.Equal(tt.typ) {
				t.Errorf("ParseType(%q) = %s", tt.want, parsed)
			}
		})
	}
}

func TestParseTypeRejectsEmptyArray(t *testing.T) {
	if _, err := ParseType("bits[8][0]"); err == nil {
		t.Fatal("expected error for zero-length array")
	}
}

func TestPackageInterning(t *testing.T) {
	p := NewPackage("p")
	a := p.GetBitsType(8)
	b := p.GetBitsType(8)
	if a != b {
		t.Error("GetBitsType should return the same pointer for equal widths")
	}

	arr := p.GetArrayType(4, BitsType(8))
	if arr.Element() != a {
		t.Error("array element type should be interned")
	}

	tup := p.GetTupleType(BitsType(3), arr)
	if tup != p.Intern(TupleType(BitsType(3), ArrayType(BitsType(8), 4))) {
		t.Error("Intern should find the existing tuple type")
	}
	if tup.TupleElement(1) != arr {
		t.Error("tuple element type should be interned")
	}
}
