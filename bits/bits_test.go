package bits

import (
	"bytes"
	"math/big"
	"testing"
)

func TestUBitsTruncates(t *testing.T) {
	tests := []struct {
		v     uint64
		width int
		want  uint64
	}{
		{0x5a, 8, 0x5a},
		{0x1ff, 8, 0xff},
		{7, 2, 3},
		{1, 1, 1},
		{^uint64(0), 64, ^uint64(0)},
		{5, 0, 0},
	}

	for _, tt := range tests {
		b := UBits(tt.v, tt.width)
		got, ok := b.ToUint64()
		if !ok || got != tt.want {
			t.Errorf("UBits(%#x, %d) = %#x, want %#x", tt.v, tt.width, got, tt.want)
		}
		if b.BitCount() != tt.width {
			t.Errorf("BitCount = %d, want %d", b.BitCount(), tt.width)
		}
	}
}

func TestSBitsSignFills(t *testing.T) {
	b := SBits(-1, 130)
	for i := 0; i < 130; i++ {
		if !b.Get(i) {
			t.Fatalf("bit %d of SBits(-1, 130) is clear", i)
		}
	}
	if b.Limb(2) != 3 {
		t.Errorf("top limb = %#x, want 0x3", b.Limb(2))
	}
}

func TestToBytesLSBFirst(t *testing.T) {
	b := UBits(0x0102, 12)
	got := b.ToBytes()
	if !bytes.Equal(got, []byte{0x02, 0x01}) {
		t.Errorf("ToBytes = %x, want 0201", got)
	}

	wide := FromLimbs([]uint64{0x1122334455667788, 0x99}, 72)
	got = wide.ToBytes()
	want := []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x99}
	if !bytes.Equal(got, want) {
		t.Errorf("ToBytes = %x, want %x", got, want)
	}
	if !FromBytes(got, 72).Equal(wide) {
		t.Error("FromBytes(ToBytes(b)) != b")
	}
}

func TestFromBytesMasksExtraBits(t *testing.T) {
	b := FromBytes([]byte{0xff, 0xff}, 9)
	if v, _ := b.ToUint64(); v != 0x1ff {
		t.Errorf("got %#x, want 0x1ff", v)
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Bits
		width int
		want  *big.Int
	}{
		{"small", UBits(200, 8), UBits(100, 8), 8, big.NewInt(44)},
		{"carry across limb", FromLimbs([]uint64{^uint64(0), 0}, 65), UBits(1, 65), 65, new(big.Int).Lsh(big.NewInt(1), 64)},
		{"wraps at top", SBits(-1, 100), UBits(1, 100), 100, big.NewInt(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Add(tt.b)
			if got.Big().Cmp(tt.want) != 0 {
				t.Errorf("Add = %s, want %s", got.Big(), tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		width   int
		want    string
		wantErr bool
	}{
		{"0x5a", 8, "bits[8]:0x5a", false},
		{"90", 8, "bits[8]:0x5a", false},
		{"0b1011", 4, "bits[4]:0xb", false},
		{"-1", 8, "bits[8]:0xff", false},
		{"-128", 8, "bits[8]:0x80", false},
		{"-129", 8, "", true},
		{"256", 8, "", true},
		{"0x1_0000", 17, "bits[17]:0x10000", false},
		{"0", 0, "bits[0]:0x0", false},
		{"1", 0, "", true},
		{"zz", 8, "", true},
		{"0x", 8, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in, tt.width)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded with %s", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	b := UBits(0b1101_0110, 8)
	if got := b.Slice(2, 4); !got.Equal(UBits(0b0101, 4)) {
		t.Errorf("Slice(2,4) = %s", got)
	}
	wide := FromLimbs([]uint64{1 << 63, 1}, 70)
	if got := wide.Slice(63, 2); !got.Equal(UBits(3, 2)) {
		t.Errorf("Slice across limbs = %s", got)
	}
}

func TestBuilder(t *testing.T) {
	var bb Builder
	bb.PushBit(true)
	bb.PushBit(false)
	bb.PushBits(UBits(0b11, 2))
	got := bb.Build()
	if !got.Equal(UBits(0b1101, 4)) {
		t.Errorf("Build = %s, want bits[4]:0xd", got)
	}
	if bb.Len() != 0 {
		t.Errorf("builder not reset after Build, Len = %d", bb.Len())
	}

	for i := 0; i < 64; i++ {
		bb.PushBit(i%2 == 0)
	}
	bb.PushBits(UBits(0x3ff, 10))
	bb.PushBit(true)
	wide := bb.Build()
	if wide.BitCount() != 75 {
		t.Fatalf("BitCount = %d, want 75", wide.BitCount())
	}
	if wide.Limb(0) != 0x5555555555555555 || wide.Limb(1) != 0x7ff {
		t.Errorf("limbs = %#x %#x", wide.Limb(0), wide.Limb(1))
	}
}

func TestEqualRequiresSameWidth(t *testing.T) {
	if UBits(1, 8).Equal(UBits(1, 9)) {
		t.Error("values of different widths compare equal")
	}
	if !Zero(0).Equal(Zero(0)) {
		t.Error("zero-width values should be equal")
	}
}
