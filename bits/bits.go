// Package bits implements fixed-width bit vectors of arbitrary width.
//
// A Bits value is immutable. Bits are stored in little-endian 64-bit limbs
// and every bit above the width is kept zero, so limb slices can be moved
// into and out of native frames without masking on the read side.
package bits

import (
	"math/big"
	mbits "math/bits"
	"strconv"
	"strings"

	"github.com/shaunstanislauslau/xls/errors"
)

// Bits is an immutable bit vector with a fixed width.
type Bits struct {
	limbs []uint64
	width int
}

// LimbCount returns the number of 64-bit limbs that hold width bits.
func LimbCount(width int) int {
	return (width + 63) / 64
}

// TopMask returns the mask of valid bits in the most significant limb of a
// value of the given width. It is all ones when width is a multiple of 64.
func TopMask(width int) uint64 {
	if r := width % 64; r != 0 {
		return (uint64(1) << r) - 1
	}
	return ^uint64(0)
}

// Zero returns the all-zeros value of the given width.
func Zero(width int) Bits {
	if width < 0 {
		panic("bits: negative width")
	}
	return Bits{width: width, limbs: make([]uint64, LimbCount(width))}
}

// FromLimbs builds a value from little-endian limbs. Missing limbs are zero
// and bits above the width are discarded. The slice is copied.
func FromLimbs(limbs []uint64, width int) Bits {
	b := Zero(width)
	copy(b.limbs, limbs)
	b.normalize()
	return b
}

// UBits returns v truncated to width bits.
func UBits(v uint64, width int) Bits {
	b := Zero(width)
	if len(b.limbs) > 0 {
		b.limbs[0] = v
	}
	b.normalize()
	return b
}

// SBits returns the two's complement encoding of v truncated to width bits.
func SBits(v int64, width int) Bits {
	b := Zero(width)
	fill := uint64(0)
	if v < 0 {
		fill = ^uint64(0)
	}
	for i := range b.limbs {
		b.limbs[i] = fill
	}
	if len(b.limbs) > 0 {
		b.limbs[0] = uint64(v)
	}
	b.normalize()
	return b
}

// FromBytes decodes an LSB-first byte buffer: bit j of byte i is bit 8*i+j
// of the result. Short buffers are zero extended, extra bits are dropped.
func FromBytes(buf []byte, width int) Bits {
	b := Zero(width)
	for i, by := range buf {
		limb := i / 8
		if limb >= len(b.limbs) {
			break
		}
		b.limbs[limb] |= uint64(by) << (8 * (i % 8))
	}
	b.normalize()
	return b
}

// FromBig returns v modulo 2^width. Negative values wrap to their two's
// complement encoding.
func FromBig(v *big.Int, width int) Bits {
	if width == 0 {
		return Zero(0)
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	r := new(big.Int).Mod(v, m)
	be := r.FillBytes(make([]byte, (width+7)/8))
	reverse(be)
	return FromBytes(be, width)
}

// Parse parses a decimal, 0x hexadecimal or 0b binary literal, optionally
// negative, into a value of the given width. Underscores are ignored.
func Parse(s string, width int) (Bits, error) {
	text := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	neg := strings.HasPrefix(text, "-")
	if neg {
		text = text[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		base, text = 16, text[2:]
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		base, text = 2, text[2:]
	}
	v, ok := new(big.Int).SetString(text, base)
	if !ok || text == "" {
		return Bits{}, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Value(s).
			Detail("invalid number literal %q", s).
			Build()
	}
	if neg {
		if v.Sign() != 0 {
			// -2^(w-1) is the most negative value that fits.
			mag := new(big.Int).Sub(v, big.NewInt(1))
			if width == 0 || mag.BitLen() > width-1 {
				return Bits{}, overflow(s, width)
			}
		}
		v.Neg(v)
	} else if v.BitLen() > width {
		return Bits{}, overflow(s, width)
	}
	return FromBig(v, width), nil
}

func overflow(s string, width int) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Value(s).
		Detail("literal %s does not fit in %d bits", s, width).
		Build()
}

// BitCount returns the width.
func (b Bits) BitCount() int { return b.width }

// Get returns bit i, where bit 0 is the least significant.
func (b Bits) Get(i int) bool {
	if i < 0 || i >= b.width {
		panic("bits: index out of range")
	}
	return b.limbs[i/64]>>(i%64)&1 == 1
}

// Limbs returns a copy of the little-endian limbs.
func (b Bits) Limbs() []uint64 {
	return append([]uint64(nil), b.limbs...)
}

// AppendLimbs appends the little-endian limbs to dst.
func (b Bits) AppendLimbs(dst []uint64) []uint64 {
	return append(dst, b.limbs...)
}

// Limb returns limb i without copying.
func (b Bits) Limb(i int) uint64 { return b.limbs[i] }

// ToBytes returns the LSB-first encoding in ceil(width/8) bytes.
func (b Bits) ToBytes() []byte {
	out := make([]byte, (b.width+7)/8)
	for i := range out {
		out[i] = byte(b.limbs[i/8] >> (8 * (i % 8)))
	}
	return out
}

// Equal reports whether b and o have the same width and bits.
func (b Bits) Equal(o Bits) bool {
	if b.width != o.width {
		return false
	}
	for i := range b.limbs {
		if b.limbs[i] != o.limbs[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether every bit is zero.
func (b Bits) IsZero() bool {
	for _, l := range b.limbs {
		if l != 0 {
			return false
		}
	}
	return true
}

// Add returns (b + o) mod 2^width. Both operands must have the same width.
func (b Bits) Add(o Bits) Bits {
	if b.width != o.width {
		panic("bits: Add width mismatch")
	}
	r := Zero(b.width)
	var carry uint64
	for i := range r.limbs {
		r.limbs[i], carry = mbits.Add64(b.limbs[i], o.limbs[i], carry)
	}
	r.normalize()
	return r
}

// Slice returns width bits starting at bit start.
func (b Bits) Slice(start, width int) Bits {
	if start < 0 || width < 0 || start+width > b.width {
		panic("bits: slice out of range")
	}
	var bb Builder
	for i := 0; i < width; i++ {
		bb.PushBit(b.Get(start + i))
	}
	return bb.Build()
}

// ToUint64 returns the value if it fits in 64 bits.
func (b Bits) ToUint64() (uint64, bool) {
	for i := 1; i < len(b.limbs); i++ {
		if b.limbs[i] != 0 {
			return 0, false
		}
	}
	if len(b.limbs) == 0 {
		return 0, true
	}
	return b.limbs[0], true
}

// Big returns the unsigned value as a big integer.
func (b Bits) Big() *big.Int {
	be := b.ToBytes()
	reverse(be)
	return new(big.Int).SetBytes(be)
}

// Hex returns the value in 0x-prefixed hexadecimal.
func (b Bits) Hex() string {
	return "0x" + b.Big().Text(16)
}

// String returns the typed form, for example bits[8]:0x5a.
func (b Bits) String() string {
	var sb strings.Builder
	sb.WriteString("bits[")
	sb.WriteString(strconv.Itoa(b.width))
	sb.WriteString("]:")
	sb.WriteString(b.Hex())
	return sb.String()
}

func (b *Bits) normalize() {
	if n := len(b.limbs); n > 0 {
		b.limbs[n-1] &= TopMask(b.width)
	}
}

func reverse(p []byte) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
