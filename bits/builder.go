package bits

// Builder accumulates bits from least significant upward. Build is terminal:
// the builder is reset afterwards and the returned value never aliases it.
type Builder struct {
	limbs []uint64
	width int
}

// PushBit appends one bit above the bits pushed so far.
func (bb *Builder) PushBit(v bool) {
	if bb.width%64 == 0 {
		bb.limbs = append(bb.limbs, 0)
	}
	if v {
		bb.limbs[bb.width/64] |= 1 << (bb.width % 64)
	}
	bb.width++
}

// PushBits appends every bit of b, LSB first, above the bits pushed so far.
func (bb *Builder) PushBits(b Bits) {
	shift := bb.width % 64
	if shift == 0 {
		bb.limbs = append(bb.limbs[:bb.width/64], b.limbs...)
		bb.width += b.width
		return
	}
	for i := 0; i < b.width; i++ {
		bb.PushBit(b.Get(i))
	}
}

// Len returns the number of bits pushed so far.
func (bb *Builder) Len() int { return bb.width }

// Build returns the accumulated value and resets the builder.
func (bb *Builder) Build() Bits {
	out := FromLimbs(bb.limbs, bb.width)
	bb.limbs, bb.width = nil, 0
	return out
}
