package packed

// ReadLimbs copies width bits starting at bitOffset of buf into dst as
// little-endian limbs. dst must hold at least ceil(width/64) limbs; those
// limbs are overwritten and bits above width are left zero.
func ReadLimbs(buf []byte, bitOffset, width int, dst []uint64) {
	n := (width + 63) / 64
	clear(dst[:n])
	for i := 0; i < width; {
		pos := bitOffset + i
		shift := pos & 7
		take := min(8-shift, width-i)
		chunk := (uint64(buf[pos>>3]) >> shift) & (1<<take - 1)
		limb, at := i>>6, i&63
		dst[limb] |= chunk << at
		if at+take > 64 {
			dst[limb+1] |= chunk >> (64 - at)
		}
		i += take
	}
}

// WriteLimbs stores the low width bits of src into buf starting at
// bitOffset. Bits of buf outside [bitOffset, bitOffset+width) are preserved.
func WriteLimbs(buf []byte, bitOffset, width int, src []uint64) {
	for i := 0; i < width; {
		pos := bitOffset + i
		shift := pos & 7
		take := min(8-shift, width-i)
		limb, at := i>>6, i&63
		chunk := src[limb] >> at
		if at+take > 64 {
			chunk |= src[limb+1] << (64 - at)
		}
		chunk &= 1<<take - 1
		mask := byte((1<<take - 1) << shift)
		buf[pos>>3] = buf[pos>>3]&^mask | byte(chunk<<shift)
		i += take
	}
}

// byteSpan is the number of bytes a bit range ending at end touches.
func byteSpan(end int) int {
	return (end + 7) / 8
}
