package packed

import (
	"math/rand/v2"
	"testing"
)

func getBit(buf []byte, i int) bool { return buf[i>>3]>>(i&7)&1 == 1 }
func limbBit(limbs []uint64, i int) bool { return limbs[i>>6]>>(i&63)&1 == 1 }

func TestReadWriteLimbsAgainstBitLoop(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 500; trial++ {
		width := r.IntN(300)
		off := r.IntN(70)
		buf := make([]byte, (off+width+7)/8+r.IntN(3))
		for i := range buf {
			buf[i] = byte(r.Uint32())
		}
		orig := append([]byte(nil), buf...)

		limbs := make([]uint64, (width+63)/64)
		ReadLimbs(buf, off, width, limbs)
		for i := 0; i < width; i++ {
			if limbBit(limbs, i) != getBit(buf, off+i) {
				t.Fatalf("width %d off %d: bit %d mismatch", width, off, i)
			}
		}
		if width%64 != 0 && len(limbs) > 0 && limbs[len(limbs)-1]>>(width%64) != 0 {
			t.Fatalf("width %d: bits above width are set", width)
		}

		src := make([]uint64, len(limbs))
		for i := range src {
			src[i] = r.Uint64()
		}
		WriteLimbs(buf, off, width, src)
		for i := 0; i < len(buf)*8; i++ {
			inSpan := i >= off && i < off+width
			want := getBit(orig, i)
			if inSpan {
				want = limbBit(src, i-off)
			}
			if getBit(buf, i) != want {
				t.Fatalf("width %d off %d: buffer bit %d = %v, want %v (in span %v)",
					width, off, i, getBit(buf, i), want, inSpan)
			}
		}
	}
}
