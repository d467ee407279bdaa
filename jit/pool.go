package jit

import "sync"

const (
	// Frames larger than this are not returned to the pool
	poolMaxFrameLimbs  = 1 << 16
	poolInitFrameLimbs = 64
)

// frame pool shared by every compiled function
var framePool = sync.Pool{
	New: func() any {
		buf := make([]uint64, 0, poolInitFrameLimbs)
		return &buf
	},
}

// getFrame returns a zeroed frame of n limbs.
func getFrame(n int) *[]uint64 {
	buf := framePool.Get().(*[]uint64)
	if cap(*buf) < n {
		*buf = make([]uint64, n)
		return buf
	}
	*buf = (*buf)[:n]
	clear(*buf)
	return buf
}

func putFrame(buf *[]uint64) {
	if buf == nil || cap(*buf) > poolMaxFrameLimbs {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	framePool.Put(buf)
}
