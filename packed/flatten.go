package packed

import "github.com/shaunstanislauslau/xls/ir"

// Flatten returns the packed encoding of v in ceil(FlatBitCount/8) bytes.
func Flatten(v ir.Value) []byte {
	t := v.Type()
	buf := make([]byte, byteSpan(t.FlatBitCount()))
	// Store cannot fail: the buffer is sized for t and v has type t.
	_ = NewView(buf, 0, t).Store(v)
	return buf
}

// Unflatten decodes a packed buffer produced by Flatten.
func Unflatten(buf []byte, t *ir.Type) (ir.Value, error) {
	return NewView(buf, 0, t).Value()
}
