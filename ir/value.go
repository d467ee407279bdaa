package ir

import (
	"strings"

	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/errors"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	ValueBits ValueKind = iota
	ValueArray
	ValueTuple
)

// Value is a closed tagged union: a Bits leaf, a homogeneous array or a
// heterogeneous tuple. Values are immutable.
type Value struct {
	elems []Value
	bits  bits.Bits
	kind  ValueKind
}

// BitsValue wraps a bit vector.
func BitsValue(b bits.Bits) Value {
	return Value{kind: ValueBits, bits: b}
}

// UBitsValue is shorthand for BitsValue(bits.UBits(v, width)).
func UBitsValue(v uint64, width int) Value {
	return BitsValue(bits.UBits(v, width))
}

// ArrayValue builds an array. All elements must share one type and there
// must be at least one.
func ArrayValue(elems []Value) (Value, error) {
	if len(elems) == 0 {
		return Value{}, errors.InvalidInput(errors.PhaseInvoke, "array values need at least one element")
	}
	t := elems[0].Type()
	for i := 1; i < len(elems); i++ {
		if !elems[i].HasType(t) {
			return Value{}, errors.TypeMismatch(errors.PhaseInvoke, []string{itoaPath(i)}, elems[i].Type().String(), t.String())
		}
	}
	return Value{kind: ValueArray, elems: append([]Value(nil), elems...)}, nil
}

// MustArrayValue is ArrayValue that panics on error, for literals in tests
// and examples.
func MustArrayValue(elems ...Value) Value {
	v, err := ArrayValue(elems)
	if err != nil {
		panic(err)
	}
	return v
}

// TupleValue builds a tuple from elements in declaration order.
func TupleValue(elems ...Value) Value {
	return Value{kind: ValueTuple, elems: append([]Value(nil), elems...)}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsBits() bool { return v.kind == ValueBits }
func (v Value) Bits() bits.Bits { return v.bits }
func (v Value) Elements() []Value { return v.elems }
func (v Value) Element(i int) Value { return v.elems[i] }
func (v Value) Len() int { return len(v.elems) }

// Type returns the unowned type describing v.
func (v Value) Type() *Type {
	switch v.kind {
	case ValueArray:
		return ArrayType(v.elems[0].Type(), len(v.elems))
	case ValueTuple:
		ts := make([]*Type, len(v.elems))
		for i, e := range v.elems {
			ts[i] = e.Type()
		}
		return TupleType(ts...)
	}
	return BitsType(v.bits.BitCount())
}

// HasType reports whether v is shaped like t without building a Type.
func (v Value) HasType(t *Type) bool {
	switch v.kind {
	case ValueBits:
		return t.kind == TypeBits && t.width == v.bits.BitCount()
	case ValueArray:
		if t.kind != TypeArray || t.count != len(v.elems) {
			return false
		}
		for _, e := range v.elems {
			if !e.HasType(t.elem) {
				return false
			}
		}
		return true
	case ValueTuple:
		if t.kind != TypeTuple || len(t.elems) != len(v.elems) {
			return false
		}
		for i, e := range v.elems {
			if !e.HasType(t.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// FlatBitCount returns the sum of leaf widths.
func (v Value) FlatBitCount() int {
	if v.kind == ValueBits {
		return v.bits.BitCount()
	}
	n := 0
	for _, e := range v.elems {
		n += e.FlatBitCount()
	}
	return n
}

// Equal reports deep equality including shape.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == ValueBits {
		return v.bits.Equal(o.bits)
	}
	if len(v.elems) != len(o.elems) {
		return false
	}
	for i := range v.elems {
		if !v.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

// String returns the typed text form, e.g. (bits[1]:0x1, [bits[8]:0x2]).
func (v Value) String() string {
	var sb strings.Builder
	writeValue(&sb, v, true)
	return sb.String()
}

// ValueText returns the untyped literal form accepted by literal(value=...)
// and ParseTypedValue, e.g. (0x1, [0x2]).
func ValueText(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v, false)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, typed bool) {
	switch v.kind {
	case ValueBits:
		if typed {
			sb.WriteString(v.bits.String())
		} else {
			sb.WriteString(v.bits.Hex())
		}
	case ValueArray, ValueTuple:
		open, close := byte('['), byte(']')
		if v.kind == ValueTuple {
			open, close = '(', ')'
		}
		sb.WriteByte(open)
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, e, typed)
		}
		sb.WriteByte(close)
	}
}
