package ir

import (
	"strconv"
	"strings"
)

// TypeKind discriminates the three type shapes.
type TypeKind uint8

const (
	TypeBits TypeKind = iota
	TypeArray
	TypeTuple
)

func (k TypeKind) String() string {
	switch k {
	case TypeBits:
		return "bits"
	case TypeArray:
		return "array"
	case TypeTuple:
		return "tuple"
	}
	return "unknown"
}

// Type describes the shape of a value. Types are immutable and compared
// structurally with Equal; types interned by a Package are additionally
// pointer-identical for identical shapes.
type Type struct {
	elem  *Type
	str   string
	elems []*Type
	count int
	width int
	flat  int
	kind  TypeKind
}

// BitsType returns an unowned bits[width] type.
func BitsType(width int) *Type {
	if width < 0 {
		panic("ir: negative bit width")
	}
	return &Type{
		kind:  TypeBits,
		width: width,
		flat:  width,
		str:   "bits[" + strconv.Itoa(width) + "]",
	}
}

// ArrayType returns an unowned elem[count] type. count must be at least 1.
func ArrayType(elem *Type, count int) *Type {
	if count < 1 {
		panic("ir: array types need at least one element")
	}
	return &Type{
		kind:  TypeArray,
		elem:  elem,
		count: count,
		flat:  elem.flat * count,
		str:   elem.str + "[" + strconv.Itoa(count) + "]",
	}
}

// TupleType returns an unowned (elems...) type.
func TupleType(elems ...*Type) *Type {
	var sb strings.Builder
	flat := 0
	sb.WriteByte('(')
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.str)
		flat += e.flat
	}
	sb.WriteByte(')')
	return &Type{
		kind:  TypeTuple,
		elems: append([]*Type(nil), elems...),
		flat:  flat,
		str:   sb.String(),
	}
}

func (t *Type) Kind() TypeKind { return t.kind }
func (t *Type) IsBits() bool { return t.kind == TypeBits }
func (t *Type) IsArray() bool { return t.kind == TypeArray }
func (t *Type) IsTuple() bool { return t.kind == TypeTuple }

// BitCount returns the width of a bits type and 0 otherwise.
func (t *Type) BitCount() int {
	if t.kind != TypeBits {
		return 0
	}
	return t.width
}

// Element returns the element type of an array.
func (t *Type) Element() *Type { return t.elem }

// Size returns the element count of an array or tuple.
func (t *Type) Size() int {
	if t.kind == TypeTuple {
		return len(t.elems)
	}
	return t.count
}

// TupleElement returns tuple element i.
func (t *Type) TupleElement(i int) *Type { return t.elems[i] }

// TupleElements returns the tuple element types in declaration order.
func (t *Type) TupleElements() []*Type { return t.elems }

// FlatBitCount returns the number of bits in the flattened encoding.
func (t *Type) FlatBitCount() int { return t.flat }

// Equal reports structural equality.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	return t.str == o.str
}

// String returns the canonical text form, for example (bits[1], bits[8][4]).
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.str
}
