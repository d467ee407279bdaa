package ir

import (
	"fmt"
	mbits "math/bits"

	"github.com/shaunstanislauslau/xls/errors"
)

// inferType computes the result type of op applied to operands. The
// returned type is unowned; callers intern it in their package.
func inferType(pkg *Package, op Op, operands []*Node, attrs Attrs) (*Type, error) {
	ts := make([]*Type, len(operands))
	for i, o := range operands {
		ts[i] = o.typ
	}
	c := checker{op: op, ts: ts}

	switch op {
	case OpLiteral:
		if err := c.count(0); err != nil {
			return nil, err
		}
		return attrs.Value.Type(), nil

	case OpIdentity:
		if err := c.count(1); err != nil {
			return nil, err
		}
		return ts[0], nil

	case OpAdd, OpSub, OpUDiv, OpSDiv, OpUMod, OpSMod:
		if err := c.sameBits(2); err != nil {
			return nil, err
		}
		return ts[0], nil

	case OpUMul, OpSMul:
		if err := c.count(2); err != nil {
			return nil, err
		}
		if err := c.allBits(); err != nil {
			return nil, err
		}
		w := attrs.Width
		if w == 0 {
			w = ts[0].width
		}
		return BitsType(w), nil

	case OpNeg, OpNot:
		if err := c.sameBits(1); err != nil {
			return nil, err
		}
		return ts[0], nil

	case OpAnd, OpOr, OpXor, OpNand, OpNor:
		if len(ts) == 0 {
			return nil, c.fail("needs at least one operand")
		}
		if err := c.sameBits(len(ts)); err != nil {
			return nil, err
		}
		return ts[0], nil

	case OpEq, OpNe:
		if err := c.count(2); err != nil {
			return nil, err
		}
		if !ts[0].Equal(ts[1]) {
			return nil, c.mismatch(1, ts[1], ts[0])
		}
		return BitsType(1), nil

	case OpULt, OpULe, OpUGt, OpUGe, OpSLt, OpSLe, OpSGt, OpSGe:
		if err := c.sameBits(2); err != nil {
			return nil, err
		}
		return BitsType(1), nil

	case OpShll, OpShrl, OpShra:
		if err := c.count(2); err != nil {
			return nil, err
		}
		if err := c.allBits(); err != nil {
			return nil, err
		}
		return ts[0], nil

	case OpBitSlice:
		if err := c.sameBits(1); err != nil {
			return nil, err
		}
		if attrs.Start < 0 || attrs.Width < 0 || attrs.Start+attrs.Width > ts[0].width {
			return nil, c.fail(fmt.Sprintf("slice [%d, %d) out of range for %s", attrs.Start, attrs.Start+attrs.Width, ts[0]))
		}
		return BitsType(attrs.Width), nil

	case OpDynamicBitSlice:
		if err := c.count(2); err != nil {
			return nil, err
		}
		if err := c.allBits(); err != nil {
			return nil, err
		}
		if attrs.Width < 0 || attrs.Width > ts[0].width {
			return nil, c.fail(fmt.Sprintf("width %d exceeds operand width %d", attrs.Width, ts[0].width))
		}
		return BitsType(attrs.Width), nil

	case OpConcat:
		if err := c.allBits(); err != nil {
			return nil, err
		}
		w := 0
		for _, t := range ts {
			w += t.width
		}
		return BitsType(w), nil

	case OpZeroExt, OpSignExt:
		if err := c.sameBits(1); err != nil {
			return nil, err
		}
		if attrs.NewBitCount < ts[0].width {
			return nil, c.fail(fmt.Sprintf("new_bit_count %d is narrower than %s", attrs.NewBitCount, ts[0]))
		}
		return BitsType(attrs.NewBitCount), nil

	case OpAndReduce, OpOrReduce, OpXorReduce:
		if err := c.sameBits(1); err != nil {
			return nil, err
		}
		return BitsType(1), nil

	case OpEncode:
		if err := c.sameBits(1); err != nil {
			return nil, err
		}
		w := 0
		if ts[0].width > 1 {
			w = mbits.Len(uint(ts[0].width - 1))
		}
		return BitsType(w), nil

	case OpDecode:
		if err := c.sameBits(1); err != nil {
			return nil, err
		}
		return BitsType(attrs.Width), nil

	case OpOneHot:
		if err := c.sameBits(1); err != nil {
			return nil, err
		}
		return BitsType(ts[0].width + 1), nil

	case OpSel:
		return c.sel(attrs)

	case OpArray:
		if len(ts) == 0 {
			return nil, c.fail("needs at least one element")
		}
		for i := 1; i < len(ts); i++ {
			if !ts[i].Equal(ts[0]) {
				return nil, c.mismatch(i, ts[i], ts[0])
			}
		}
		return ArrayType(ts[0], len(ts)), nil

	case OpArrayIndex:
		if err := c.count(2); err != nil {
			return nil, err
		}
		if !ts[0].IsArray() {
			return nil, c.fail(fmt.Sprintf("operand 0 must be an array, got %s", ts[0]))
		}
		if !ts[1].IsBits() {
			return nil, c.fail(fmt.Sprintf("index must be bits, got %s", ts[1]))
		}
		return ts[0].elem, nil

	case OpArrayUpdate:
		if err := c.count(3); err != nil {
			return nil, err
		}
		if !ts[0].IsArray() {
			return nil, c.fail(fmt.Sprintf("operand 0 must be an array, got %s", ts[0]))
		}
		if !ts[1].IsBits() {
			return nil, c.fail(fmt.Sprintf("index must be bits, got %s", ts[1]))
		}
		if !ts[2].Equal(ts[0].elem) {
			return nil, c.mismatch(2, ts[2], ts[0].elem)
		}
		return ts[0], nil

	case OpTuple:
		return TupleType(ts...), nil

	case OpTupleIndex:
		if err := c.count(1); err != nil {
			return nil, err
		}
		if !ts[0].IsTuple() {
			return nil, c.fail(fmt.Sprintf("operand must be a tuple, got %s", ts[0]))
		}
		if attrs.Index < 0 || attrs.Index >= len(ts[0].elems) {
			return nil, c.fail(fmt.Sprintf("index %d out of range for %s", attrs.Index, ts[0]))
		}
		return ts[0].elems[attrs.Index], nil

	case OpInvoke, OpMap, OpCountedFor:
		return c.call(pkg, attrs)
	}

	return nil, c.fail("cannot infer type")
}

type checker struct {
	ts []*Type
	op Op
}

func (c checker) fail(detail string) error {
	return errors.New(errors.PhaseParse, errors.KindTypeMismatch).
		Path(c.op.String()).
		Detail("%s", detail).
		Build()
}

func (c checker) mismatch(i int, got, want *Type) error {
	return errors.TypeMismatch(errors.PhaseParse, []string{c.op.String(), itoaPath(i)}, got.String(), want.String())
}

func (c checker) count(n int) error {
	if len(c.ts) != n {
		return c.fail(fmt.Sprintf("expected %d operands, got %d", n, len(c.ts)))
	}
	return nil
}

func (c checker) allBits() error {
	for i, t := range c.ts {
		if !t.IsBits() {
			return errors.TypeMismatch(errors.PhaseParse, []string{c.op.String(), itoaPath(i)}, t.String(), "bits")
		}
	}
	return nil
}

// sameBits checks for exactly n bits operands of one width.
func (c checker) sameBits(n int) error {
	if err := c.count(n); err != nil {
		return err
	}
	if err := c.allBits(); err != nil {
		return err
	}
	for i := 1; i < n; i++ {
		if c.ts[i].width != c.ts[0].width {
			return c.mismatch(i, c.ts[i], c.ts[0])
		}
	}
	return nil
}

func (c checker) sel(attrs Attrs) (*Type, error) {
	cases := len(c.ts) - 1
	if attrs.HasDefault {
		cases--
	}
	if cases < 1 {
		return nil, c.fail("needs a selector and at least one case")
	}
	if !c.ts[0].IsBits() {
		return nil, c.mismatch(0, c.ts[0], BitsType(1))
	}
	want := c.ts[1]
	for i := 2; i < len(c.ts); i++ {
		if !c.ts[i].Equal(want) {
			return nil, c.mismatch(i, c.ts[i], want)
		}
	}
	w := c.ts[0].width
	wide := w >= mbits.UintSize-1
	switch {
	case attrs.HasDefault && !wide && cases >= 1<<w:
		return nil, c.fail(fmt.Sprintf("default is unreachable with %d cases and a %d-bit selector", cases, w))
	case !attrs.HasDefault && (wide || cases != 1<<w):
		return nil, c.fail(fmt.Sprintf("%d cases do not cover a %d-bit selector; a default is required", cases, w))
	}
	return want, nil
}

func (c checker) call(pkg *Package, attrs Attrs) (*Type, error) {
	if pkg == nil {
		return nil, c.fail("callee lookup needs a package")
	}
	callee, err := pkg.Function(attrs.Callee)
	if err != nil {
		return nil, err
	}
	switch c.op {
	case OpInvoke:
		if len(c.ts) != callee.ParamCount() {
			return nil, c.fail(fmt.Sprintf("%s takes %d arguments, got %d", callee.name, callee.ParamCount(), len(c.ts)))
		}
		for i, t := range c.ts {
			if !t.Equal(callee.params[i].typ) {
				return nil, c.mismatch(i, t, callee.params[i].typ)
			}
		}
		return callee.ReturnType(), nil
	case OpMap:
		if len(c.ts) != 1 || !c.ts[0].IsArray() || callee.ParamCount() != 1 {
			return nil, c.fail("map takes one array and a unary function")
		}
		if !c.ts[0].elem.Equal(callee.params[0].typ) {
			return nil, c.mismatch(0, c.ts[0].elem, callee.params[0].typ)
		}
		return ArrayType(callee.ReturnType(), c.ts[0].count), nil
	default:
		if len(c.ts) < 1 {
			return nil, c.fail("counted_for needs an initial value")
		}
		if !callee.ReturnType().Equal(c.ts[0]) {
			return nil, c.mismatch(0, c.ts[0], callee.ReturnType())
		}
		return c.ts[0], nil
	}
}

func itoaPath(i int) string {
	return fmt.Sprint(i)
}
