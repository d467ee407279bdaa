package ir

import (
	"strconv"

	"github.com/shaunstanislauslau/xls/errors"
)

// BValue is a handle to a node under construction.
type BValue struct {
	node *Node
}

// Node returns the underlying node, nil if construction failed.
func (v BValue) Node() *Node { return v.node }

// Type returns the node's type, nil if construction failed.
func (v BValue) Type() *Type {
	if v.node == nil {
		return nil
	}
	return v.node.typ
}

// FunctionBuilder constructs a Function node by node with type inference.
// The first error is sticky: later calls are no-ops and Build reports it.
type FunctionBuilder struct {
	pkg *Package
	fn  *Function
	err error
}

// NewFunctionBuilder starts a function named name in pkg.
func NewFunctionBuilder(name string, pkg *Package) *FunctionBuilder {
	return &FunctionBuilder{
		pkg: pkg,
		fn: &Function{
			name:   name,
			byName: make(map[string]*Node),
		},
	}
}

// Err returns the first construction error.
func (b *FunctionBuilder) Err() error { return b.err }

func (b *FunctionBuilder) setErr(err error) BValue {
	if b.err == nil {
		b.err = err
	}
	return BValue{}
}

func (b *FunctionBuilder) register(n *Node) BValue {
	if n.name == "" {
		n.name = n.op.String() + "." + strconv.Itoa(len(b.fn.nodes))
	}
	if _, dup := b.fn.byName[n.name]; dup {
		return b.setErr(errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Path(b.fn.name, n.name).
			Detail("duplicate node name %q", n.name).
			Build())
	}
	n.id = len(b.fn.nodes)
	n.fn = b.fn
	b.fn.nodes = append(b.fn.nodes, n)
	b.fn.byName[n.name] = n
	return BValue{node: n}
}

// Param declares the next positional parameter.
func (b *FunctionBuilder) Param(name string, t *Type) BValue {
	if b.err != nil {
		return BValue{}
	}
	if len(b.fn.nodes) != len(b.fn.params) {
		return b.setErr(errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Path(b.fn.name, name).
			Detail("parameters must be declared before other nodes").
			Build())
	}
	v := b.register(&Node{name: name, op: OpParam, typ: b.pkg.Intern(t)})
	if v.node != nil {
		b.fn.params = append(b.fn.params, v.node)
	}
	return v
}

// add creates a node, checking its declared type when one is given.
func (b *FunctionBuilder) add(name string, op Op, operands []BValue, attrs Attrs, declared *Type) BValue {
	if b.err != nil {
		return BValue{}
	}
	nodes := make([]*Node, len(operands))
	for i, o := range operands {
		if o.node == nil || o.node.fn != b.fn {
			return b.setErr(errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path(b.fn.name, op.String()).
				Detail("operand %d does not belong to function %q", i, b.fn.name).
				Build())
		}
		nodes[i] = o.node
	}
	t, err := inferType(b.pkg, op, nodes, attrs)
	if err != nil {
		return b.setErr(err)
	}
	if declared != nil && !declared.Equal(t) {
		return b.setErr(errors.TypeMismatch(errors.PhaseParse, []string{b.fn.name, name}, declared.String(), t.String()))
	}
	return b.register(&Node{name: name, op: op, operands: nodes, attrs: attrs, typ: b.pkg.Intern(t)})
}

func (b *FunctionBuilder) Literal(v Value) BValue {
	return b.add("", OpLiteral, nil, Attrs{Value: v}, nil)
}

func (b *FunctionBuilder) Identity(x BValue) BValue { return b.unary(OpIdentity, x) }
func (b *FunctionBuilder) Neg(x BValue) BValue { return b.unary(OpNeg, x) }
func (b *FunctionBuilder) Not(x BValue) BValue { return b.unary(OpNot, x) }
func (b *FunctionBuilder) AndReduce(x BValue) BValue { return b.unary(OpAndReduce, x) }
func (b *FunctionBuilder) OrReduce(x BValue) BValue { return b.unary(OpOrReduce, x) }
func (b *FunctionBuilder) XorReduce(x BValue) BValue { return b.unary(OpXorReduce, x) }
func (b *FunctionBuilder) Encode(x BValue) BValue { return b.unary(OpEncode, x) }

func (b *FunctionBuilder) Add(x, y BValue) BValue { return b.binary(OpAdd, x, y) }
func (b *FunctionBuilder) Sub(x, y BValue) BValue { return b.binary(OpSub, x, y) }
func (b *FunctionBuilder) Eq(x, y BValue) BValue { return b.binary(OpEq, x, y) }
func (b *FunctionBuilder) Ne(x, y BValue) BValue { return b.binary(OpNe, x, y) }
func (b *FunctionBuilder) ULt(x, y BValue) BValue { return b.binary(OpULt, x, y) }
func (b *FunctionBuilder) ULe(x, y BValue) BValue { return b.binary(OpULe, x, y) }
func (b *FunctionBuilder) UGt(x, y BValue) BValue { return b.binary(OpUGt, x, y) }
func (b *FunctionBuilder) UGe(x, y BValue) BValue { return b.binary(OpUGe, x, y) }
func (b *FunctionBuilder) SLt(x, y BValue) BValue { return b.binary(OpSLt, x, y) }
func (b *FunctionBuilder) SLe(x, y BValue) BValue { return b.binary(OpSLe, x, y) }
func (b *FunctionBuilder) SGt(x, y BValue) BValue { return b.binary(OpSGt, x, y) }
func (b *FunctionBuilder) SGe(x, y BValue) BValue { return b.binary(OpSGe, x, y) }
func (b *FunctionBuilder) Shll(x, y BValue) BValue { return b.binary(OpShll, x, y) }
func (b *FunctionBuilder) Shrl(x, y BValue) BValue { return b.binary(OpShrl, x, y) }
func (b *FunctionBuilder) Shra(x, y BValue) BValue { return b.binary(OpShra, x, y) }
func (b *FunctionBuilder) UDiv(x, y BValue) BValue { return b.binary(OpUDiv, x, y) }
func (b *FunctionBuilder) SDiv(x, y BValue) BValue { return b.binary(OpSDiv, x, y) }
func (b *FunctionBuilder) UMod(x, y BValue) BValue { return b.binary(OpUMod, x, y) }
func (b *FunctionBuilder) SMod(x, y BValue) BValue { return b.binary(OpSMod, x, y) }

// UMul multiplies with a result of width bits (0 keeps the operand width).
func (b *FunctionBuilder) UMul(x, y BValue, width int) BValue {
	return b.add("", OpUMul, []BValue{x, y}, Attrs{Width: width}, nil)
}

// SMul is the signed counterpart of UMul.
func (b *FunctionBuilder) SMul(x, y BValue, width int) BValue {
	return b.add("", OpSMul, []BValue{x, y}, Attrs{Width: width}, nil)
}

func (b *FunctionBuilder) And(xs ...BValue) BValue { return b.add("", OpAnd, xs, Attrs{}, nil) }
func (b *FunctionBuilder) Or(xs ...BValue) BValue { return b.add("", OpOr, xs, Attrs{}, nil) }
func (b *FunctionBuilder) Xor(xs ...BValue) BValue { return b.add("", OpXor, xs, Attrs{}, nil) }
func (b *FunctionBuilder) Nand(xs ...BValue) BValue { return b.add("", OpNand, xs, Attrs{}, nil) }
func (b *FunctionBuilder) Nor(xs ...BValue) BValue { return b.add("", OpNor, xs, Attrs{}, nil) }
func (b *FunctionBuilder) Concat(xs ...BValue) BValue { return b.add("", OpConcat, xs, Attrs{}, nil) }
func (b *FunctionBuilder) Array(xs ...BValue) BValue { return b.add("", OpArray, xs, Attrs{}, nil) }
func (b *FunctionBuilder) Tuple(xs ...BValue) BValue { return b.add("", OpTuple, xs, Attrs{}, nil) }

func (b *FunctionBuilder) BitSlice(x BValue, start, width int) BValue {
	return b.add("", OpBitSlice, []BValue{x}, Attrs{Start: start, Width: width}, nil)
}

func (b *FunctionBuilder) DynamicBitSlice(x, start BValue, width int) BValue {
	return b.add("", OpDynamicBitSlice, []BValue{x, start}, Attrs{Width: width}, nil)
}

func (b *FunctionBuilder) ZeroExtend(x BValue, newBitCount int) BValue {
	return b.add("", OpZeroExt, []BValue{x}, Attrs{NewBitCount: newBitCount}, nil)
}

func (b *FunctionBuilder) SignExtend(x BValue, newBitCount int) BValue {
	return b.add("", OpSignExt, []BValue{x}, Attrs{NewBitCount: newBitCount}, nil)
}

func (b *FunctionBuilder) Decode(x BValue, width int) BValue {
	return b.add("", OpDecode, []BValue{x}, Attrs{Width: width}, nil)
}

func (b *FunctionBuilder) OneHot(x BValue, lsbPrio bool) BValue {
	return b.add("", OpOneHot, []BValue{x}, Attrs{LSBPrio: lsbPrio}, nil)
}

// Select picks cases[selector]. Without a default the cases must cover
// every selector value.
func (b *FunctionBuilder) Select(selector BValue, cases []BValue) BValue {
	ops := append([]BValue{selector}, cases...)
	return b.add("", OpSel, ops, Attrs{}, nil)
}

// SelectWithDefault picks cases[selector], or def when the selector is
// out of range.
func (b *FunctionBuilder) SelectWithDefault(selector BValue, cases []BValue, def BValue) BValue {
	ops := append([]BValue{selector}, cases...)
	ops = append(ops, def)
	return b.add("", OpSel, ops, Attrs{HasDefault: true}, nil)
}

func (b *FunctionBuilder) ArrayIndex(array, index BValue) BValue {
	return b.add("", OpArrayIndex, []BValue{array, index}, Attrs{}, nil)
}

func (b *FunctionBuilder) ArrayUpdate(array, index, value BValue) BValue {
	return b.add("", OpArrayUpdate, []BValue{array, index, value}, Attrs{}, nil)
}

func (b *FunctionBuilder) TupleIndex(tuple BValue, index int) BValue {
	return b.add("", OpTupleIndex, []BValue{tuple}, Attrs{Index: index}, nil)
}

func (b *FunctionBuilder) Invoke(args []BValue, callee *Function) BValue {
	return b.add("", OpInvoke, args, Attrs{Callee: callee.name}, nil)
}

func (b *FunctionBuilder) Map(array BValue, callee *Function) BValue {
	return b.add("", OpMap, []BValue{array}, Attrs{Callee: callee.name}, nil)
}

func (b *FunctionBuilder) CountedFor(init BValue, tripCount, stride int, body *Function, invariants ...BValue) BValue {
	ops := append([]BValue{init}, invariants...)
	return b.add("", OpCountedFor, ops, Attrs{Callee: body.name, TripCount: tripCount, Stride: stride}, nil)
}

func (b *FunctionBuilder) unary(op Op, x BValue) BValue {
	return b.add("", op, []BValue{x}, Attrs{}, nil)
}

func (b *FunctionBuilder) binary(op Op, x, y BValue) BValue {
	return b.add("", op, []BValue{x, y}, Attrs{}, nil)
}

// Build finishes the function, returning its last node.
func (b *FunctionBuilder) Build() (*Function, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.fn.nodes) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "function "+b.fn.name+" has no nodes")
	}
	return b.BuildWithReturnValue(BValue{node: b.fn.nodes[len(b.fn.nodes)-1]})
}

// BuildWithReturnValue finishes the function with ret as its result and
// adds it to the package.
func (b *FunctionBuilder) BuildWithReturnValue(ret BValue) (*Function, error) {
	if b.err != nil {
		return nil, b.err
	}
	if ret.node == nil || ret.node.fn != b.fn {
		return nil, errors.InvalidInput(errors.PhaseParse, "return value does not belong to function "+b.fn.name)
	}
	b.fn.ret = ret.node
	if err := b.pkg.AddFunction(b.fn); err != nil {
		return nil, err
	}
	return b.fn, nil
}
