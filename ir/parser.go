package ir

import (
	stderrors "errors"
	"strconv"

	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/errors"
)

// ParsePackage parses IR text holding a package header and functions.
func ParsePackage(text string) (*Package, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}
	return p.parsePackage(true)
}

// ParseFunction parses IR text with an optional package header and returns
// its top function. Helper functions referenced by invoke, map or
// counted_for may precede it.
func ParseFunction(text string) (*Function, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}
	pkg, err := p.parsePackage(false)
	if err != nil {
		return nil, err
	}
	return pkg.Top()
}

// ParseType parses a type such as (bits[1], bits[8][4]).
func ParseType(text string) (*Type, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return t, p.expectEOF()
}

// ParseTypedValue parses an untyped literal like (0x1, [2, 3]) as a value
// of type t. Leaves may carry a bits[N]: prefix.
func ParseTypedValue(text string, t *Type) (Value, error) {
	p, err := newParser(text)
	if err != nil {
		return Value{}, err
	}
	v, err := p.parseValue(t)
	if err != nil {
		return Value{}, err
	}
	return v, p.expectEOF()
}

type parser struct {
	toks []token
	pos  int
}

func newParser(text string) (*parser, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks}, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return errors.Syntax(t.line, t.col, format, args...)
}

func (p *parser) expect(text string) (token, error) {
	t := p.next()
	if !t.is(text) {
		return t, p.errorf(t, "expected %q, got %s", text, t.describe())
	}
	return t, nil
}

func (p *parser) accept(text string) bool {
	if p.peek().is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectEOF() error {
	if t := p.peek(); t.kind != tokEOF {
		return p.errorf(t, "unexpected %s after end", t.describe())
	}
	return nil
}

func (p *parser) ident() (token, error) {
	t := p.next()
	if t.kind != tokIdent {
		return t, p.errorf(t, "expected identifier, got %s", t.describe())
	}
	return t, nil
}

func (p *parser) integer() (int, error) {
	t := p.next()
	if t.kind != tokNumber {
		return 0, p.errorf(t, "expected integer, got %s", t.describe())
	}
	n, err := strconv.ParseInt(t.text, 0, 64)
	if err != nil || n < 0 || n > 1<<31 {
		return 0, p.errorf(t, "invalid integer %s", t.text)
	}
	return int(n), nil
}

func (p *parser) parsePackage(requireHeader bool) (*Package, error) {
	name := "default"
	if p.accept("package") {
		t, err := p.ident()
		if err != nil {
			return nil, err
		}
		name = t.text
	} else if requireHeader {
		return nil, p.errorf(p.peek(), "expected \"package\", got %s", p.peek().describe())
	}

	pkg := NewPackage(name)
	for p.peek().kind != tokEOF {
		top := p.accept("top")
		fn, err := p.parseFunction(pkg)
		if err != nil {
			return nil, err
		}
		if top {
			pkg.top = fn
		}
	}
	if len(pkg.funcs) == 0 {
		return nil, p.errorf(p.peek(), "no functions defined")
	}
	return pkg, nil
}

func (p *parser) parseFunction(pkg *Package) (*Function, error) {
	if _, err := p.expect("fn"); err != nil {
		return nil, err
	}
	nameTok, err := p.ident()
	if err != nil {
		return nil, err
	}
	b := NewFunctionBuilder(nameTok.text, pkg)

	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	for !p.accept(")") {
		if len(b.fn.params) > 0 {
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}
		pt, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if b.Param(pt.text, t).node == nil {
			return nil, p.positioned(pt, b.Err())
		}
	}
	if _, err := p.expect("->"); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	var ret BValue
	for !p.accept("}") {
		isRet := p.accept("ret")
		v, err := p.parseNode(b)
		if err != nil {
			return nil, err
		}
		if isRet {
			if ret.node != nil {
				return nil, p.errorf(p.toks[p.pos-1], "function %s has more than one ret", nameTok.text)
			}
			ret = v
		}
	}
	if ret.node == nil {
		if len(b.fn.nodes) == len(b.fn.params) {
			return nil, p.errorf(nameTok, "function %s has no ret node", nameTok.text)
		}
		ret = BValue{node: b.fn.nodes[len(b.fn.nodes)-1]}
	}
	if !ret.node.typ.Equal(retType) {
		return nil, errors.TypeMismatch(errors.PhaseParse, []string{nameTok.text, "ret"}, ret.node.typ.String(), retType.String())
	}
	fn, err := b.BuildWithReturnValue(ret)
	if err != nil {
		return nil, p.positioned(nameTok, err)
	}
	return fn, nil
}

// parseNode parses `name: type = op(args...)`.
func (p *parser) parseNode(b *FunctionBuilder) (BValue, error) {
	nameTok, err := p.ident()
	if err != nil {
		return BValue{}, err
	}
	if _, err := p.expect(":"); err != nil {
		return BValue{}, err
	}
	declared, err := p.parseType()
	if err != nil {
		return BValue{}, err
	}
	if _, err := p.expect("="); err != nil {
		return BValue{}, err
	}
	opTok, err := p.ident()
	if err != nil {
		return BValue{}, err
	}
	op, ok := LookupOp(opTok.text)
	if !ok || op == OpParam {
		return BValue{}, p.errorf(opTok, "unknown operation %q", opTok.text)
	}
	if _, err := p.expect("("); err != nil {
		return BValue{}, err
	}

	var (
		operands   []BValue
		attrs      Attrs
		cases      []BValue
		def        BValue
		index      BValue
		invariants []BValue
		seen       = map[string]bool{}
	)
	for !p.accept(")") {
		if len(operands) > 0 || len(seen) > 0 {
			if _, err := p.expect(","); err != nil {
				return BValue{}, err
			}
		}
		argTok, err := p.ident()
		if err != nil {
			return BValue{}, err
		}
		if !p.accept("=") {
			if len(seen) > 0 {
				return BValue{}, p.errorf(argTok, "positional operand after keyword arguments")
			}
			v, err := p.operand(b, argTok)
			if err != nil {
				return BValue{}, err
			}
			operands = append(operands, v)
			continue
		}

		key := argTok.text
		if seen[key] {
			return BValue{}, p.errorf(argTok, "duplicate attribute %q", key)
		}
		seen[key] = true
		switch key {
		case "value":
			attrs.Value, err = p.parseValue(declared)
		case "start":
			attrs.Start, err = p.integer()
		case "width":
			attrs.Width, err = p.integer()
		case "new_bit_count":
			attrs.NewBitCount, err = p.integer()
		case "index":
			attrs.Index, err = p.integer()
		case "trip_count":
			attrs.TripCount, err = p.integer()
		case "stride":
			attrs.Stride, err = p.integer()
		case "lsb_prio":
			attrs.LSBPrio, err = p.boolean()
		case "to_apply", "body":
			var t token
			t, err = p.ident()
			attrs.Callee = t.text
		case "cases":
			cases, err = p.operandList(b)
		case "invariant_args":
			invariants, err = p.operandList(b)
		case "default":
			var t token
			if t, err = p.ident(); err == nil {
				def, err = p.operand(b, t)
			}
		case "indices":
			var list []BValue
			list, err = p.operandList(b)
			if err == nil && len(list) != 1 {
				err = p.errorf(argTok, "exactly one index is supported, got %d", len(list))
			}
			if err == nil {
				index = list[0]
			}
		default:
			err = p.errorf(argTok, "unknown attribute %q", key)
		}
		if err != nil {
			return BValue{}, err
		}
	}

	switch op {
	case OpLiteral:
		if !seen["value"] {
			return BValue{}, p.errorf(opTok, "literal requires value=")
		}
	case OpSel:
		operands = append(operands, cases...)
		if seen["default"] {
			operands = append(operands, def)
			attrs.HasDefault = true
		}
	case OpArrayIndex:
		if seen["indices"] {
			operands = append(operands, index)
		}
	case OpArrayUpdate:
		if seen["indices"] && len(operands) == 2 {
			operands = []BValue{operands[0], index, operands[1]}
		}
	case OpCountedFor:
		operands = append(operands, invariants...)
	case OpUMul, OpSMul:
		attrs.Width = declared.BitCount()
	}

	v := b.add(nameTok.text, op, operands, attrs, declared)
	if v.node == nil {
		return BValue{}, p.positioned(nameTok, b.Err())
	}
	return v, nil
}

func (p *parser) operand(b *FunctionBuilder, t token) (BValue, error) {
	n, ok := b.fn.byName[t.text]
	if !ok {
		return BValue{}, p.errorf(t, "undefined operand %q", t.text)
	}
	return BValue{node: n}, nil
}

func (p *parser) operandList(b *FunctionBuilder) ([]BValue, error) {
	if _, err := p.expect("["); err != nil {
		return nil, err
	}
	var out []BValue
	for !p.accept("]") {
		if len(out) > 0 {
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}
		t, err := p.ident()
		if err != nil {
			return nil, err
		}
		v, err := p.operand(b, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (p *parser) boolean() (bool, error) {
	t := p.next()
	switch {
	case t.is("true"):
		return true, nil
	case t.is("false"):
		return false, nil
	}
	return false, p.errorf(t, "expected true or false, got %s", t.describe())
}

// positioned prefixes a builder error with the source position of tok.
func (p *parser) positioned(tok token, err error) error {
	kind := errors.KindInvalidInput
	var e *errors.Error
	if stderrors.As(err, &e) {
		kind = e.Kind
	}
	return errors.New(errors.PhaseParse, kind).
		Detail("%d:%d: %s", tok.line, tok.col, tok.text).
		Cause(err).
		Build()
}

func (p *parser) parseType() (*Type, error) {
	var t *Type
	tok := p.next()
	switch {
	case tok.is("bits"):
		if _, err := p.expect("["); err != nil {
			return nil, err
		}
		w, err := p.integer()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		t = BitsType(w)
	case tok.is("("):
		var elems []*Type
		for !p.accept(")") {
			if len(elems) > 0 {
				if _, err := p.expect(","); err != nil {
					return nil, err
				}
			}
			e, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		t = TupleType(elems...)
	default:
		return nil, p.errorf(tok, "expected type, got %s", tok.describe())
	}

	for p.peek().is("[") {
		p.next()
		countTok := p.peek()
		n, err := p.integer()
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, p.errorf(countTok, "array types need at least one element")
		}
		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
		t = ArrayType(t, n)
	}
	return t, nil
}

func (p *parser) parseValue(t *Type) (Value, error) {
	switch t.kind {
	case TypeArray:
		open, err := p.expect("[")
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, 0, t.count)
		for !p.accept("]") {
			if len(elems) > 0 {
				if _, err := p.expect(","); err != nil {
					return Value{}, err
				}
			}
			if len(elems) == t.count {
				return Value{}, p.errorf(p.peek(), "too many elements for %s", t)
			}
			e, err := p.parseValue(t.elem)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, e)
		}
		if len(elems) != t.count {
			return Value{}, p.errorf(open, "%s needs %d elements, got %d", t, t.count, len(elems))
		}
		return Value{kind: ValueArray, elems: elems}, nil

	case TypeTuple:
		open, err := p.expect("(")
		if err != nil {
			return Value{}, err
		}
		elems := make([]Value, 0, len(t.elems))
		for !p.accept(")") {
			if len(elems) > 0 {
				if _, err := p.expect(","); err != nil {
					return Value{}, err
				}
			}
			if len(elems) == len(t.elems) {
				return Value{}, p.errorf(p.peek(), "too many elements for %s", t)
			}
			e, err := p.parseValue(t.elems[len(elems)])
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, e)
		}
		if len(elems) != len(t.elems) {
			return Value{}, p.errorf(open, "%s needs %d elements, got %d", t, len(t.elems), len(elems))
		}
		return Value{kind: ValueTuple, elems: elems}, nil
	}

	if p.peek().is("bits") {
		start := p.peek()
		pt, err := p.parseType()
		if err != nil {
			return Value{}, err
		}
		if !pt.Equal(t) {
			return Value{}, p.errorf(start, "literal type %s does not match %s", pt, t)
		}
		if _, err := p.expect(":"); err != nil {
			return Value{}, err
		}
	}
	neg := p.accept("-")
	numTok := p.next()
	if numTok.kind != tokNumber {
		return Value{}, p.errorf(numTok, "expected number, got %s", numTok.describe())
	}
	text := numTok.text
	if neg {
		text = "-" + text
	}
	b, err := bits.Parse(text, t.width)
	if err != nil {
		return Value{}, p.positioned(numTok, err)
	}
	return BitsValue(b), nil
}
