package ir

import (
	"strings"

	"github.com/shaunstanislauslau/xls/errors"
)

// Package owns the types and functions of one compilation unit.
type Package struct {
	types     map[string]*Type
	funcIndex map[string]*Function
	top       *Function
	name      string
	funcs     []*Function
}

// NewPackage creates an empty package.
func NewPackage(name string) *Package {
	return &Package{
		name:      name,
		types:     make(map[string]*Type),
		funcIndex: make(map[string]*Function),
	}
}

func (p *Package) Name() string { return p.name }

// intern returns the package's canonical instance of t.
func (p *Package) intern(t *Type) *Type {
	if got, ok := p.types[t.str]; ok {
		return got
	}
	switch t.kind {
	case TypeArray:
		t.elem = p.intern(t.elem)
	case TypeTuple:
		for i, e := range t.elems {
			t.elems[i] = p.intern(e)
		}
	}
	p.types[t.str] = t
	return t
}

// Intern returns the package-owned type structurally equal to t.
func (p *Package) Intern(t *Type) *Type {
	if got, ok := p.types[t.str]; ok {
		return got
	}
	return p.intern(copyType(t))
}

func (p *Package) GetBitsType(width int) *Type {
	return p.intern(BitsType(width))
}

func (p *Package) GetArrayType(count int, elem *Type) *Type {
	return p.intern(ArrayType(p.Intern(elem), count))
}

func (p *Package) GetTupleType(elems ...*Type) *Type {
	interned := make([]*Type, len(elems))
	for i, e := range elems {
		interned[i] = p.Intern(e)
	}
	return p.intern(TupleType(interned...))
}

// AddFunction registers fn. The first function added becomes the top
// function unless SetTop is called.
func (p *Package) AddFunction(fn *Function) error {
	if _, dup := p.funcIndex[fn.name]; dup {
		return errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Path(fn.name).
			Detail("duplicate function %q in package %q", fn.name, p.name).
			Build()
	}
	fn.pkg = p
	p.funcs = append(p.funcs, fn)
	p.funcIndex[fn.name] = fn
	return nil
}

// SetTop marks the entry function.
func (p *Package) SetTop(name string) error {
	fn, err := p.Function(name)
	if err != nil {
		return err
	}
	p.top = fn
	return nil
}

// Top returns the entry function: the one marked top, else the last one
// defined.
func (p *Package) Top() (*Function, error) {
	if p.top != nil {
		return p.top, nil
	}
	if len(p.funcs) == 0 {
		return nil, errors.NotFound(errors.PhaseParse, "function", "<top>")
	}
	return p.funcs[len(p.funcs)-1], nil
}

// Function looks up a function by name.
func (p *Package) Function(name string) (*Function, error) {
	if fn, ok := p.funcIndex[name]; ok {
		return fn, nil
	}
	return nil, errors.NotFound(errors.PhaseParse, "function", name)
}

// Functions returns the functions in definition order.
func (p *Package) Functions() []*Function { return p.funcs }

// String prints the package in IR text form.
func (p *Package) String() string {
	var sb strings.Builder
	sb.WriteString("package ")
	sb.WriteString(p.name)
	sb.WriteByte('\n')
	for _, fn := range p.funcs {
		sb.WriteByte('\n')
		if fn == p.top {
			sb.WriteString("top ")
		}
		writeFunction(&sb, fn)
	}
	return sb.String()
}

func copyType(t *Type) *Type {
	c := *t
	switch t.kind {
	case TypeArray:
		c.elem = copyType(t.elem)
	case TypeTuple:
		c.elems = make([]*Type, len(t.elems))
		for i, e := range t.elems {
			c.elems[i] = copyType(e)
		}
	}
	return &c
}
