package ir

import (
	"strings"

	"github.com/shaunstanislauslau/xls/errors"
)

// Function is a typed dataflow graph with ordered parameters and a single
// return node. Nodes are stored in topological order.
type Function struct {
	pkg    *Package
	ret    *Node
	byName map[string]*Node
	name   string
	params []*Node
	nodes  []*Node
}

func (f *Function) Name() string { return f.name }
func (f *Function) Package() *Package { return f.pkg }
func (f *Function) Params() []*Node { return f.params }
func (f *Function) Nodes() []*Node { return f.nodes }
func (f *Function) Return() *Node { return f.ret }
func (f *Function) ReturnType() *Type { return f.ret.typ }
func (f *Function) NodeCount() int { return len(f.nodes) }
func (f *Function) Param(i int) *Node { return f.params[i] }
func (f *Function) ParamCount() int { return len(f.params) }

// ParamIndex returns the position of the named parameter.
func (f *Function) ParamIndex(name string) (int, bool) {
	for i, p := range f.params {
		if p.name == name {
			return i, true
		}
	}
	return 0, false
}

// Node looks up a node by name.
func (f *Function) Node(name string) (*Node, error) {
	if n, ok := f.byName[name]; ok {
		return n, nil
	}
	return nil, errors.NotFound(errors.PhaseParse, "node", name)
}

// Signature returns the function type, e.g. (bits[8], bits[8]) -> bits[8].
func (f *Function) Signature() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range f.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.typ.String())
	}
	sb.WriteString(") -> ")
	sb.WriteString(f.ret.typ.String())
	return sb.String()
}

// String prints the function in IR text form.
func (f *Function) String() string {
	var sb strings.Builder
	writeFunction(&sb, f)
	return sb.String()
}
