package ir

// Attrs holds the keyword attributes of a node. Only the fields relevant to
// the node's Op are meaningful.
type Attrs struct {
	Value       Value  // literal
	Callee      string // invoke, map, counted_for
	Start       int    // bit_slice
	Width       int    // bit_slice, dynamic_bit_slice, decode
	NewBitCount int    // zero_ext, sign_ext
	Index       int    // tuple_index
	TripCount   int    // counted_for
	Stride      int    // counted_for
	HasDefault  bool   // sel: the last operand is the default case
	LSBPrio     bool   // one_hot
}

// Node is one operation in a function body. Nodes are immutable once the
// owning function is built.
type Node struct {
	typ      *Type
	fn       *Function
	name     string
	operands []*Node
	attrs    Attrs
	id       int
	op       Op
}

// ID is the node's position in its function, parameters first.
func (n *Node) ID() int { return n.id }

func (n *Node) Name() string { return n.name }
func (n *Node) Op() Op { return n.op }
func (n *Node) Type() *Type { return n.typ }
func (n *Node) Operands() []*Node { return n.operands }
func (n *Node) Operand(i int) *Node { return n.operands[i] }
func (n *Node) Attrs() Attrs { return n.attrs }
func (n *Node) Function() *Function { return n.fn }

// SelCases returns the case operands of a sel node.
func (n *Node) SelCases() []*Node {
	end := len(n.operands)
	if n.attrs.HasDefault {
		end--
	}
	return n.operands[1:end]
}

// SelDefault returns the default operand of a sel node, if any.
func (n *Node) SelDefault() (*Node, bool) {
	if !n.attrs.HasDefault {
		return nil, false
	}
	return n.operands[len(n.operands)-1], true
}
