package ir

import (
	"strconv"
	"strings"
)

func writeFunction(sb *strings.Builder, f *Function) {
	sb.WriteString("fn ")
	sb.WriteString(f.name)
	sb.WriteByte('(')
	for i, p := range f.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.name)
		sb.WriteString(": ")
		sb.WriteString(p.typ.String())
	}
	sb.WriteString(") -> ")
	sb.WriteString(f.ret.typ.String())
	sb.WriteString(" {\n")
	for _, n := range f.nodes {
		if n.op == OpParam {
			continue
		}
		sb.WriteString("  ")
		if n == f.ret {
			sb.WriteString("ret ")
		}
		writeNode(sb, n)
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
}

func writeNode(sb *strings.Builder, n *Node) {
	sb.WriteString(n.name)
	sb.WriteString(": ")
	sb.WriteString(n.typ.String())
	sb.WriteString(" = ")
	sb.WriteString(n.op.String())
	sb.WriteByte('(')

	var args []string
	operands := n.operands
	switch n.op {
	case OpSel:
		args = append(args, n.operands[0].name)
		args = append(args, "cases=["+joinNames(n.SelCases())+"]")
		if d, ok := n.SelDefault(); ok {
			args = append(args, "default="+d.name)
		}
		operands = nil
	case OpCountedFor:
		operands = n.operands[:1]
	}
	for _, o := range operands {
		args = append(args, o.name)
	}

	a := n.attrs
	switch n.op {
	case OpLiteral:
		args = append(args, "value="+ValueText(a.Value))
	case OpBitSlice:
		args = append(args, "start="+strconv.Itoa(a.Start), "width="+strconv.Itoa(a.Width))
	case OpDynamicBitSlice, OpDecode:
		args = append(args, "width="+strconv.Itoa(a.Width))
	case OpZeroExt, OpSignExt:
		args = append(args, "new_bit_count="+strconv.Itoa(a.NewBitCount))
	case OpTupleIndex:
		args = append(args, "index="+strconv.Itoa(a.Index))
	case OpOneHot:
		args = append(args, "lsb_prio="+strconv.FormatBool(a.LSBPrio))
	case OpInvoke, OpMap:
		args = append(args, "to_apply="+a.Callee)
	case OpCountedFor:
		args = append(args,
			"trip_count="+strconv.Itoa(a.TripCount),
			"stride="+strconv.Itoa(a.Stride),
			"body="+a.Callee)
		if len(n.operands) > 1 {
			args = append(args, "invariant_args=["+joinNames(n.operands[1:])+"]")
		}
	}
	sb.WriteString(strings.Join(args, ", "))
	sb.WriteByte(')')
}

func joinNames(nodes []*Node) string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.name
	}
	return strings.Join(names, ", ")
}
