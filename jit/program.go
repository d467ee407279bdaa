package jit

import (
	"fmt"
	"io"
	"strings"
)

// Opcode is a limb-level instruction of the lowered program. Operands are
// limb offsets into the frame.
type Opcode uint8

const (
	InstCopy     Opcode = iota // Dst[0:N] = A[0:N]
	InstZero                   // Dst[0:N] = 0
	InstConst                  // Dst[0:N] = Imm
	InstAdd                    // Dst = (A + B) & Mask, N limbs
	InstSub                    // Dst = (A - B) & Mask, N limbs
	InstNot                    // Dst = ^A & Mask
	InstAnd                    // Dst = A & B
	InstOr                     // Dst = A | B
	InstXor                    // Dst = A ^ B
	InstEq                     // Dst[0] = A[0:N] == B[0:N], or != with Invert
	InstLt                     // Dst[0] = A < B over Width bits, Signed, Invert
	InstCopyBits               // Dst |= Pieces taken from A
	InstSignExt                // if bit SignBit of A is set, Dst |= Fill
	InstReduce                 // Dst[0] = Reduce(A) over Width bits
	InstShift                  // Dst = A shifted by B (IdxLimbs limbs)
	InstIndex                  // Dst[0:N] = A[clamp(B)*N:]
	InstUpdate                 // Dst[B*N:] = C[0:N] when B < Count
	InstSelect                 // Dst[0:N] = Cases[B] or Default
)

var opcodeNames = [...]string{
	InstCopy:     "copy",
	InstZero:     "zero",
	InstConst:    "const",
	InstAdd:      "add",
	InstSub:      "sub",
	InstNot:      "not",
	InstAnd:      "and",
	InstOr:       "or",
	InstXor:      "xor",
	InstEq:       "eq",
	InstLt:       "lt",
	InstCopyBits: "copy_bits",
	InstSignExt:  "sign_ext",
	InstReduce:   "reduce",
	InstShift:    "shift",
	InstIndex:    "index",
	InstUpdate:   "update",
	InstSelect:   "select",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op(%d)", op)
}

// ReduceKind selects the reduction of InstReduce.
type ReduceKind uint8

const (
	ReduceAnd ReduceKind = iota
	ReduceOr
	ReduceXor
)

// ShiftKind selects the shift of InstShift.
type ShiftKind uint8

const (
	ShiftLeft ShiftKind = iota
	ShiftRightLogical
	ShiftRightArith
)

// Piece moves up to 64 bits from one source limb into one destination
// limb: Dst |= ((Src >> SrcShift) & Mask) << DstShift.
type Piece struct {
	Mask     uint64
	Dst      int
	Src      int
	DstShift uint
	SrcShift uint
}

// LimbMask is a limb offset with the bits to set in it.
type LimbMask struct {
	Mask uint64
	Limb int
}

// Inst is one instruction. Only the fields used by its Opcode are set.
type Inst struct {
	Imm      []uint64
	Pieces   []Piece
	Fill     []LimbMask
	Cases    []int
	Mask     uint64
	Node     string // IR node the instruction belongs to
	Dst      int
	A        int
	B        int
	C        int
	N        int // limbs per operand or element
	Width    int
	IdxLimbs int
	Count    int
	Default  int // -1 when the select has no default
	SignBit  int
	Op       Opcode
	Reduce   ReduceKind
	Shift    ShiftKind
	Signed   bool
	Invert   bool
}

// Program is a function lowered to limb instructions over one frame.
// Parameters occupy the start of the frame in declaration order.
type Program struct {
	Insts       []Inst
	FrameLimbs  int
	ParamLimbs  int
	ReturnOff   int
	ReturnLimbs int
}

// Uses reports whether the program contains op.
func (p *Program) Uses(op Opcode) bool {
	for i := range p.Insts {
		if p.Insts[i].Op == op {
			return true
		}
	}
	return false
}

// WriteTo prints an instruction listing.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frame %d limbs, params [0, %d), return [%d, %d)\n",
		p.FrameLimbs, p.ParamLimbs, p.ReturnOff, p.ReturnOff+p.ReturnLimbs)
	node := ""
	for i := range p.Insts {
		in := &p.Insts[i]
		if in.Node != node {
			node = in.Node
			fmt.Fprintf(&sb, "  ; %s\n", node)
		}
		fmt.Fprintf(&sb, "  %4d  %s\n", i, in.describe())
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func (in *Inst) describe() string {
	switch in.Op {
	case InstCopy:
		return fmt.Sprintf("copy     r%d <- r%d x%d", in.Dst, in.A, in.N)
	case InstZero:
		return fmt.Sprintf("zero     r%d x%d", in.Dst, in.N)
	case InstConst:
		return fmt.Sprintf("const    r%d <- %#x", in.Dst, in.Imm)
	case InstAdd, InstSub, InstAnd, InstOr, InstXor:
		return fmt.Sprintf("%-8s r%d <- r%d, r%d x%d mask %#x", in.Op, in.Dst, in.A, in.B, in.N, in.Mask)
	case InstNot:
		return fmt.Sprintf("not      r%d <- r%d x%d mask %#x", in.Dst, in.A, in.N, in.Mask)
	case InstEq:
		name := "eq"
		if in.Invert {
			name = "ne"
		}
		return fmt.Sprintf("%-8s r%d <- r%d, r%d x%d", name, in.Dst, in.A, in.B, in.N)
	case InstLt:
		name := "ult"
		if in.Signed {
			name = "slt"
		}
		if in.Invert {
			name = "!" + name
		}
		return fmt.Sprintf("%-8s r%d <- r%d, r%d width %d", name, in.Dst, in.A, in.B, in.Width)
	case InstCopyBits:
		return fmt.Sprintf("copybits r%d <- r%d pieces %d", in.Dst, in.A, len(in.Pieces))
	case InstSignExt:
		return fmt.Sprintf("signext  r%d <- r%d bit %d fill %d", in.Dst, in.A, in.SignBit, len(in.Fill))
	case InstReduce:
		kinds := [...]string{"and", "or", "xor"}
		return fmt.Sprintf("reduce   r%d <- %s r%d width %d", in.Dst, kinds[in.Reduce], in.A, in.Width)
	case InstShift:
		kinds := [...]string{"shll", "shrl", "shra"}
		return fmt.Sprintf("%-8s r%d <- r%d, r%d width %d", kinds[in.Shift], in.Dst, in.A, in.B, in.Width)
	case InstIndex:
		return fmt.Sprintf("index    r%d <- r%d[r%d] count %d x%d", in.Dst, in.A, in.B, in.Count, in.N)
	case InstUpdate:
		return fmt.Sprintf("update   r%d[r%d] <- r%d count %d x%d", in.Dst, in.B, in.C, in.Count, in.N)
	case InstSelect:
		return fmt.Sprintf("select   r%d <- r%d ? %v default %d x%d", in.Dst, in.B, in.Cases, in.Default, in.N)
	}
	return in.Op.String()
}
