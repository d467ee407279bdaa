package ir

// Op identifies the operation a node performs.
type Op uint8

const (
	OpParam Op = iota
	OpLiteral
	OpIdentity
	OpAdd
	OpSub
	OpNeg
	OpNot
	OpAnd
	OpOr
	OpXor
	OpNand
	OpNor
	OpEq
	OpNe
	OpULt
	OpULe
	OpUGt
	OpUGe
	OpSLt
	OpSLe
	OpSGt
	OpSGe
	OpShll
	OpShrl
	OpShra
	OpBitSlice
	OpConcat
	OpZeroExt
	OpSignExt
	OpAndReduce
	OpOrReduce
	OpXorReduce
	OpSel
	OpArray
	OpArrayIndex
	OpArrayUpdate
	OpTuple
	OpTupleIndex

	// Parsed and type checked, but not compiled.
	OpUMul
	OpSMul
	OpUDiv
	OpSDiv
	OpUMod
	OpSMod
	OpEncode
	OpDecode
	OpOneHot
	OpDynamicBitSlice
	OpInvoke
	OpMap
	OpCountedFor

	numOps
)

var opNames = [numOps]string{
	OpParam:           "param",
	OpLiteral:         "literal",
	OpIdentity:        "identity",
	OpAdd:             "add",
	OpSub:             "sub",
	OpNeg:             "neg",
	OpNot:             "not",
	OpAnd:             "and",
	OpOr:              "or",
	OpXor:             "xor",
	OpNand:            "nand",
	OpNor:             "nor",
	OpEq:              "eq",
	OpNe:              "ne",
	OpULt:             "ult",
	OpULe:             "ule",
	OpUGt:             "ugt",
	OpUGe:             "uge",
	OpSLt:             "slt",
	OpSLe:             "sle",
	OpSGt:             "sgt",
	OpSGe:             "sge",
	OpShll:            "shll",
	OpShrl:            "shrl",
	OpShra:            "shra",
	OpBitSlice:        "bit_slice",
	OpConcat:          "concat",
	OpZeroExt:         "zero_ext",
	OpSignExt:         "sign_ext",
	OpAndReduce:       "and_reduce",
	OpOrReduce:        "or_reduce",
	OpXorReduce:       "xor_reduce",
	OpSel:             "sel",
	OpArray:           "array",
	OpArrayIndex:      "array_index",
	OpArrayUpdate:     "array_update",
	OpTuple:           "tuple",
	OpTupleIndex:      "tuple_index",
	OpUMul:            "umul",
	OpSMul:            "smul",
	OpUDiv:            "udiv",
	OpSDiv:            "sdiv",
	OpUMod:            "umod",
	OpSMod:            "smod",
	OpEncode:          "encode",
	OpDecode:          "decode",
	OpOneHot:          "one_hot",
	OpDynamicBitSlice: "dynamic_bit_slice",
	OpInvoke:          "invoke",
	OpMap:             "map",
	OpCountedFor:      "counted_for",
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, numOps)
	for op := Op(0); op < numOps; op++ {
		m[opNames[op]] = op
	}
	return m
}()

func (op Op) String() string {
	if op < numOps {
		return opNames[op]
	}
	return "unknown"
}

// LookupOp maps an operation name to its Op.
func LookupOp(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// IsComparison reports whether op is one of the ordered comparisons.
func (op Op) IsComparison() bool {
	return op >= OpULt && op <= OpSGe
}

// IsBitwise reports whether op is an n-ary bitwise operation.
func (op Op) IsBitwise() bool {
	return op >= OpAnd && op <= OpNor
}

// IsReduction reports whether op reduces a bit vector to one bit.
func (op Op) IsReduction() bool {
	return op >= OpAndReduce && op <= OpXorReduce
}
