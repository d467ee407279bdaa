package wasmgen

// Section ids.
const (
	SectionType   byte = 1
	SectionFunc   byte = 3
	SectionMemory byte = 5
	SectionExport byte = 7
	SectionCode   byte = 10
)

// Value types and markers.
const (
	ValTypeI32     byte = 0x7F
	ValTypeI64     byte = 0x7E
	FuncTypeMarker byte = 0x60
	BlockTypeEmpty byte = 0x40

	ExportKindFunc   byte = 0x00
	ExportKindMemory byte = 0x02
)

// Opcodes used by the emitter.
const (
	OpIf     byte = 0x04
	OpElse   byte = 0x05
	OpEnd    byte = 0x0B
	OpSelect byte = 0x1B

	OpLocalGet byte = 0x20
	OpLocalSet byte = 0x21
	OpLocalTee byte = 0x22

	OpI64Load  byte = 0x29
	OpI64Store byte = 0x37

	OpI32Const byte = 0x41
	OpI64Const byte = 0x42

	OpI32Eqz byte = 0x45
	OpI32Eq  byte = 0x46
	OpI32Ne  byte = 0x47
	OpI32LtU byte = 0x49
	OpI32GtU byte = 0x4B

	OpI64Eqz byte = 0x50
	OpI64Eq  byte = 0x51
	OpI64Ne  byte = 0x52
	OpI64LtS byte = 0x53
	OpI64LtU byte = 0x54
	OpI64GtU byte = 0x56

	OpI32Add byte = 0x6A
	OpI32Sub byte = 0x6B
	OpI32Mul byte = 0x6C
	OpI32And byte = 0x71
	OpI32Or  byte = 0x72

	OpI64Popcnt byte = 0x7B
	OpI64Add    byte = 0x7C
	OpI64Sub    byte = 0x7D
	OpI64And    byte = 0x83
	OpI64Or     byte = 0x84
	OpI64Xor    byte = 0x85
	OpI64Shl    byte = 0x86
	OpI64ShrU   byte = 0x88

	OpI32WrapI64    byte = 0xA7
	OpI64ExtendI32U byte = 0xAD

	OpPrefixFC byte = 0xFC
)

// Sub-opcodes under the 0xFC prefix.
const (
	SubMemCopy = 10
	SubMemFill = 11
)
