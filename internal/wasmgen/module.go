package wasmgen

// PageSize is the wasm linear memory page size in bytes.
const PageSize = 65536

var header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00} // magic + version

// Module is a single-function module: one exported function of type
// () -> () operating on one exported linear memory.
type Module struct {
	Code        *Code
	FuncName    string
	MemoryName  string
	MemoryPages uint32
}

// Encode returns the binary module.
func (m *Module) Encode() []byte {
	buf := &Buffer{}
	buf.WriteBytes(header)

	types := &Buffer{}
	types.WriteU32(1)
	types.AppendByte(FuncTypeMarker)
	types.WriteU32(0) // params
	types.WriteU32(0) // results
	writeSection(buf, SectionType, types)

	funcs := &Buffer{}
	funcs.WriteU32(1)
	funcs.WriteU32(0)
	writeSection(buf, SectionFunc, funcs)

	mem := &Buffer{}
	mem.WriteU32(1)
	mem.WriteLimits(max(m.MemoryPages, 1), nil)
	writeSection(buf, SectionMemory, mem)

	exports := &Buffer{}
	exports.WriteU32(2)
	exports.WriteString(m.FuncName)
	exports.AppendByte(ExportKindFunc)
	exports.WriteU32(0)
	exports.WriteString(m.MemoryName)
	exports.AppendByte(ExportKindMemory)
	exports.WriteU32(0)
	writeSection(buf, SectionExport, exports)

	code := &Buffer{}
	code.WriteU32(1)
	body := m.Code.body()
	code.WriteU32(uint32(len(body.Bytes)))
	code.WriteBytes(body.Bytes)
	writeSection(buf, SectionCode, code)

	return buf.Bytes
}

// PagesFor returns the number of pages that hold n bytes.
func PagesFor(n int) uint32 {
	return uint32((n + PageSize - 1) / PageSize)
}

func writeSection(buf *Buffer, id byte, content *Buffer) {
	buf.AppendByte(id)
	buf.WriteU32(uint32(len(content.Bytes)))
	buf.WriteBytes(content.Bytes)
}
