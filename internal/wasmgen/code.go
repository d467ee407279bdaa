package wasmgen

// Code accumulates the body of a function. Locals are declared up front in
// two groups: I64Locals i64 locals starting at index 0 followed by
// I32Locals i32 locals.
type Code struct {
	buf       Buffer
	I64Locals uint32
	I32Locals uint32
}

func (c *Code) body() *Buffer {
	out := &Buffer{}
	var groups uint32
	if c.I64Locals > 0 {
		groups++
	}
	if c.I32Locals > 0 {
		groups++
	}
	out.WriteU32(groups)
	if c.I64Locals > 0 {
		out.WriteU32(c.I64Locals)
		out.AppendByte(ValTypeI64)
	}
	if c.I32Locals > 0 {
		out.WriteU32(c.I32Locals)
		out.AppendByte(ValTypeI32)
	}
	out.WriteBytes(c.buf.Bytes)
	out.AppendByte(OpEnd)
	return out
}

// Len returns the number of instruction bytes emitted so far.
func (c *Code) Len() int { return len(c.buf.Bytes) }

// Op emits an instruction without immediates.
func (c *Code) Op(op byte) { c.buf.AppendByte(op) }

func (c *Code) LocalGet(i uint32) {
	c.buf.AppendByte(OpLocalGet)
	c.buf.WriteU32(i)
}

func (c *Code) LocalSet(i uint32) {
	c.buf.AppendByte(OpLocalSet)
	c.buf.WriteU32(i)
}

func (c *Code) LocalTee(i uint32) {
	c.buf.AppendByte(OpLocalTee)
	c.buf.WriteU32(i)
}

func (c *Code) I32Const(v int32) {
	c.buf.AppendByte(OpI32Const)
	c.buf.WriteI32(v)
}

// I64Const emits an i64.const of the bit pattern v.
func (c *Code) I64Const(v uint64) {
	c.buf.AppendByte(OpI64Const)
	c.buf.WriteI64(int64(v))
}

// Load pushes the i64 at byte address addr.
func (c *Code) Load(addr uint32) {
	c.I32Const(0)
	c.buf.AppendByte(OpI64Load)
	c.buf.WriteU32(3) // align 2^3
	c.buf.WriteU32(addr)
}

// StorePrefix pushes the base address of a store; emit the value next and
// finish with Store(addr).
func (c *Code) StorePrefix() { c.I32Const(0) }

// Store pops a value and the base address and stores at base+addr.
func (c *Code) Store(addr uint32) {
	c.buf.AppendByte(OpI64Store)
	c.buf.WriteU32(3)
	c.buf.WriteU32(addr)
}

// If opens an if block without results. The condition must be on the stack.
func (c *Code) If() {
	c.buf.AppendByte(OpIf)
	c.buf.AppendByte(BlockTypeEmpty)
}

func (c *Code) Else() { c.buf.AppendByte(OpElse) }
func (c *Code) End() { c.buf.AppendByte(OpEnd) }

// MemoryCopy pops (dst, src, n) byte addresses and copies n bytes.
func (c *Code) MemoryCopy() {
	c.buf.AppendByte(OpPrefixFC)
	c.buf.WriteU32(SubMemCopy)
	c.buf.AppendByte(0x00)
	c.buf.AppendByte(0x00)
}

// MemoryFill pops (dst, value, n) and fills n bytes.
func (c *Code) MemoryFill() {
	c.buf.AppendByte(OpPrefixFC)
	c.buf.WriteU32(SubMemFill)
	c.buf.AppendByte(0x00)
}
