// Package jit compiles IR functions into reusable native artifacts.
//
// A function is lowered into a limb program over a single frame of 64-bit
// words. Parameters occupy the start of the frame in declaration order,
// followed by one slot per node. Aggregates are stored contiguously, array
// elements in index order and tuple elements in declaration order, with
// every Bits leaf rounded up to whole limbs.
//
// # Backends
//
//	native   - the program is emitted as a WebAssembly module with one
//	           exported function and compiled by wazero
//	closure  - the program becomes a slice of Go closures
//	auto     - native unless the program uses an instruction the emitter
//	           does not lower (dynamic shifts), then closure
//
// Both backends consume the same program and agree bit for bit.
//
// # Calling conventions
//
// Run and RunNamed take boxed ir.Values. RunWithPackedViews moves bits
// straight between caller buffers and the frame using the packed leaf plan
// of each parameter, so no ir.Value is built:
//
//	f, err := jit.Compile(fn)
//	...
//	err = f.RunWithPackedViews(
//		packed.BitsView(a, 0, 44),
//		packed.BitsView(b, 0, 44),
//		packed.BitsView(out, 0, 44))
//
// A compiled Function is safe for concurrent use. Each call takes a frame
// from a pool; the native backend also keeps a pool of module instances so
// concurrent calls never share linear memory.
package jit
