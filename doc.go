// Package xls is a just-in-time execution engine for a bit-exact hardware
// intermediate representation.
//
// Functions operate on bit vectors of any width, fixed-size arrays and
// tuples. They are compiled once and then run any number of times, either
// with boxed values or directly on caller-owned packed buffers.
//
// # Architecture Overview
//
//	xls/
//	├── errors/           Structured error types (phase, kind, path)
//	├── bits/             Arbitrary-width bit vectors
//	├── ir/               Types, values, functions, builder, text parser and printer
//	├── packed/           Packed buffer views and the LSB-first layout
//	├── jit/              Lowering, native (wasm) and closure backends, ABI, cache
//	├── quickcheck/       Seeded property search, reports and replay
//	├── config/           xlsjit.yaml loading
//	├── internal/layout/  Frame layout of compiled functions
//	├── internal/wasmgen/ Wasm binary module writer
//	├── internal/codec/   Deterministic CBOR
//	└── cmd/xlsjit/       Command line tool
//
// # Quick Start
//
// Parse and compile a function, then run it:
//
//	fn, err := ir.ParseFunction(`
//	fn add(a: bits[8], b: bits[8]) -> bits[8] {
//	  ret sum: bits[8] = add(a, b)
//	}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f, err := jit.Compile(fn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	out, err := f.Run([]ir.Value{ir.UBitsValue(3, 8), ir.UBitsValue(4, 8)})
//	fmt.Println(out) // bits[8]:0x7
//
// # Packed Layout
//
// A packed value occupies FlatBitCount bits starting at a bit offset in a
// byte buffer, least significant bit first. Bit i lives in byte i/8 at bit
// i%8. Array element 0 occupies the lowest bits. Tuple elements are laid out
// in reverse, so the last element occupies the lowest bits. A view may start
// at any bit offset and bits outside it are never written.
//
// # Property Checking
//
// A function returning bits[1] can be checked with quickcheck:
//
//	res, err := quickcheck.CreateAndQuickCheck(fn, seed, 1000)
//	if args, ok := res.CounterExample(); ok {
//	    fmt.Println("falsified by", args)
//	}
//
// The same seed produces the same argument sets on every run.
//
// # Thread Safety
//
// A compiled jit.Function is safe for concurrent use. Views and boxed values
// passed to a call must not be modified by another goroutine during it.
package xls
