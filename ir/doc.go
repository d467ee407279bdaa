// Package ir holds the typed dataflow IR consumed by the JIT: types,
// values, packages, functions and nodes, together with a text parser, a
// printer that round-trips it and a programmatic FunctionBuilder.
//
// IR text looks like:
//
//	package p
//
//	fn add_one(x: bits[8]) -> bits[8] {
//	  literal.1: bits[8] = literal(value=1)
//	  ret add.2: bits[8] = add(x, literal.1)
//	}
//
// Tuples are written most significant element first. Arrays are written
// with a suffix count, so bits[8][4] is four bytes.
package ir
