// Package layout computes native frame layouts for IR types.
//
// # Layout Rules
//
// The native frame is a flat slice of little-endian 64-bit limbs:
//   - bits[N]: ceil(N/64) limbs, bits above N always zero
//   - arrays: elements back to back, element 0 first
//   - tuples: elements back to back in declaration order
//
// There is no padding and no alignment beyond the limb. A leaf never shares
// a limb with another leaf, so compiled code can operate on whole limbs.
//
// This package is internal to the JIT.
package layout
