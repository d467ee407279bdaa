// Package quickcheck searches for counter-examples to boolean IR
// properties.
//
// A property is a function returning bits[1]. CreateAndQuickCheck compiles
// it once and runs it against generated argument sets until a trial
// returns 0 or the budget is spent. Generation is driven by a PCG source
// seeded from the caller's seed, so a (function, seed, budget) triple
// always yields the same trials.
//
// Runs can be summarized as a Report, encoded as deterministic CBOR and
// replayed later against the same function.
package quickcheck
