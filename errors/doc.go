// Package errors provides structured error types for the xls JIT.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the element path, the supplied and expected type
// names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
//		Path("args", "x").
//		Got("bits[7]").
//		Want("bits[8]").
//		Detail("argument type does not match parameter").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseInvoke, path, "bits[7]", "bits[8]")
//	err := errors.Unsupported(errors.PhaseCompile, "umul")
//
// Two phases are caller-facing classes: PhaseCompile errors are compilation
// errors (IsCompilation) and PhaseInvoke errors are invalid arguments
// (IsInvalidArgument). All errors implement the standard error interface
// and support errors.Is/As.
package errors
