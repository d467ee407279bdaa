package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse      Phase = "parse"      // IR text parsing and function building
	PhaseCompile    Phase = "compile"    // lowering and code generation
	PhaseInvoke     Phase = "invoke"     // boxed or packed invocation
	PhasePack       Phase = "pack"       // packed view construction and access
	PhaseQuickCheck Phase = "quickcheck" // property search
	PhaseConfig     Phase = "config"     // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindSyntax       Kind = "syntax"
	KindTypeMismatch Kind = "type_mismatch"
	KindUnsupported  Kind = "unsupported"
	KindArgCount     Kind = "arg_count"
	KindUnknownArg   Kind = "unknown_arg"
	KindMissingArg   Kind = "missing_arg"
	KindShape        Kind = "shape"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindCodegen      Kind = "codegen"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Got    string // type or shape that was supplied
	Want   string // type or shape that was expected
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Got != "" || e.Want != "" {
		b.WriteString(": ")
		switch {
		case e.Got != "" && e.Want != "":
			b.WriteString("got ")
			b.WriteString(e.Got)
			b.WriteString(", want ")
			b.WriteString(e.Want)
		case e.Got != "":
			b.WriteString("got ")
			b.WriteString(e.Got)
		default:
			b.WriteString("want ")
			b.WriteString(e.Want)
		}
	}

	if e.Detail != "" {
		if e.Got != "" || e.Want != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Kind matches every error of the same Phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Kind == "" {
			return e.Phase == t.Phase
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks against the two caller-facing classes.
var (
	ErrCompilation     = &Error{Phase: PhaseCompile}
	ErrInvalidArgument = &Error{Phase: PhaseInvoke}
)

// IsCompilation reports whether err is (or wraps) a compilation error.
func IsCompilation(err error) bool {
	return errors.Is(err, ErrCompilation)
}

// IsInvalidArgument reports whether err is (or wraps) an invalid argument
// error raised by an invocation.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Got sets the supplied type name
func (b *Builder) Got(t string) *Builder {
	b.err.Got = t
	return b
}

// Want sets the expected type name
func (b *Builder) Want(t string) *Builder {
	b.err.Want = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindTypeMismatch,
		Path:  path,
		Got:   got,
		Want:  want,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Syntax creates a parse error positioned at line:col
func Syntax(line, col int, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Detail: fmt.Sprintf("%d:%d: %s", line, col, fmt.Sprintf(format, args...)),
	}
}

// ArgCount creates an argument count mismatch error
func ArgCount(got, want int) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindArgCount,
		Detail: fmt.Sprintf("got %d arguments, want %d", got, want),
		Value:  got,
	}
}

// UnknownArg creates an unknown named argument error
func UnknownArg(name string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindUnknownArg,
		Path:   []string{name},
		Detail: fmt.Sprintf("function has no parameter %q", name),
	}
}

// MissingArg creates a missing named argument error
func MissingArg(name string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindMissingArg,
		Path:   []string{name},
		Detail: fmt.Sprintf("required parameter %q not supplied", name),
	}
}

// Shape creates a packed shape error
func Shape(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShape,
		Path:   path,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NotFound creates a lookup failure error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   []string{name},
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Codegen wraps a backend failure as a compilation error
func Codegen(cause error, detail string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindCodegen,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
