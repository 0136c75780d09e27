package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCopy    Phase = "copy"    // slot copy operations
	PhaseRelease Phase = "release" // ownership transfer
	PhaseLift    Phase = "lift"    // guest memory to host
	PhaseLower   Phase = "lower"   // host to guest memory
	PhaseBind    Phase = "bind"    // host function registration
	PhaseCheck   Phase = "check"   // conformance checks
)

// Kind categorizes the error
type Kind string

const (
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindUseAfterRelease  Kind = "use_after_release"
	KindInvalidHandle    Kind = "invalid_handle"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindTypeMismatch     Kind = "type_mismatch"
	KindRegistration     Kind = "registration"
	KindNotFound         Kind = "not_found"
	KindInvalidInput     Kind = "invalid_input"
)

// Error is the structured error type used throughout the fixture
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
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

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
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

// CapacityExceeded creates the slot-overflow error: the payload does not fit
// the fixed-capacity slot, terminator included.
func CapacityExceeded(phase Phase, size, capacity int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacityExceeded,
		Detail: fmt.Sprintf("%d bytes (plus terminator) exceed slot capacity %d", size, capacity),
		Value:  size,
	}
}

// UseAfterRelease creates an error for touching a consumed buffer
func UseAfterRelease(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUseAfterRelease,
		Op:     op,
		Detail: "buffer already released",
	}
}

// InvalidHandle creates an error for an unknown or consumed handle
func InvalidHandle(phase Phase, handle uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("handle %d is not live", handle),
		Value:  handle,
	}
}

// OutOfBounds creates an error for a memory access outside the caller's memory
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access out of bounds: offset=%d, length=%d", offset, length),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, op string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Op:     op,
		Detail: fmt.Sprintf("unexpected Go type %s", goType),
	}
}

// Registration creates a host function registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
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

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
