package fault

import "github.com/pkg/errors"

// Kind distinguishes the error categories the core is allowed to raise.
// Kinds are never collapsed into one another; callers switch on Kind to
// decide whether a condition is a guest-input problem, an internal
// invariant violation, a known-missing feature, or host exhaustion.
type Kind int

const (
	// InvalidArgument: an IR builder received incompatible operand types
	// or an out-of-range index.
	InvalidArgument Kind = iota + 1
	// LogicError: a violated invariant, e.g. allocating a phi of a
	// disallowed type or freeing a register that was never allocated.
	LogicError
	// NotImplemented: a reachable but unsupported opcode or pattern.
	NotImplemented
	// RuntimeError: unavoidable host-side exhaustion, e.g. no free
	// generic location during legacy-attribute placement.
	RuntimeError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case LogicError:
		return "LogicError"
	case NotImplemented:
		return "NotImplemented"
	case RuntimeError:
		return "RuntimeError"
	default:
		return "UnknownKind"
	}
}

// Error is a Kind-tagged error. It wraps github.com/pkg/errors so that
// stack traces survive from the raise site to the outermost entry point.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

// Cause returns the wrapped error, for errors.Cause interop.
func (e *Error) Cause() error { return e.cause }

// Unwrap supports errors.Is/As against the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// New raises a Kind-tagged error from a plain message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Newf raises a Kind-tagged error from a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Wrap tags an existing error with a Kind, preserving its stack if it
// already carries one.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.WithStack(cause)}
}

// Explain tags cause with Kind and prepends msg, mirroring cause.Explain
// from the teacher's error-wrapping convention.
func Explain(kind Kind, cause error, msg string) error {
	if cause == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, cause: errors.WithMessage(cause, msg)}
}

// KindOf reports the Kind of err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	for err != nil {
		if fe, ok := err.(*Error); ok {
			e = fe
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return 0, false
	}
	return e.Kind, true
}
