// Package apperr defines the error taxonomy shared by the registration core.
//
// Every domain failure is an *Error carrying a Kind. Callers branch on the
// kind with errors.Is against the package sentinels:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for callers and transports.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a field-constraint or invariant violation. Blocks persistence.
	KindValidation
	// KindNotFound means the operation needs a record that does not exist.
	KindNotFound
	// KindPolicyViolation means the request breaks a registration rule
	// (closed or full event, check-in of a non-attending identity).
	KindPolicyViolation
	// KindConflict means optimistic concurrency retries were exhausted.
	KindConflict
	// KindStorage means the persistence layer failed. Safe to retry.
	KindStorage
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindPolicyViolation:
		return "policy_violation"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage_error"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrPolicyViolation = errors.New("policy violation")
	ErrConflict        = errors.New("concurrent modification")
	ErrStorage         = errors.New("storage unavailable")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindPolicyViolation:
		return ErrPolicyViolation
	case KindConflict:
		return ErrConflict
	case KindStorage:
		return ErrStorage
	default:
		return nil
	}
}

// FieldError describes one failed field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []FieldError
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	for i, f := range e.Fields {
		if i == 0 {
			b.WriteString(" (")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Field, f.Message)
		if i == len(e.Fields)-1 {
			b.WriteString(")")
		}
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldsOf returns the field errors of a validation failure.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Validation builds a validation error from collected field errors.
func Validation(op string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: "validation failed", Fields: fields}
}

// NotFound builds a not-found error.
func NotFound(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Policy builds a policy violation.
func Policy(op, format string, args ...any) *Error {
	return &Error{Kind: KindPolicyViolation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a conflict error wrapping the last version clash.
func Conflict(op string, err error) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: "event was modified concurrently, retry later", Err: err}
}

// Storage wraps a persistence failure.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

// FieldErrors accumulates field errors during validation.
type FieldErrors []FieldError

// Add records a failed constraint.
func (f *FieldErrors) Add(field, format string, args ...any) {
	*f = append(*f, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns a validation *Error, or nil when nothing was recorded.
func (f FieldErrors) Err(op string) error {
	if len(f) == 0 {
		return nil
	}
	return Validation(op, f...)
}
