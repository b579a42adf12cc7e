package scheduling

import "fmt"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is the only error type the engine reports for policy rejections.
// Anything else coming out of the engine is a store failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == ""
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrForbidden  = &Error{Kind: KindForbidden}
)

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func notFound(msg string) *Error  { return &Error{Kind: KindNotFound, Message: msg} }
func forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }
