package capability

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindMissingParameter ErrorKind = "missing_parameter"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindExecutionFailed  ErrorKind = "execution_failed"
)

// Error is the failure contract for capability handlers.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingParameter:
		return "Missing required parameter: " + e.Detail
	case KindPermissionDenied:
		return "Permission denied: " + e.Detail
	default:
		if e.Detail == "" && e.Err != nil {
			return e.Err.Error()
		}
		return e.Detail
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func MissingParameter(name string) *Error {
	return &Error{Kind: KindMissingParameter, Detail: name}
}

func PermissionDenied(reason string) *Error {
	return &Error{Kind: KindPermissionDenied, Detail: reason}
}

func ExecutionFailed(format string, args ...any) *Error {
	return &Error{Kind: KindExecutionFailed, Detail: fmt.Sprintf(format, args...)}
}

// Wrap turns any handler error into a capability error. Errors that already
// are one keep their kind.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Kind: KindExecutionFailed, Detail: err.Error(), Err: err}
}
