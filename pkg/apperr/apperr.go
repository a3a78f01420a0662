package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the categories callers are expected
// to handle distinctly.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindAccessDenied
	KindInvalidState
	KindStorageFailure
)

// String returns the canonical name of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindAccessDenied:
		return "ACCESS_DENIED"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindStorageFailure:
		return "STORAGE_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Error is a tagged error carrying its classification kind. Services return
// these instead of bare strings so handlers can map each category to the
// right response without string matching.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgument marks caller input as malformed (e.g. non-positive ids)
func InvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// NotFound marks a referenced entity as missing
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// AccessDenied marks an authorization failure
func AccessDenied(format string, args ...interface{}) error {
	return &Error{Kind: KindAccessDenied, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState marks a business-rule violation against current entity state
func InvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// StorageFailure wraps an underlying store error. err may be nil when the
// store reported an impossible row count rather than an error.
func StorageFailure(msg string, err error) error {
	return &Error{Kind: KindStorageFailure, Msg: msg, Err: err}
}

// KindOf extracts the classification from err, unwrapping as needed.
// Errors without a tag report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error's kind to the response code the API contract
// prescribes. Untagged errors are treated as server-side failures.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAccessDenied:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusConflict
	case KindStorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
