// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode defines supported error codes used across services
// Values are stable for wire compatibility; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable is for transient errors where retry may succeed
	ErrorCodeUnavailable

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for validation failures (input data)
	ErrorCodeValidation

	// ErrorCodeJSON is for JSON parsing/validation errors
	ErrorCodeJSON

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey is for unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB is for general database errors
	ErrorCodeDB

	// Capture error categories. All are recoverable by retrying Start.

	// ErrorCodeCaptureUnsupported means the device has no speech capture capability
	ErrorCodeCaptureUnsupported

	// ErrorCodeCapturePermission means microphone permission was denied
	ErrorCodeCapturePermission

	// ErrorCodeCaptureNoSpeech means the device session ended without detecting speech
	ErrorCodeCaptureNoSpeech

	// ErrorCodeCaptureTransport is a device session network/transport failure
	ErrorCodeCaptureTransport

	// ErrorCodeCaptureAborted means the device session was torn down mid capture
	ErrorCodeCaptureAborted

	// Parse failure reasons. Values the caller inspects, never thrown past the orchestrator.

	// ErrorCodeParseNoProjectMatch means no known project could be resolved from the text
	ErrorCodeParseNoProjectMatch

	// ErrorCodeParseNoJSON means the completion response contained no JSON object
	ErrorCodeParseNoJSON

	// ErrorCodeParseMissingField means the completion JSON lacked date, project_name, or hours
	ErrorCodeParseMissingField

	// ErrorCodeParseServiceUnreachable is a completion transport/HTTP failure
	ErrorCodeParseServiceUnreachable

	// ErrorCodeParseUnrecognizable means both parse paths failed for the utterance
	ErrorCodeParseUnrecognizable

	// ErrorCodeBudgetViolation means even the minimum entry floor does not fit the remaining budget
	ErrorCodeBudgetViolation
)

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeParseNoProjectMatch,
		ErrorCodeParseNoJSON,
		ErrorCodeParseMissingField,
		ErrorCodeParseUnrecognizable:
		return http.StatusUnprocessableEntity
	case ErrorCodeBudgetViolation:
		return http.StatusConflict
	case ErrorCodeParseServiceUnreachable, ErrorCodeUnavailable, ErrorCodeCaptureTransport:
		return http.StatusServiceUnavailable
	case ErrorCodeCaptureUnsupported,
		ErrorCodeCapturePermission,
		ErrorCodeCaptureNoSpeech,
		ErrorCodeCaptureAborted:
		return http.StatusUnprocessableEntity
	case ErrorCodeDB, ErrorCodePanic, ErrorCodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Reason returns the stable human-readable reason slug for a code, empty for infra codes
func Reason(c ErrorCode) string {
	switch c {
	case ErrorCodeCaptureUnsupported:
		return "unsupported"
	case ErrorCodeCapturePermission:
		return "permission-denied"
	case ErrorCodeCaptureNoSpeech:
		return "no-speech"
	case ErrorCodeCaptureTransport:
		return "transport"
	case ErrorCodeCaptureAborted:
		return "aborted"
	case ErrorCodeParseNoProjectMatch:
		return "no-project-match"
	case ErrorCodeParseNoJSON:
		return "no-json-in-response"
	case ErrorCodeParseMissingField:
		return "missing-field"
	case ErrorCodeParseServiceUnreachable:
		return "service-unreachable"
	case ErrorCodeParseUnrecognizable:
		return "unrecognizable-text"
	case ErrorCodeBudgetViolation:
		return "budget-violation"
	default:
		return ""
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire {
	return Wire{Code: e.code, Reason: Reason(e.code), Message: e.msg, Field: e.field}
}

// WireFrom converts any error into a Wire payload with best-effort mapping
// If err is nil, returns the zero-value Wire (no error)
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// IsCapture reports whether err carries a capture category
func IsCapture(err error) bool {
	c := CodeOf(err)
	return c >= ErrorCodeCaptureUnsupported && c <= ErrorCodeCaptureAborted
}

// IsParseFailure reports whether err carries a parse failure reason
func IsParseFailure(err error) bool {
	c := CodeOf(err)
	return c >= ErrorCodeParseNoProjectMatch && c <= ErrorCodeParseUnrecognizable
}

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// DuplicateKeyf returns a duplicate key error
func DuplicateKeyf(format string, a ...any) error { return Newf(ErrorCodeDuplicateKey, format, a...) }

// DBf returns a general database error
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// NoProjectMatchf returns a parse failure naming the unmatched project reference
func NoProjectMatchf(format string, a ...any) error {
	return Newf(ErrorCodeParseNoProjectMatch, format, a...)
}

// Unrecognizablef returns the terminal parse failure when both paths gave up
func Unrecognizablef(format string, a ...any) error {
	return Newf(ErrorCodeParseUnrecognizable, format, a...)
}

// BudgetViolationf returns a budget violation error
func BudgetViolationf(format string, a ...any) error {
	return Newf(ErrorCodeBudgetViolation, format, a...)
}

// HTTP bundles status + wire in one shot (nice for handlers)
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}
