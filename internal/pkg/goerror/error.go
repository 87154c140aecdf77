package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors repositories return so use cases can translate storage
// outcomes without importing driver packages.
var (
	// ErrNotFound means the requested row or object does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict means a uniqueness or concurrency rule blocked the
	// write.
	ErrConflict = errors.New("resource conflict")
)

// Type buckets an error by where the fault lies.
type Type int

const (
	// TypeServer covers infrastructure and dependency failures.
	TypeServer Type = iota
	// TypeBusiness covers domain rule violations.
	TypeBusiness
	// TypeValidation covers rejected request input.
	TypeValidation
)

// String names the type for logs and response envelopes.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is the stable identifier an error maps to, driving both the HTTP
// status and the machine-readable code in responses.
type Code int

const (
	// CodeInternal is an internal or unclassified failure.
	CodeInternal Code = iota
	// CodeInvalidFormat is a request body that could not be parsed.
	CodeInvalidFormat
	// CodeInvalidInput is a parsed request that failed validation.
	CodeInvalidInput
	// CodeNotFound is a missing resource.
	CodeNotFound
	// CodeConflict is a duplicate or state conflict.
	CodeConflict
	// CodeTooManyRequest is a rate limit rejection.
	CodeTooManyRequest
	// CodeUnauthorized is a failed authentication.
	CodeUnauthorized
	// CodeForbidden is an authenticated caller without permission.
	CodeForbidden
	// CodeTimeout is an exceeded deadline.
	CodeTimeout
)

// String names the code for logs and response envelopes.
func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeTooManyRequest:
		return "ERROR_CODE_TOO_MANY_REQUESTS"
	case CodeUnauthorized:
		return "ERROR_CODE_UNAUTHORIZED"
	case CodeForbidden:
		return "ERROR_CODE_FORBIDDEN"
	case CodeInternal:
		return "ERROR_CODE_INTERNAL"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is the structured error every use case returns. It wraps the
// underlying cause while carrying the user-facing message, type and code
// the HTTP layer renders.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Logical business not meet with requirement"
	case TypeServer:
		return "Internal error"
	default:
		return "Unknown error"
	}
}

// String renders the full error detail for debugging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the user-facing message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the fault bucket.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Fields returns per-field validation messages, if any.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode translates the error code into an HTTP status.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTimeout:
		return http.StatusRequestTimeout
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeConflict:
		return http.StatusConflict
	case CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func build(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer wraps an infrastructure failure. The cause stays available
// through Unwrap but the rendered message is generic.
func NewServer(err error) error {
	return build(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness reports a domain rule violation with the given message and
// code.
func NewBusiness(msg string, code Code) error {
	return build(nil, msg, TypeBusiness, code)
}

// NewInvalidInput reports rejected input. Pass the validator error, or
// alternating field/message pairs for hand-built field errors.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return build(err, "Validation error", TypeValidation, CodeInvalidInput)
	}

	if len(kv)%2 != 0 {
		return build(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	fieldErr := &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	fieldErr.fields = make(map[string]string, len(kv)/2)

	for i := 0; i+1 < len(kv); i += 2 {
		fieldErr.fields[kv[i]] = kv[i+1]
	}

	return fieldErr
}

// NewInvalidFormat reports a request body that could not be decoded.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return build(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}
	return build(nil, msgs[0], TypeValidation, CodeInvalidFormat)
}
