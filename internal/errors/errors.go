package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Lagna error code.
type ErrorCode string

const (
	ErrInvalidBirthRecord   ErrorCode = "INVALID_BIRTH_RECORD"  // 400
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"       // 400
	ErrAmbiguousAddressing  ErrorCode = "AMBIGUOUS_ADDRESSING"  // 400
	ErrNotFound             ErrorCode = "NOT_FOUND"             // 404
	ErrNameAlreadyExists    ErrorCode = "NAME_ALREADY_EXISTS"   // 409
	ErrAscendantDegenerate  ErrorCode = "ASCENDANT_DEGENERATE"  // 422 (recorded as a chart degradation)
	ErrEphemerisUnavailable ErrorCode = "EPHEMERIS_UNAVAILABLE" // 503 (recorded as a chart degradation)
	ErrInternal             ErrorCode = "INTERNAL"              // 500
)

// LagnaError represents a structured error with code, status, and details.
type LagnaError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LagnaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidBirthRecord creates a 400 error for malformed birth data.
// field names the offending input so callers can point at it.
func NewInvalidBirthRecord(field, msg string) *LagnaError {
	return &LagnaError{
		Code:    ErrInvalidBirthRecord,
		Status:  400,
		Message: fmt.Sprintf("invalid birth record: %s: %s", field, msg),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LagnaError {
	return &LagnaError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewAmbiguousAddressing creates a 400 error for when both ID and name are provided.
func NewAmbiguousAddressing() *LagnaError {
	return &LagnaError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and name; use one addressing mode",
	}
}

// NewNotFound creates a 404 error for when a chart cannot be found.
func NewNotFound(identifier string) *LagnaError {
	return &LagnaError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("chart not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNameAlreadyExists creates a 409 error for name collisions.
func NewNameAlreadyExists(owner, name string) *LagnaError {
	return &LagnaError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("chart with name %q already exists for owner %q", name, owner),
		Details: map[string]any{"owner": owner, "name": name},
	}
}

// NewAscendantDegenerate creates a 422 error describing a non-finite ascendant.
func NewAscendantDegenerate(latitude float64, cause string) *LagnaError {
	return &LagnaError{
		Code:    ErrAscendantDegenerate,
		Status:  422,
		Message: fmt.Sprintf("ascendant degenerate at latitude %.4f: %s", latitude, cause),
		Details: map[string]any{"latitude": latitude},
	}
}

// NewEphemerisUnavailable creates a 503 error for a body the provider could not resolve.
func NewEphemerisUnavailable(body string, err error) *LagnaError {
	msg := "provider failed"
	if err != nil {
		msg = err.Error()
	}
	return &LagnaError{
		Code:    ErrEphemerisUnavailable,
		Status:  503,
		Message: fmt.Sprintf("ephemeris unavailable for %s: %s", body, msg),
		Details: map[string]any{"body": body},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The underlying error is kept in Details for logging, not in Message.
func NewInternal(err error) *LagnaError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &LagnaError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if err (or anything it wraps) is a LagnaError with the given code.
func Is(err error, code ErrorCode) bool {
	var lErr *LagnaError
	if stderrors.As(err, &lErr) {
		return lErr.Code == code
	}
	return false
}

// As returns the LagnaError wrapped in err, if any.
func As(err error) (*LagnaError, bool) {
	var lErr *LagnaError
	if stderrors.As(err, &lErr) {
		return lErr, true
	}
	return nil, false
}
