// Package domainerrors defines the coded errors the service layers exchange.
// Transport translates codes into HTTP statuses; services create and inspect
// them without knowing about HTTP.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for transport translation and branching.
type Code string

const (
	// CodeInvalidInput marks client-caused field validation failures.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks malformed requests (unparseable body, bad path params).
	CodeBadRequest Code = "bad_request"
	// CodeConflict marks uniqueness violations on registration.
	CodeConflict Code = "conflict"
	// CodeUnauthorized covers invalid credentials and invalid/expired tokens.
	// It is intentionally a single code so responses never reveal which part
	// of a credential pair failed.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound marks missing records.
	CodeNotFound Code = "not_found"
	// CodeInternal marks operational failures; details stay in logs.
	CodeInternal Code = "internal"
)

// Error is a value type so two errors with the same code and message compare
// equal, which keeps errors.Is usable without sentinel plumbing.
type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// New builds a domain error with the given code and caller-facing message.
func New(code Code, message string) Error {
	return Error{Code: code, Message: message}
}

// Is reports whether err carries the given domain code.
func Is(err error, code Code) bool {
	var de Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal for
// anything that is not a domain error.
func CodeOf(err error) Code {
	var de Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
