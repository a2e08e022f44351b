// Package domainerrors provides coded domain errors for the registry.
//
// Every failed operation maps to exactly one Code. Services construct these
// with New or translate infrastructure sentinels with Wrap; the transport
// layer maps codes to HTTP statuses. Callers branch on codes with HasCode,
// never on message text.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of precondition violation a failed operation hit.
type Code string

const (
	CodeUnauthorized      Code = "unauthorized"
	CodeContractPaused    Code = "contract_paused"
	CodeInvalidAreaID     Code = "invalid_area_identifier"
	CodeInvalidMetadata   Code = "invalid_metadata"
	CodeDuplicateArea     Code = "duplicate_area"
	CodeInvalidRecipient  Code = "invalid_recipient"
	CodeInvalidMinter     Code = "invalid_minter"
	CodeAlreadyRegistered Code = "already_registered"
	CodeInvalidGPS        Code = "invalid_gps"
	CodeInvalidGoals      Code = "invalid_goals"
	CodeInvalidRoyalty    Code = "invalid_royalty"
	CodeNotOwner          Code = "not_owner"
	CodeInvalidStatus     Code = "invalid_status_update"
	CodeNotFound          Code = "not_found"

	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"
)

// Error is a domain error carrying a machine-readable code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode; it reads better at call sites that branch on
// a single expected code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// untyped errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a domain code to the HTTP status the transport layer
// should answer with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized, CodeNotOwner:
		return http.StatusForbidden
	case CodeContractPaused:
		return http.StatusServiceUnavailable
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateArea, CodeAlreadyRegistered:
		return http.StatusConflict
	case CodeInvalidAreaID, CodeInvalidMetadata, CodeInvalidRecipient,
		CodeInvalidMinter, CodeInvalidGPS, CodeInvalidGoals,
		CodeInvalidRoyalty, CodeInvalidStatus, CodeBadRequest:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
