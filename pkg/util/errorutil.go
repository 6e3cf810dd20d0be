package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to API clients.
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
	CodeNoEligibleStaff   = "NO_ELIGIBLE_STAFF"
	CodeAlreadyAssigned   = "ALREADY_ASSIGNED"
	CodeAssigneeNotFound  = "ASSIGNEE_NOT_FOUND"
	CodeGrievanceNotFound = "GRIEVANCE_NOT_FOUND"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewNoEligibleStaff aborts a whole distribution run.
func NewNoEligibleStaff(strategy string, err error) error {
	return &DomainError{
		Code:       CodeNoEligibleStaff,
		Message:    "no staff available for the selected strategy",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"strategy": strategy},
		Err:        err,
	}
}

// NewAlreadyAssigned is a per-item failure for a grievance that already has an owner.
func NewAlreadyAssigned(grievanceID string, assignee string) error {
	return NewDomainError(CodeAlreadyAssigned, "grievance already assigned", http.StatusConflict,
		map[string]any{"grievance_id": grievanceID, "assigned_to": assignee})
}

// NewAssigneeNotFound is a per-item failure for a missing or inactive staff member.
func NewAssigneeNotFound(staffID string) error {
	return NewDomainError(CodeAssigneeNotFound, "assignee not found or inactive", http.StatusNotFound,
		map[string]any{"staff_id": staffID})
}

// NewGrievanceNotFound is a per-item failure for an unknown grievance id.
func NewGrievanceNotFound(grievanceID string) error {
	return NewDomainError(CodeGrievanceNotFound, "grievance not found", http.StatusNotFound,
		map[string]any{"grievance_id": grievanceID})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, map[string]any{})
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError is ToDomainError typed as error.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// CodeOf returns the DomainError code for err. Unknown errors report CodeInternal.
func CodeOf(err error) string {
	if de := ToDomainError(err); de != nil {
		return de.Code
	}
	return ""
}
