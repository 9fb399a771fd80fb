package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrCaseNotFound        = errors.New("case not found")
	ErrInquiryNotFound     = errors.New("inquiry not found")
	ErrDebtNotFound        = errors.New("debt not found")
	ErrAlertNotFound       = errors.New("alert not found")
	ErrAlertAlreadyClosed  = errors.New("alert is already resolved or dismissed")
	ErrContactRequired     = errors.New("a contact is required")
	ErrInvalidDebtCategory = errors.New("invalid debt category")
	ErrUnknownTemplate     = errors.New("unknown notification template")
	ErrLockNotAcquired     = errors.New("could not acquire scope lock")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeCaseNotFound        = "CASE_NOT_FOUND"
	ErrCodeInquiryNotFound     = "INQUIRY_NOT_FOUND"
	ErrCodeDebtNotFound        = "DEBT_NOT_FOUND"
	ErrCodeAlertNotFound       = "ALERT_NOT_FOUND"
	ErrCodeAlertAlreadyClosed  = "ALERT_ALREADY_CLOSED"
	ErrCodeContactRequired     = "CONTACT_REQUIRED"
	ErrCodeInvalidDebtCategory = "INVALID_DEBT_CATEGORY"
	ErrCodeUnknownTemplate     = "UNKNOWN_TEMPLATE"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeLockError           = "LOCK_ERROR"
)

// Wrap common errors with business context
func WrapCaseNotFound(caseID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCaseNotFound,
		fmt.Sprintf("Case %s not found", caseID),
		ErrCaseNotFound,
	)
}

func WrapInquiryNotFound(inquiryID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInquiryNotFound,
		fmt.Sprintf("Inquiry %s not found", inquiryID),
		ErrInquiryNotFound,
	)
}

func WrapDebtNotFound(debtID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDebtNotFound,
		fmt.Sprintf("Debt %s not found", debtID),
		ErrDebtNotFound,
	)
}

func WrapInvalidDebtCategory(category string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDebtCategory,
		fmt.Sprintf("Debt category %q has no prescription period configured", category),
		ErrInvalidDebtCategory,
	)
}

func WrapUnknownTemplate(templateID string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnknownTemplate,
		fmt.Sprintf("No dispatch handler registered for template %q; configuration gap, not a transient failure", templateID),
		ErrUnknownTemplate,
	)
}

func WrapValidationError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		"request validation failed",
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapLockError(scope string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeLockError,
		fmt.Sprintf("could not serialize access to scope %s", scope),
		err,
	)
}
