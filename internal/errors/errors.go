// Package errors provides the application error type shared by services and
// handlers. Services return AppError values so handlers can render a stable
// code and message without leaking storage details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials  = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidRefreshToken = &AppError{Code: "INVALID_REFRESH_TOKEN", Message: "Invalid or expired refresh token", StatusCode: http.StatusUnauthorized}
	ErrForbidden           = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked       = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account temporarily locked after repeated failed logins", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInvalidDateRange = &AppError{Code: "INVALID_DATE_RANGE", Message: "End date must not be before start date", StatusCode: http.StatusBadRequest}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Settings errors.
var (
	ErrInvalidPaymentPeriods = &AppError{Code: "INVALID_PAYMENT_PERIODS", Message: "Invalid payment period configuration", StatusCode: http.StatusBadRequest}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// Salary errors.
var (
	ErrSalaryNotFound         = &AppError{Code: "SALARY_NOT_FOUND", Message: "Salary not found", StatusCode: http.StatusNotFound}
	ErrSalaryRecordNotFound   = &AppError{Code: "SALARY_RECORD_NOT_FOUND", Message: "Salary record not found", StatusCode: http.StatusNotFound}
	ErrSalarySettingsNotFound = &AppError{Code: "SALARY_SETTINGS_NOT_FOUND", Message: "Salary settings not found", StatusCode: http.StatusNotFound}
)

// Stock period errors.
var (
	ErrStockPeriodNotFound = &AppError{Code: "STOCK_PERIOD_NOT_FOUND", Message: "Stock period not found", StatusCode: http.StatusNotFound}
)

// Template errors.
var (
	ErrTemplateNotFound      = &AppError{Code: "TEMPLATE_NOT_FOUND", Message: "Template not found", StatusCode: http.StatusNotFound}
	ErrTemplateGroupNotFound = &AppError{Code: "TEMPLATE_GROUP_NOT_FOUND", Message: "Template group not found", StatusCode: http.StatusNotFound}
)
