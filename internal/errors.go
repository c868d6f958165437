package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPrice     ErrorCode = "INVALID_PRICE"
	ErrCodeInvalidStock     ErrorCode = "INVALID_STOCK"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidSupplier  ErrorCode = "INVALID_SUPPLIER"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidRating    ErrorCode = "INVALID_RATING"
	ErrCodeInvalidFile      ErrorCode = "INVALID_FILE"

	ErrCodeDuplicateKey          ErrorCode = "DUPLICATE_KEY"
	ErrCodeReferentialIntegrity  ErrorCode = "REFERENTIAL_INTEGRITY"
	ErrCodePermissionDenied      ErrorCode = "PERMISSION_DENIED"
	ErrCodeProductNotFound       ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound      ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeSupplierNotFound      ErrorCode = "SUPPLIER_NOT_FOUND"
	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodeRouteNotFound         ErrorCode = "ROUTE_NOT_FOUND"
	ErrCodeRegistrationFailed    ErrorCode = "REGISTRATION_FAILED"
	ErrCodeTransportFailure      ErrorCode = "TRANSPORT_FAILURE"
	ErrCodeStorageUnavailable    ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeAuthenticationMissing ErrorCode = "AUTHENTICATION_REQUIRED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

// Severity tags travel with every user-facing message.
const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

// Severity is "warning" for permission problems and "error" for everything else.
func (e *AppError) Severity() string {
	if e.Type == ErrorTypeForbidden || e.Type == ErrorTypeUnauthorized {
		return SeverityWarning
	}
	return SeverityError
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel errors survive WithCause copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewPermissionDenied builds the 403 returned when an actor lacks a role or permission.
func NewPermissionDenied(message string) *AppError {
	return NewForbiddenError(message, ErrCodePermissionDenied)
}

// NewDuplicateKey reports a unique-key collision such as a taken username or SKU.
func NewDuplicateKey(field, message string) *AppError {
	return NewConflictError(message, ErrCodeDuplicateKey).WithDetails(ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message, Code: string(ErrCodeDuplicateKey)}},
	})
}

var (
	ErrAuthenticationRequired = NewUnauthorizedError("Authentication required", ErrCodeAuthenticationMissing)
	ErrStaffRequired          = NewPermissionDenied("Access denied. Staff privileges required.")
	ErrProductNotFound        = NewNotFoundError("Product not found", ErrCodeProductNotFound)
	ErrCategoryNotFound       = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrSupplierNotFound       = NewNotFoundError("Supplier not found", ErrCodeSupplierNotFound)
	ErrUserNotFound           = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrCategoryInUse          = NewConflictError("Category is still referenced by products", ErrCodeReferentialIntegrity)
	ErrRegistrationFailed     = NewInternalError("Couldn't register user. Try again", nil)
	ErrStorageUnavailable     = &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeStorageUnavailable,
		Message:    "Image storage is not configured",
		StatusCode: http.StatusServiceUnavailable,
	}

	ErrInvalidCredentials = NewUnauthorizedError("username or password is wrong", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func init() {
	ErrRegistrationFailed.Code = ErrCodeRegistrationFailed
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ErrorType   `json:"type"`
		Code     ErrorCode   `json:"code"`
		Message  string      `json:"message"`
		Severity string      `json:"severity"`
		Details  interface{} `json:"details,omitempty"`
	}{
		Type:     e.Type,
		Code:     e.Code,
		Message:  e.Message,
		Severity: e.Severity(),
		Details:  e.Details,
	})
}
