package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func InvalidState(message string) *AppError {
	return &AppError{
		Code:    "INVALID_STATE",
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func SelfTrade() *AppError {
	return &AppError{
		Code:    "SELF_TRADE",
		Message: "You cannot buy your own listing",
		Status:  http.StatusBadRequest,
	}
}

func ListingUnavailable() *AppError {
	return &AppError{
		Code:    "LISTING_UNAVAILABLE",
		Message: "Listing is no longer available",
		Status:  http.StatusBadRequest,
	}
}

func DuplicateTransaction() *AppError {
	return &AppError{
		Code:    "DUPLICATE_TRANSACTION",
		Message: "You already have an open transaction for this listing",
		Status:  http.StatusConflict,
	}
}

func AlreadyFulfilled(message string) *AppError {
	return &AppError{
		Code:    "ALREADY_FULFILLED",
		Message: message,
		Status:  http.StatusConflict,
	}
}

func PaymentNotSucceeded(gatewayStatus string) *AppError {
	return &AppError{
		Code:    "PAYMENT_NOT_SUCCEEDED",
		Message: fmt.Sprintf("Payment has not succeeded (gateway status: %s)", gatewayStatus),
		Status:  http.StatusBadRequest,
	}
}

func Gateway(message string, err error) *AppError {
	return &AppError{
		Code:    "GATEWAY_ERROR",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
