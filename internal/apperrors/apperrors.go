// Package apperrors defines the error taxonomy surfaced to API clients.
package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is an error with a stable client-facing message and HTTP status.
type AppError struct {
	StatusCode int
	Message    string
	Errors     map[string]string
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates an AppError with the given status code.
func New(statusCode int, message string, errs map[string]string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}

// Validation is returned for malformed or out-of-range input (400).
func Validation(message string, errs map[string]string) *AppError {
	return New(fiber.StatusBadRequest, message, errs)
}

// Authentication is returned for bad credentials or a bad, missing or expired token (401).
func Authentication(message string) *AppError {
	return New(fiber.StatusUnauthorized, message, nil)
}

// Authorization is returned when the caller is authenticated but not entitled (403).
func Authorization(message string) *AppError {
	return New(fiber.StatusForbidden, message, nil)
}

// NotFound is returned when the resource does not exist (404).
func NotFound(message string) *AppError {
	return New(fiber.StatusNotFound, message, nil)
}

// Conflict is returned on a uniqueness violation (409).
func Conflict(message string) *AppError {
	return New(fiber.StatusConflict, message, nil)
}

// StatusCode returns the HTTP status carried by err, or 500 if err is not an AppError.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return fiber.StatusInternalServerError
}
