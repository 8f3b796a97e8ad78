package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorType is the machine-readable error tag exposed to clients.
type ErrorType string

const (
	ErrorTypeValidation          ErrorType = "ValidationError"
	ErrorTypeUnauthorized        ErrorType = "Unauthorized"
	ErrorTypeNotFound            ErrorType = "NotFound"
	ErrorTypeUserNotFound        ErrorType = "UserNotFound"
	ErrorTypeGuestLimitExceeded  ErrorType = "GuestLimitExceeded"
	ErrorTypeDailyLimitExceeded  ErrorType = "DailyLimitExceeded"
	ErrorTypeCooldownActive      ErrorType = "CooldownActive"
	ErrorTypeRateLimitExceeded   ErrorType = "RateLimitExceeded"
	ErrorTypeTooManyRequests     ErrorType = "TooManyRequests"
	ErrorTypeUpstreamError       ErrorType = "UpstreamError"
	ErrorTypeInternalServerError ErrorType = "InternalServerError"
)

// CustomError carries an error tag, an HTTP status code and an optional
// wrapped internal error that is logged but never sent to the client.
type CustomError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Details    map[string]interface{}
	Internal   error
}

// Error implements the error interface
func (e *CustomError) Error() string {
	return e.Message
}

func newError(errType ErrorType, message string, statusCode int, internal error) *CustomError {
	return &CustomError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// NewValidationError creates a new bad request error for malformed caller input
func NewValidationError(message string) *CustomError {
	return newError(ErrorTypeValidation, message, http.StatusBadRequest, nil)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *CustomError {
	return newError(ErrorTypeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *CustomError {
	return newError(ErrorTypeNotFound, message, http.StatusNotFound, nil)
}

// NewUserNotFoundError signals a missing account record. This is a data
// integrity fault, not a caller mistake.
func NewUserNotFoundError() *CustomError {
	return newError(ErrorTypeUserNotFound, "User record missing.", http.StatusNotFound, nil)
}

// NewGuestLimitError creates the governance denial for exhausted guest quota
func NewGuestLimitError() *CustomError {
	return newError(ErrorTypeGuestLimitExceeded, "Guest limit reached. Sign in to continue.", http.StatusTooManyRequests, nil)
}

// NewDailyLimitError creates the governance denial for exhausted daily quota
func NewDailyLimitError(limit int) *CustomError {
	return newError(ErrorTypeDailyLimitExceeded, fmt.Sprintf("You have reached your %d free daily generations.", limit), http.StatusTooManyRequests, nil)
}

// NewCooldownError creates the governance denial for an active cooldown,
// carrying the seconds remaining so the caller can retry later.
func NewCooldownError(secondsRemaining int) *CustomError {
	err := newError(ErrorTypeCooldownActive, fmt.Sprintf("Please wait %ds before your next generation.", secondsRemaining), http.StatusTooManyRequests, nil)
	err.Details = map[string]interface{}{"secondsRemaining": secondsRemaining}
	return err
}

// NewRateLimitError signals an upstream-imposed rate limit, distinct from the
// system's own daily limit.
func NewRateLimitError(message string) *CustomError {
	return newError(ErrorTypeRateLimitExceeded, message, http.StatusTooManyRequests, nil)
}

// NewTooManyRequestsError is returned by the outer per-minute request limiter
func NewTooManyRequestsError() *CustomError {
	return newError(ErrorTypeTooManyRequests, "Too many requests. Please slow down.", http.StatusTooManyRequests, nil)
}

// NewUpstreamError signals that the generation service failed after retries
func NewUpstreamError(message string) *CustomError {
	return newError(ErrorTypeUpstreamError, message, http.StatusBadGateway, nil)
}

// New500Error creates a new internal server error
func New500Error(internal error) *CustomError {
	return newError(ErrorTypeInternalServerError, "Something went wrong on the server. Please try again shortly.", http.StatusInternalServerError, internal)
}

// HandleError handles the custom error and sends an appropriate JSON response
func HandleError(c *gin.Context, err error) {
	var customErr *CustomError
	var ok bool

	if customErr, ok = err.(*CustomError); !ok {
		customErr = New500Error(err)
	}

	// Log server-side failures with full detail; clients get a generic message.
	if customErr.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Err(customErr.Internal).
			Str("url", c.Request.URL.String()).
			Str("type", string(customErr.Type)).
			Msg("Server error")
	}

	payload := gin.H{
		"error":   customErr.Type,
		"message": customErr.Message,
	}
	for k, v := range customErr.Details {
		payload[k] = v
	}

	c.JSON(customErr.StatusCode, payload)
}
