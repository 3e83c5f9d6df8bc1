package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is a failure reported by an external backend, normalized to
// an HTTP-style status code. Providers that speak other protocols map
// their error shapes onto the nearest status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("service error (%d): %s", e.StatusCode, e.Message)
}

// NewServiceError builds a ServiceError with the given status and message.
func NewServiceError(statusCode int, message string) *ServiceError {
	return &ServiceError{StatusCode: statusCode, Message: message}
}

// AsServiceError unwraps err to a *ServiceError if one is present.
func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// IsModelUnavailable reports whether err means the requested model does
// not exist or is not served by the backend. The fallback chain advances
// past these.
func IsModelUnavailable(err error) bool {
	serviceErr, ok := AsServiceError(err)
	return ok && serviceErr.StatusCode == http.StatusNotFound
}

// IsBadRequest reports whether err is a request-shape rejection. A model
// that rejects the request outright is also worth skipping in the chain,
// since another model may accept the same payload.
func IsBadRequest(err error) bool {
	serviceErr, ok := AsServiceError(err)
	return ok && serviceErr.StatusCode == http.StatusBadRequest
}

// IsRetryableClass reports whether err is a rate-limit or server-side
// failure that may succeed on a later attempt without any change to the
// request.
func IsRetryableClass(err error) bool {
	serviceErr, ok := AsServiceError(err)
	if !ok {
		return false
	}
	return serviceErr.StatusCode == http.StatusTooManyRequests || serviceErr.StatusCode >= http.StatusInternalServerError
}

// UserMessage maps a failure onto a message fit for the end user. The
// status classes the backends are known to return each get a specific
// message; anything else falls through to a generic one.
func UserMessage(err error) string {
	serviceErr, ok := AsServiceError(err)
	if !ok {
		return "Processing failed. Please try again with a different recording."
	}

	switch serviceErr.StatusCode {
	case http.StatusUnauthorized:
		return "The service rejected our credentials. Please contact the administrator."
	case http.StatusRequestEntityTooLarge:
		return "The recording is too large for the transcription service."
	case http.StatusTooManyRequests:
		return "The service is receiving too many requests right now. Please try again in a minute."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "Processing failed. Please try again with a different recording."
	}
}
