package auctionerrors

import (
	"errors"
	"net/http"
)

// GenericDetail is shown when the backend rejects a request without a detail
const GenericDetail = "An error occurred while processing the request."

// Backend-level errors
var (
	ErrItemNotFound       = errors.New("item not found")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBadResponse        = errors.New("unexpected backend response")
)

// client-side validation errors
var (
	ErrInvalidBid    = errors.New("invalid bid")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrMissingField  = errors.New("required field missing")
	ErrNotConfirmed  = errors.New("deletion not confirmed")
	ErrNotLoaded     = errors.New("view has no data loaded")
	ErrNoCredential  = errors.New("no credential stored")
	ErrInvalidFormat = errors.New("invalid value format")
)

// APIError is a non-2xx backend response. Detail is the backend's own message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return http.StatusText(e.Status)
	}
	return e.Detail
}

// Unwrap lets callers match auth and not-found rejections with errors.Is
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrItemNotFound
	default:
		return nil
	}
}

// ValidationError is a client-side rejection carrying the message to show
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// Detail returns the user-facing message for err: the backend's detail
// verbatim, a validation message, or a generic fallback.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return GenericDetail
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	if errors.Is(err, ErrBackendUnavailable) {
		return "The auction service is unreachable. Please try again."
	}
	return GenericDetail
}
