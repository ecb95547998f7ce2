package helpers

import (
	"errors"
	"net/http"

	"auction-console/internal/auctionerrors"
	"auction-console/utils"
)

// MapErrorToHTTP maps backend and validation errors to the status of the
// rendered page and the message shown on it
func MapErrorToHTTP(err error) (int, string) {
	var apiErr *auctionerrors.APIError
	var vErr *auctionerrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Message
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, auctionerrors.Detail(err)
	case errors.Is(err, auctionerrors.ErrBackendUnavailable):
		return http.StatusBadGateway, auctionerrors.Detail(err)
	case errors.Is(err, auctionerrors.ErrBadResponse):
		return http.StatusBadGateway, auctionerrors.GenericDetail
	case errors.Is(err, auctionerrors.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	default:
		return http.StatusInternalServerError, auctionerrors.GenericDetail
	}
}

// BindErrorMessage is shown when a form is missing required fields
const BindErrorMessage = "Please fill in all required fields."

// LogBindError records a rejected form
func LogBindError(handlerName string, err error) {
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
