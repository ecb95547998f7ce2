package devbackend

import (
	"errors"
	"net/http"

	"auction-console/internal/biddingerrors"
	bidding "auction-console/internal/biddingService"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

// bidRequest is the body of a bid. item_id, timestamp and username are
// accepted for compatibility and ignored.
type bidRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	ItemID   string  `json:"item_id"`
	Username string  `json:"username"`
}

// writeDetail sends an error body in the backend's {detail} shape
func writeDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// handleBindError answers malformed bodies with a 422, like a validating API
func handleBindError(c *gin.Context, handlerName string, err error) {
	writeDetail(c, http.StatusUnprocessableEntity, "Invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps service errors to a status code and the detail clients see
func MapErrorToHTTP(err error) (int, string) {
	var minErr *bidding.MinimumBidError
	switch {
	case errors.As(err, &minErr):
		return http.StatusBadRequest, minErr.Error()
	case errors.Is(err, biddingerrors.ErrItemNotFound):
		return http.StatusNotFound, "Item not found"
	case errors.Is(err, biddingerrors.ErrInvalidItemID):
		return http.StatusBadRequest, "Invalid item ID format"
	case errors.Is(err, biddingerrors.ErrAuctionEnded):
		return http.StatusBadRequest, "Auction has already ended"
	case errors.Is(err, biddingerrors.ErrAuctionNotStarted):
		return http.StatusBadRequest, "Auction has not started yet"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "Invalid bid amount"
	case errors.Is(err, biddingerrors.ErrInvalidItem):
		return http.StatusBadRequest, "Invalid product details"
	case errors.Is(err, biddingerrors.ErrDuplicateUser):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, biddingerrors.ErrInvalidRegistration):
		return http.StatusBadRequest, "Invalid registration details"
	case errors.Is(err, biddingerrors.ErrInvalidLogin):
		return http.StatusBadRequest, "Invalid email or password"
	case errors.Is(err, biddingerrors.ErrInvalidToken), errors.Is(err, biddingerrors.ErrExpiredToken):
		return http.StatusUnauthorized, "Could not validate credentials"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// logSuccess is a small helper to standardize logging of successful operations
func logSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
