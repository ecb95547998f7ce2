package devbackend

import (
	"net/http"
	"strings"

	"auction-console/internal/biddingerrors"

	"github.com/gin-gonic/gin"
)

const userKey = "devbackend.user"

// RequireBearer rejects requests without a valid bearer token and records
// the token's user on the context.
func RequireBearer(service AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(c)
			return
		}
		user, err := service.Authenticate(strings.TrimSpace(token))
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(userKey, user.Username)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	_, detail := MapErrorToHTTP(biddingerrors.ErrInvalidToken)
	writeDetail(c, http.StatusUnauthorized, detail)
}

func currentUser(c *gin.Context) string {
	return c.GetString(userKey)
}
