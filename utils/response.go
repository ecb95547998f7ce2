package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

// HTMLPage renders a named template with the page data merged over the
// common layout fields.
func HTMLPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Authenticated"]; !ok {
		data["Authenticated"] = c.GetBool(AuthenticatedKey)
	}
	if _, ok := data["Username"]; !ok {
		data["Username"] = c.GetString(UsernameKey)
	}
	c.HTML(status, name, data)
}

// Context keys shared between the session middleware and page rendering
const (
	SessionKey       = "session"
	AuthenticatedKey = "authenticated"
	UsernameKey      = "username"
)
