package server

import (
	"net/http"
	"time"

	"auction-console/internal/session"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// SessionOptions configures the browser session cookie
type SessionOptions struct {
	Store      session.CredentialStore
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware binds every request to a session.State keyed by an
// opaque cookie. The state is restored from the store once per request.
func SessionMiddleware(opts SessionOptions) gin.HandlerFunc {
	maxAge := int(opts.TTL / time.Second)
	return func(c *gin.Context) {
		sid, err := c.Cookie(opts.CookieName)
		if err != nil || !utils.IsValidID(sid) {
			sid = utils.GenerateID()
		}
		// refreshed on every request so an active session does not lapse
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.CookieName, sid, maxAge, "/", "", opts.Secure, true)

		st := session.NewState(opts.Store, sid)
		st.Restore(c.Request.Context())

		c.Set(utils.SessionKey, st)
		c.Set(utils.AuthenticatedKey, st.IsAuthenticated())
		c.Set(utils.UsernameKey, st.Credential().Username)
		c.Next()
	}
}

// AuthRequired sends unauthenticated browsers to the login page
func AuthRequired(c *gin.Context) {
	if !c.GetBool(utils.AuthenticatedKey) {
		utils.Debug("guard: redirecting to login", map[string]any{"path": c.Request.URL.Path})
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}
