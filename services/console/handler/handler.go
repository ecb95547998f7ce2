package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/backend"
	"auction-console/internal/models"
	"auction-console/internal/session"
	"auction-console/internal/views"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

// Backend is the part of the REST client the console pages use
type Backend interface {
	Login(ctx context.Context, email, password string) (models.LoginResponse, error)
	Register(ctx context.Context, reg models.Registration) error
	As(token string) backend.AuctionAPI
}

// Options tunes page behaviour
type Options struct {
	Listing  views.ListingOptions
	Location *time.Location
	Now      func() time.Time
}

type ConsoleHandler struct {
	backend Backend
	listing views.ListingOptions
	loc     *time.Location
	now     func() time.Time
}

func NewConsoleHandler(b Backend, opts Options) *ConsoleHandler {
	h := &ConsoleHandler{
		backend: b,
		listing: opts.Listing,
		loc:     opts.Location,
		now:     opts.Now,
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.listing.Now == nil {
		h.listing.Now = h.now
	}
	return h
}

// sessionState returns the state the session middleware attached
func sessionState(c *gin.Context) *session.State {
	if v, ok := c.Get(utils.SessionKey); ok {
		if st, ok := v.(*session.State); ok {
			return st
		}
	}
	return nil
}

// api returns a backend client bound to the session's credential
func (h *ConsoleHandler) api(c *gin.Context) backend.AuctionAPI {
	var token string
	if st := sessionState(c); st != nil {
		token = st.Credential().AccessToken
	}
	return h.backend.As(token)
}

func username(c *gin.Context) string {
	if st := sessionState(c); st != nil {
		return st.Credential().Username
	}
	return ""
}

// expireIfUnauthorized logs the session out and sends the browser to the
// login page when the backend rejected the credential.
func (h *ConsoleHandler) expireIfUnauthorized(c *gin.Context, handlerName string, err error) bool {
	if !errors.Is(err, auctionerrors.ErrUnauthorized) {
		return false
	}
	h.expire(c, handlerName)
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
	return true
}

func (h *ConsoleHandler) expire(c *gin.Context, handlerName string) {
	st := sessionState(c)
	if st == nil {
		return
	}
	utils.Warn(handlerName+": credential rejected by backend, logging out", map[string]any{"session_id": st.SessionID()})
	if err := st.Logout(c.Request.Context()); err != nil {
		utils.Error(handlerName+": logout failed", map[string]any{"error": err.Error()})
	}
}

// NotFoundHandler renders the 404 page
func (h *ConsoleHandler) NotFoundHandler(c *gin.Context) {
	utils.HTMLPage(c, http.StatusNotFound, "notfound.html", gin.H{"Title": "Not found"})
}

// HealthHandler handles GET /healthz
func (h *ConsoleHandler) HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, gin.H{"time": h.now().UTC().Format(time.RFC3339)}, "ok")
}
