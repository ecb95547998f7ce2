package handler

import (
	"io"
	"net/http"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/views"
	"auction-console/services/console/helpers"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

// HomeHandler handles GET /home
func (h *ConsoleHandler) HomeHandler(c *gin.Context) {
	view := views.NewListingView(h.api(c), h.listing)
	err := view.Load(c.Request.Context())
	if err != nil && h.expireIfUnauthorized(c, "HomeHandler", err) {
		return
	}

	data := gin.H{"Title": "Auctions", "Snapshot": view.Snapshot()}
	if err != nil {
		data["Error"] = "Could not load auctions: " + auctionerrors.Detail(err)
	}
	utils.HTMLPage(c, http.StatusOK, "home.html", data)
}

// StreamHandler handles GET /home/stream. Each connection mounts its own
// listing view; the view is unmounted when the client goes away.
func (h *ConsoleHandler) StreamHandler(c *gin.Context) {
	ctx := c.Request.Context()
	view := views.NewListingView(h.api(c), h.listing)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if err := view.Load(ctx); err != nil && view.IsUnauthorized() {
		h.expire(c, "StreamHandler")
		c.SSEvent("unauthorized", gin.H{"location": "/login"})
		return
	}

	snapshots := make(chan views.Snapshot, 1)
	view.Subscribe(func(s views.Snapshot) {
		// keep only the latest snapshot when the client is slow
		select {
		case snapshots <- s:
		default:
			select {
			case <-snapshots:
			default:
			}
			select {
			case snapshots <- s:
			default:
			}
		}
	})
	if err := view.Mount(ctx); err != nil {
		utils.Error("StreamHandler: mount failed", map[string]any{"error": err.Error()})
		c.Status(http.StatusInternalServerError)
		return
	}
	defer view.Unmount()

	helpers.LogSuccess("StreamHandler", "listing stream opened", map[string]any{"username": username(c)})
	c.SSEvent("snapshot", helpers.NewStreamSnapshot(view.Snapshot()))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case s := <-snapshots:
			if view.IsUnauthorized() {
				h.expire(c, "StreamHandler")
				c.SSEvent("unauthorized", gin.H{"location": "/login"})
				return false
			}
			c.SSEvent("snapshot", helpers.NewStreamSnapshot(s))
			return true
		}
	})
	utils.Debug("StreamHandler: listing stream closed", map[string]any{"username": username(c)})
}
