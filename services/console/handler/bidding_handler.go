package handler

import (
	"net/http"
	"net/url"

	"auction-console/internal/timing"
	"auction-console/internal/views"
	"auction-console/services/console/helpers"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

var bidNotices = map[string]string{
	"placed": "Bid placed successfully!",
}

func (h *ConsoleHandler) bidPage(view *views.BiddingView, extra gin.H) gin.H {
	item := view.Item()
	data := gin.H{
		"Title":  item.Name,
		"Phase":  string(view.Phase()),
		"Detail": view.ErrorDetail(),
		"Item":   item,
		"Status": timing.Evaluate(item.AuctionStartTime, item.Duration, h.now()),
		"Input":  view.Input(),
		"Notice": view.Notice(),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// loadBidView loads the item named in the path. It renders the error page
// and returns nil when the item cannot be shown.
func (h *ConsoleHandler) loadBidView(c *gin.Context, handlerName string) *views.BiddingView {
	itemID := c.Param("itemId")
	view := views.NewBiddingView(h.api(c), itemID, username(c))
	if err := view.Load(c.Request.Context()); err != nil {
		if h.expireIfUnauthorized(c, handlerName, err) {
			return nil
		}
		status, _ := helpers.MapErrorToHTTP(err)
		utils.Warn(handlerName+": item unavailable", map[string]any{"item_id": itemID, "error": err.Error()})
		utils.HTMLPage(c, status, "bid.html", h.bidPage(view, gin.H{"Title": "Item unavailable"}))
		return nil
	}
	return view
}

// BidPageHandler handles GET /bid/:itemId
func (h *ConsoleHandler) BidPageHandler(c *gin.Context) {
	view := h.loadBidView(c, "BidPageHandler")
	if view == nil {
		return
	}
	utils.HTMLPage(c, http.StatusOK, "bid.html", h.bidPage(view, gin.H{"Notice": bidNotices[c.Query("notice")]}))
}

// PlaceBidHandler handles POST /bid/:itemId
func (h *ConsoleHandler) PlaceBidHandler(c *gin.Context) {
	var form helpers.BidForm
	if err := c.ShouldBind(&form); err != nil {
		helpers.LogBindError("PlaceBidHandler", err)
	}

	view := h.loadBidView(c, "PlaceBidHandler")
	if view == nil {
		return
	}

	if err := view.SubmitBid(c.Request.Context(), form.Amount); err != nil {
		if h.expireIfUnauthorized(c, "PlaceBidHandler", err) {
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"item_id": c.Param("itemId"),
			"amount":  form.Amount,
			"error":   err.Error(),
		})
		utils.HTMLPage(c, status, "bid.html", h.bidPage(view, gin.H{"Error": message}))
		return
	}

	c.Redirect(http.StatusSeeOther, "/bid/"+url.PathEscape(c.Param("itemId"))+"?notice=placed")
	helpers.LogSuccess("PlaceBidHandler", "bid placed", map[string]any{
		"item_id":  c.Param("itemId"),
		"username": username(c),
		"amount":   form.Amount,
	})
}
