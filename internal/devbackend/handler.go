// Package devbackend serves the auction REST API from memory. It backs local
// runs of the console and the end-to-end tests.
package devbackend

import (
	"net/http"

	"auction-console/internal/models"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

// AuctionService is what the REST handlers need from the bidding rules
type AuctionService interface {
	Register(reg models.Registration) error
	Login(email, password string) (models.LoginResponse, error)
	Authenticate(token string) (models.User, error)
	ListItems() ([]models.Item, error)
	GetItem(itemID string) (models.Item, error)
	CreateItem(input models.ProductInput) (string, error)
	UpdateItem(itemID string, input models.ProductInput) error
	DeleteItem(itemID string) error
	PlaceBid(itemID, username string, amount float64) (models.Bid, error)
}

type Handler struct {
	service AuctionService
}

func NewHandler(service AuctionService) *Handler {
	return &Handler{service: service}
}

// RegisterHandler handles POST /register/
func (h *Handler) RegisterHandler(c *gin.Context) {
	var req models.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "RegisterHandler", err)
		return
	}
	if err := h.service.Register(req); err != nil {
		h.fail(c, "RegisterHandler", err, map[string]any{"username": req.Username})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!"})
	logSuccess("RegisterHandler", "user registered", map[string]any{"username": req.Username})
}

// LoginHandler handles POST /login/
func (h *Handler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "LoginHandler", err)
		return
	}
	resp, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		h.fail(c, "LoginHandler", err, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
	logSuccess("LoginHandler", "user logged in", map[string]any{"username": resp.Username})
}

// ListItemsHandler handles GET /items/
func (h *Handler) ListItemsHandler(c *gin.Context) {
	items, err := h.service.ListItems()
	if err != nil {
		h.fail(c, "ListItemsHandler", err, nil)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// GetItemHandler handles GET /items/:item_id
func (h *Handler) GetItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	item, err := h.service.GetItem(itemID)
	if err != nil {
		h.fail(c, "GetItemHandler", err, map[string]any{"item_id": itemID})
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItemHandler handles POST /items/
func (h *Handler) CreateItemHandler(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handleBindError(c, "CreateItemHandler", err)
		return
	}
	id, err := h.service.CreateItem(input)
	if err != nil {
		h.fail(c, "CreateItemHandler", err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
	logSuccess("CreateItemHandler", "item created", map[string]any{"item_id": id, "user": currentUser(c)})
}

// UpdateItemHandler handles PUT /items/:item_id
func (h *Handler) UpdateItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handleBindError(c, "UpdateItemHandler", err)
		return
	}
	if err := h.service.UpdateItem(itemID, input); err != nil {
		h.fail(c, "UpdateItemHandler", err, map[string]any{"item_id": itemID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
	logSuccess("UpdateItemHandler", "item updated", map[string]any{"item_id": itemID, "user": currentUser(c)})
}

// DeleteItemHandler handles DELETE /items/:item_id
func (h *Handler) DeleteItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	if err := h.service.DeleteItem(itemID); err != nil {
		h.fail(c, "DeleteItemHandler", err, map[string]any{"item_id": itemID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
	logSuccess("DeleteItemHandler", "item deleted", map[string]any{"item_id": itemID, "user": currentUser(c)})
}

// PlaceBidHandler handles POST /items/:item_id/bid/. The bidder is the
// token's user whatever the body claims.
func (h *Handler) PlaceBidHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	var req bidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "PlaceBidHandler", err)
		return
	}
	username := currentUser(c)
	bid, err := h.service.PlaceBid(itemID, username, req.Amount)
	if err != nil {
		h.fail(c, "PlaceBidHandler", err, map[string]any{"item_id": itemID, "user": username, "amount": req.Amount})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bid placed successfully"})
	logSuccess("PlaceBidHandler", "bid recorded", map[string]any{
		"item_id": bid.ItemID,
		"user":    bid.Username,
		"amount":  bid.Amount,
	})
}

func (h *Handler) fail(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, detail := MapErrorToHTTP(err)
	writeDetail(c, status, detail)
	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}
