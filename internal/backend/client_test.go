package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/endpoints"
	"auction-console/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a backend stub and returns a client pointed at it
func newTestClient(t *testing.T, setup func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	reg, err := endpoints.New(srv.URL)
	require.NoError(t, err)
	return NewClient(reg, 2*time.Second)
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *gin.Engine) {
		r.POST("/login/", func(c *gin.Context) {
			var req models.LoginRequest
			_ = c.ShouldBindJSON(&req)
			if req.Email != "ann@example.com" || req.Password != "secret" {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid email or password"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"access_token": "tok-1", "token_type": "bearer", "username": "ann"})
		})
	})

	resp, err := client.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", resp.AccessToken)
	require.Equal(t, "ann", resp.Username)

	_, err = client.Login(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	require.Equal(t, "Invalid email or password", auctionerrors.Detail(err))
}

func TestClient_BearerAndPaths(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []string
	)
	requests := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}
	client := newTestClient(t, func(r *gin.Engine) {
		r.Use(func(c *gin.Context) {
			mu.Lock()
			seen = append(seen, c.Request.Method+" "+c.Request.URL.Path+" "+c.GetHeader("Authorization"))
			mu.Unlock()
			c.Next()
		})
		r.GET("/items/", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{{"id": "i1", "name": "Vase", "starting_price": 10, "auction_start_time": "2026-05-01T10:00:00", "duration": 30, "bids": []any{}}})
		})
		r.GET("/items/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "name": "Vase", "starting_price": 10, "bids": []gin.H{{"username": "ann", "amount": 15, "timestamp": "2026-05-01T10:01:00"}}})
		})
		r.POST("/items/", func(c *gin.Context) {
			var in models.ProductInput
			if err := c.ShouldBindJSON(&in); err != nil || in.AuctionStartTime.Location() != time.UTC {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "start time must be UTC"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": "new-id"})
		})
		r.PUT("/items/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"}) })
		r.DELETE("/items/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"}) })
		r.POST("/items/:id/bid/", func(c *gin.Context) {
			var bid models.BidRequest
			if err := c.ShouldBindJSON(&bid); err != nil || bid.ItemID != c.Param("id") {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "bad bid"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Bid placed successfully"})
		})
	})

	api := client.As("tok-9")
	ctx := context.Background()

	items, err := api.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), items[0].AuctionStartTime)

	item, err := api.GetItem(ctx, "i1")
	require.NoError(t, err)
	require.Equal(t, 15.0, item.MinimumBid())

	id, err := api.CreateItem(ctx, models.ProductInput{Name: "Lamp", AuctionStartTime: time.Now().UTC(), Duration: 5})
	require.NoError(t, err)
	require.Equal(t, "new-id", id)

	require.NoError(t, api.UpdateItem(ctx, "i1", models.ProductInput{Name: "Lamp"}))
	require.NoError(t, api.DeleteItem(ctx, "i1"))
	require.NoError(t, api.PlaceBid(ctx, "i1", models.BidRequest{Amount: 20, ItemID: "i1", Timestamp: time.Now().UTC()}))

	require.Equal(t, []string{
		"GET /items/ Bearer tok-9",
		"GET /items/i1 Bearer tok-9",
		"POST /items/ Bearer tok-9",
		"PUT /items/i1 Bearer tok-9",
		"DELETE /items/i1 Bearer tok-9",
		"POST /items/i1/bid/ Bearer tok-9",
	}, requests())

	// the unbound client never sends a credential
	_, err = client.ListItems(ctx)
	require.NoError(t, err)
	all := requests()
	require.Equal(t, "GET /items/ ", all[len(all)-1])
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *gin.Engine) {
		r.GET("/items/:id", func(c *gin.Context) {
			switch c.Param("id") {
			case "missing":
				c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
			case "expired":
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			case "validation":
				c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "field required"}}})
			case "plain":
				c.String(http.StatusBadGateway, "upstream down")
			default:
				c.String(http.StatusOK, "{not json")
			}
		})
	})
	api := client.As("tok")
	ctx := context.Background()

	_, err := api.GetItem(ctx, "missing")
	require.True(t, errors.Is(err, auctionerrors.ErrItemNotFound))
	require.Equal(t, "Item not found", auctionerrors.Detail(err))

	_, err = api.GetItem(ctx, "expired")
	require.True(t, errors.Is(err, auctionerrors.ErrUnauthorized))

	_, err = api.GetItem(ctx, "validation")
	require.Equal(t, "field required", auctionerrors.Detail(err))

	_, err = api.GetItem(ctx, "plain")
	var apiErr *auctionerrors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, auctionerrors.GenericDetail, auctionerrors.Detail(err))

	_, err = api.GetItem(ctx, "garbage")
	require.True(t, errors.Is(err, auctionerrors.ErrBadResponse))
}

func TestClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	reg, err := endpoints.New(url)
	require.NoError(t, err)
	client := NewClient(reg, time.Second)

	_, err = client.ListItems(context.Background())
	require.True(t, errors.Is(err, auctionerrors.ErrBackendUnavailable))
}

func TestClient_LoginWithoutToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *gin.Engine) {
		r.POST("/login/", func(c *gin.Context) {
			_ = json.NewEncoder(c.Writer).Encode(gin.H{"token_type": "bearer"})
		})
	})
	_, err := client.Login(context.Background(), "a@b.c", "x")
	require.True(t, errors.Is(err, auctionerrors.ErrBadResponse))
}
