// Package backend is the HTTP client for the auction REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/endpoints"
	"auction-console/internal/models"
	"auction-console/utils"
)

// maxErrorBody caps how much of an error response is read for its detail
const maxErrorBody = 64 << 10

// AuctionAPI is the set of authenticated backend operations the views use
type AuctionAPI interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, itemID string) (models.Item, error)
	PlaceBid(ctx context.Context, itemID string, bid models.BidRequest) error
	CreateItem(ctx context.Context, input models.ProductInput) (string, error)
	UpdateItem(ctx context.Context, itemID string, input models.ProductInput) error
	DeleteItem(ctx context.Context, itemID string) error
}

// Client talks to the backend. A zero token means unauthenticated requests;
// As returns a copy bound to a bearer token.
type Client struct {
	endpoints endpoints.Registry
	http      *http.Client
	token     string
}

var _ AuctionAPI = (*Client)(nil)

// NewClient creates a client for the given registry
func NewClient(reg endpoints.Registry, timeout time.Duration) *Client {
	return &Client{
		endpoints: reg,
		http:      &http.Client{Timeout: timeout},
	}
}

// As returns a client that sends token as a bearer credential
func (c *Client) As(token string) AuctionAPI {
	cp := *c
	cp.token = token
	return &cp
}

// Login exchanges email and password for an access token
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, c.endpoints.Login(), models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("backend: login: %w", err)
	}
	if resp.AccessToken == "" {
		return models.LoginResponse{}, fmt.Errorf("backend: login: %w - empty access token", auctionerrors.ErrBadResponse)
	}
	return resp, nil
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	if err := c.do(ctx, http.MethodPost, c.endpoints.Register(), reg, nil); err != nil {
		return fmt.Errorf("backend: register: %w", err)
	}
	return nil
}

// ListItems returns the full product collection
func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.do(ctx, http.MethodGet, c.endpoints.Items(), nil, &items); err != nil {
		return nil, fmt.Errorf("backend: list items: %w", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// GetItem returns one item including its bid history
func (c *Client) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodGet, c.endpoints.Item(itemID), nil, &item); err != nil {
		return models.Item{}, fmt.Errorf("backend: get item %s: %w", itemID, err)
	}
	if item.ID == "" {
		item.ID = itemID
	}
	return item, nil
}

// PlaceBid submits a bid; the backend decides acceptance
func (c *Client) PlaceBid(ctx context.Context, itemID string, bid models.BidRequest) error {
	if err := c.do(ctx, http.MethodPost, c.endpoints.PlaceBid(itemID), bid, nil); err != nil {
		return fmt.Errorf("backend: place bid on %s: %w", itemID, err)
	}
	return nil
}

// CreateItem creates a product and returns its identifier
func (c *Client) CreateItem(ctx context.Context, input models.ProductInput) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoints.Items(), input, &resp); err != nil {
		return "", fmt.Errorf("backend: create item: %w", err)
	}
	return resp.ID, nil
}

// UpdateItem replaces a product's fields
func (c *Client) UpdateItem(ctx context.Context, itemID string, input models.ProductInput) error {
	if err := c.do(ctx, http.MethodPut, c.endpoints.Item(itemID), input, nil); err != nil {
		return fmt.Errorf("backend: update item %s: %w", itemID, err)
	}
	return nil
}

// DeleteItem removes a product
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if err := c.do(ctx, http.MethodDelete, c.endpoints.Item(itemID), nil, nil); err != nil {
		return fmt.Errorf("backend: delete item %s: %w", itemID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		utils.Warn("backend: request failed", map[string]any{"method": method, "url": url, "error": err.Error()})
		return fmt.Errorf("%w: %v", auctionerrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	utils.Debug("backend: request", map[string]any{
		"method":  method,
		"url":     url,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode body: %v", auctionerrors.ErrBadResponse, err)
	}
	return nil
}

// decodeAPIError extracts the backend's detail. FastAPI-style validation
// errors carry a list under detail; their first message is used.
func decodeAPIError(resp *http.Response) error {
	apiErr := &auctionerrors.APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var text string
	if json.Unmarshal(payload.Detail, &text) == nil {
		apiErr.Detail = text
		return apiErr
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(payload.Detail, &list) == nil && len(list) > 0 {
		apiErr.Detail = list[0].Msg
	}
	return apiErr
}
