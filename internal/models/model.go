package models

import "time"

// Credential is what the console keeps per browser session after login
type Credential struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Username    string    `json:"username"`
	IssuedAt    time.Time `json:"issued_at"`
}

// LoginRequest is the body of POST /login/
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// Registration is the body of POST /register/
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Item represents an auction item as served by the backend
type Item struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartingPrice    float64   `json:"starting_price"`
	AuctionStartTime time.Time `json:"auction_start_time"`
	Duration         int       `json:"duration"`
	HighestBid       *float64  `json:"current_highest_bid,omitempty"`
	Bids             []Bid     `json:"bids"`
}

// MinimumBid is the amount a new bid has to exceed: the current highest bid,
// or the starting price while the item has no bids.
func (i Item) MinimumBid() float64 {
	if i.HighestBid != nil {
		return *i.HighestBid
	}
	if len(i.Bids) == 0 {
		return i.StartingPrice
	}
	highest := i.Bids[0].Amount
	for _, b := range i.Bids[1:] {
		if b.Amount > highest {
			highest = b.Amount
		}
	}
	return highest
}

// Bid represents a user's bid on an item
type Bid struct {
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username"`
	ItemID    string    `json:"item_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// BidRequest is the body of POST /items/{id}/bid/
type BidRequest struct {
	Amount    float64   `json:"amount"`
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username,omitempty"`
}

// ProductInput is the body of product create and update requests.
// AuctionStartTime is always sent as a UTC instant.
type ProductInput struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartingPrice    float64   `json:"starting_price"`
	AuctionStartTime time.Time `json:"auction_start_time"`
	Duration         int       `json:"duration"`
}

// InputFromItem seeds a product form from an existing item
func InputFromItem(item Item) ProductInput {
	return ProductInput{
		Name:             item.Name,
		Description:      item.Description,
		StartingPrice:    item.StartingPrice,
		AuctionStartTime: item.AuctionStartTime,
		Duration:         item.Duration,
	}
}

// User is an account held by the auction backend
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
