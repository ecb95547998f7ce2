// Package biddingerrors holds the rule violations of the in-memory auction
// backend.
package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("email or username already registered")
)

// business logic errors
var (
	ErrInvalidBid          = errors.New("invalid bid")
	ErrBidTooLow           = errors.New("bid amount too low")
	ErrAuctionEnded        = errors.New("auction has already ended")
	ErrAuctionNotStarted   = errors.New("auction has not started yet")
	ErrInvalidItem         = errors.New("invalid item")
	ErrInvalidItemID       = errors.New("invalid item id format")
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrInvalidLogin        = errors.New("invalid email or password")
)

// token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
