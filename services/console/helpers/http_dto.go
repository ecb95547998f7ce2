package helpers

import (
	"strconv"
	"strings"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/models"
	"auction-console/internal/timing"
	"auction-console/internal/views"
)

// Form DTOs
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type RegisterForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// BidForm keeps the amount as typed; the bidding view parses it
type BidForm struct {
	Amount string `form:"amount"`
}

type DeleteForm struct {
	Confirmed bool `form:"confirmed"`
}

// ProductForm is the admin form as posted. Numbers and the start time stay
// strings so a bad value can be reported with the form kept intact.
type ProductForm struct {
	Name             string `form:"name"`
	Description      string `form:"description"`
	StartingPrice    string `form:"starting_price"`
	AuctionStartTime string `form:"auction_start_time"`
	Duration         string `form:"duration"`
	Timezone         string `form:"timezone"`
}

// Location resolves the zone the browser reported, falling back to fallback
func (f ProductForm) Location(fallback *time.Location) *time.Location {
	if name := strings.TrimSpace(f.Timezone); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}

// ToInput converts the form into a product with a UTC start instant. The
// partially converted input is returned alongside any error.
func (f ProductForm) ToInput(fallback *time.Location) (models.ProductInput, error) {
	input := models.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
	}

	if raw := strings.TrimSpace(f.StartingPrice); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, &auctionerrors.ValidationError{Err: auctionerrors.ErrInvalidFormat, Message: "Starting price must be a number."}
		}
		input.StartingPrice = price
	}

	if raw := strings.TrimSpace(f.Duration); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return input, &auctionerrors.ValidationError{Err: auctionerrors.ErrInvalidFormat, Message: "Duration must be a whole number of minutes."}
		}
		input.Duration = minutes
	}

	start, err := views.ParseLocalDateTime(f.AuctionStartTime, f.Location(fallback))
	if err != nil {
		return input, err
	}
	input.AuctionStartTime = start
	return input, nil
}

// Stream DTOs
type StreamItem struct {
	ID string `json:"id"`
}

type StreamRow struct {
	Item   StreamItem    `json:"item"`
	Status timing.Status `json:"status"`
	Label  string        `json:"label"`
}

type StreamSnapshot struct {
	Rows      []StreamRow `json:"rows"`
	Stale     bool        `json:"stale"`
	Evaluated string      `json:"evaluated_at"`
}

// NewStreamSnapshot trims a listing snapshot to what the page updates
func NewStreamSnapshot(s views.Snapshot) StreamSnapshot {
	rows := make([]StreamRow, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = StreamRow{
			Item:   StreamItem{ID: r.Item.ID},
			Status: r.Status,
			Label:  r.Status.Label(),
		}
	}
	return StreamSnapshot{
		Rows:      rows,
		Stale:     s.Stale,
		Evaluated: s.Evaluated.UTC().Format(time.RFC3339),
	}
}
