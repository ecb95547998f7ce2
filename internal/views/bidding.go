package views

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/backend"
	"auction-console/internal/models"
)

// BidPhase is the state of a bidding page
type BidPhase string

const (
	BidLoading BidPhase = "loading"
	BidReady   BidPhase = "ready"
	BidError   BidPhase = "error"
)

// BiddingView drives one item's bidding page:
// Loading -> Ready(item) -> Ready(item) on each accepted bid, or Error.
type BiddingView struct {
	api      backend.AuctionAPI
	itemID   string
	username string
	now      func() time.Time

	submitMu sync.Mutex // one submission (bid + reload) at a time

	mu     sync.RWMutex
	phase  BidPhase
	item   models.Item
	detail string
	input  string
	notice string
}

// NewBiddingView creates a view for itemID. username is sent with bids.
func NewBiddingView(api backend.AuctionAPI, itemID, username string) *BiddingView {
	return &BiddingView{
		api:      api,
		itemID:   itemID,
		username: username,
		now:      time.Now,
		phase:    BidLoading,
	}
}

// Load fetches the item and its bids
func (v *BiddingView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.phase = BidLoading
	v.mu.Unlock()

	item, err := v.api.GetItem(ctx, v.itemID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.phase = BidError
		v.detail = auctionerrors.Detail(err)
		return err
	}
	v.phase = BidReady
	v.item = item
	v.detail = ""
	return nil
}

// Phase returns the current state
func (v *BiddingView) Phase() BidPhase {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.phase
}

// Item returns the last loaded item
func (v *BiddingView) Item() models.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.item
}

// ErrorDetail is the server-reported reason when the phase is Error
func (v *BiddingView) ErrorDetail() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.detail
}

// Input is the bid amount as last typed; cleared after a successful bid
func (v *BiddingView) Input() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.input
}

// Notice is the success message of the last accepted bid
func (v *BiddingView) Notice() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.notice
}

// ValidateBid parses raw and checks it against the item's minimum.
// The returned error is a *auctionerrors.ValidationError.
func ValidateBid(raw string, item models.Item) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &auctionerrors.ValidationError{
			Err:     auctionerrors.ErrInvalidBid,
			Message: "Please enter a valid bid amount.",
		}
	}
	minimum := item.MinimumBid()
	if amount <= minimum {
		return 0, &auctionerrors.ValidationError{
			Err:     auctionerrors.ErrBidTooLow,
			Message: fmt.Sprintf("Bid must be greater than $%.2f", minimum),
		}
	}
	return amount, nil
}

// SubmitBid validates raw against the loaded item and, if it passes, places
// the bid and reloads the item. Validation failures make no network call.
func (v *BiddingView) SubmitBid(ctx context.Context, raw string) error {
	v.submitMu.Lock()
	defer v.submitMu.Unlock()

	v.mu.Lock()
	v.input = raw
	v.notice = ""
	phase, item := v.phase, v.item
	v.mu.Unlock()

	if phase != BidReady {
		return fmt.Errorf("submit bid: %w", auctionerrors.ErrNotLoaded)
	}

	amount, err := ValidateBid(raw, item)
	if err != nil {
		return err
	}

	req := models.BidRequest{
		Amount:    amount,
		ItemID:    v.itemID,
		Timestamp: v.now().UTC(),
		Username:  v.username,
	}
	if err := v.api.PlaceBid(ctx, v.itemID, req); err != nil {
		return err
	}

	v.mu.Lock()
	v.input = ""
	v.notice = "Bid placed successfully!"
	v.mu.Unlock()

	return v.Load(ctx)
}
