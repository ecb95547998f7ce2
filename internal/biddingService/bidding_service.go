// Package bidding implements the rules of the in-memory auction backend:
// accounts, products and bids.
package bidding

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"auction-console/internal/biddingerrors"
	"auction-console/internal/models"
	"auction-console/internal/repository"
	"auction-console/internal/timing"
	"auction-console/utils"
)

// DefaultTokenExpiry matches the lifetime of the backend's access tokens
const DefaultTokenExpiry = 30 * time.Minute

// Options configures a BiddingService
type Options struct {
	Secret      string
	TokenExpiry time.Duration
	Now         func() time.Time
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo   repository.AuctionDB
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts Options) *BiddingService {
	s := &BiddingService{
		repo:   repo,
		secret: []byte(opts.Secret),
		expiry: opts.TokenExpiry,
		now:    opts.Now,
	}
	if len(s.secret) == 0 {
		s.secret = []byte(utils.GenerateID())
	}
	if s.expiry <= 0 {
		s.expiry = DefaultTokenExpiry
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Register creates an account with a hashed password
func (s *BiddingService) Register(reg models.Registration) error {
	username := strings.TrimSpace(reg.Username)
	email := strings.TrimSpace(reg.Email)
	if username == "" || reg.Password == "" {
		return fmt.Errorf("service: %w - missing username or password", biddingerrors.ErrInvalidRegistration)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("service: %w - invalid email %q", biddingerrors.ErrInvalidRegistration, email)
	}

	hash, err := hashPassword(reg.Password)
	if err != nil {
		return fmt.Errorf("service: hash password: %w", err)
	}
	user := models.User{
		ID:           utils.GenerateID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.AddUser(user); err != nil {
		return fmt.Errorf("service: failed to register %s: %w", username, err)
	}
	return nil
}

// Login checks the credentials and issues a bearer token
func (s *BiddingService) Login(email, password string) (models.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, biddingerrors.ErrUserNotFound) {
			return models.LoginResponse{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidLogin)
		}
		return models.LoginResponse{}, fmt.Errorf("service: failed to look up user: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		return models.LoginResponse{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidLogin)
	}

	token, err := generateToken(s.secret, user.Username, user.ID, s.now().UTC(), s.expiry)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("service: sign token: %w", err)
	}
	return models.LoginResponse{AccessToken: token, TokenType: "bearer", Username: user.Username}, nil
}

// Authenticate resolves a bearer token to its user
func (s *BiddingService) Authenticate(token string) (models.User, error) {
	claims, err := parseToken(s.secret, token, s.now())
	if err != nil {
		return models.User{}, fmt.Errorf("service: %w", err)
	}
	user, err := s.repo.GetUserByUsername(claims.Username)
	if err != nil || user.ID != claims.Subject {
		return models.User{}, fmt.Errorf("service: %w - unknown subject", biddingerrors.ErrInvalidToken)
	}
	return user, nil
}

// ListItems returns every product
func (s *BiddingService) ListItems() ([]models.Item, error) {
	items, err := s.repo.ListItems()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	return items, nil
}

// GetItem returns one product with its bids
func (s *BiddingService) GetItem(itemID string) (models.Item, error) {
	if !utils.IsValidID(itemID) {
		return models.Item{}, fmt.Errorf("service: %w - %q", biddingerrors.ErrInvalidItemID, itemID)
	}
	item, err := s.repo.GetItem(itemID)
	if err != nil {
		return models.Item{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

// CreateItem stores a new product and returns its id
func (s *BiddingService) CreateItem(input models.ProductInput) (string, error) {
	if err := validateProduct(input); err != nil {
		return "", err
	}
	item := itemFromInput(utils.GenerateID(), input)
	if err := s.repo.AddItem(item); err != nil {
		return "", fmt.Errorf("service: failed to create item: %w", err)
	}
	return item.ID, nil
}

// UpdateItem replaces a product's fields
func (s *BiddingService) UpdateItem(itemID string, input models.ProductInput) error {
	if !utils.IsValidID(itemID) {
		return fmt.Errorf("service: %w - %q", biddingerrors.ErrInvalidItemID, itemID)
	}
	if err := validateProduct(input); err != nil {
		return err
	}
	if err := s.repo.UpdateItem(itemFromInput(itemID, input)); err != nil {
		return fmt.Errorf("service: failed to update item %s: %w", itemID, err)
	}
	return nil
}

// DeleteItem removes a product and its bids
func (s *BiddingService) DeleteItem(itemID string) error {
	if !utils.IsValidID(itemID) {
		return fmt.Errorf("service: %w - %q", biddingerrors.ErrInvalidItemID, itemID)
	}
	if err := s.repo.DeleteItem(itemID); err != nil {
		return fmt.Errorf("service: failed to delete item %s: %w", itemID, err)
	}
	return nil
}

// PlaceBid validates and records a user's bid for an item. The bid time is
// the server's clock, not the client's.
func (s *BiddingService) PlaceBid(itemID, username string, amount float64) (models.Bid, error) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return models.Bid{}, err
	}

	now := s.now().UTC()
	if err := s.validateBid(item, username, amount, now); err != nil {
		return models.Bid{}, err
	}

	bid := models.Bid{
		UserID:    username,
		Username:  username,
		ItemID:    itemID,
		Amount:    amount,
		Timestamp: now,
	}
	if err := s.repo.RecordBidForItem(bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for item %s by user %s: %w", itemID, username, err)
	}
	return bid, nil
}

// MinimumBidError carries the amount a rejected bid had to exceed
type MinimumBidError struct {
	Minimum float64
}

func (e *MinimumBidError) Error() string {
	return fmt.Sprintf("Bid must be greater than $%.2f", e.Minimum)
}

func (e *MinimumBidError) Unwrap() error { return biddingerrors.ErrBidTooLow }

// validateBid checks input validity and business rules for bidding
func (s *BiddingService) validateBid(item models.Item, username string, amount float64, now time.Time) error {
	if username == "" {
		return fmt.Errorf("service: %w - missing username", biddingerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidBid)
	}
	if minimum := item.MinimumBid(); amount <= minimum {
		return fmt.Errorf("service: %w", &MinimumBidError{Minimum: minimum})
	}

	switch timing.Evaluate(item.AuctionStartTime, item.Duration, now).Phase {
	case timing.PhaseUnscheduled, timing.PhaseScheduled:
		return fmt.Errorf("service: %w", biddingerrors.ErrAuctionNotStarted)
	case timing.PhaseEnded:
		return fmt.Errorf("service: %w", biddingerrors.ErrAuctionEnded)
	}
	return nil
}

func validateProduct(input models.ProductInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return fmt.Errorf("service: %w - missing name", biddingerrors.ErrInvalidItem)
	case input.AuctionStartTime.IsZero():
		return fmt.Errorf("service: %w - missing auction start time", biddingerrors.ErrInvalidItem)
	case input.Duration <= 0:
		return fmt.Errorf("service: %w - non-positive duration", biddingerrors.ErrInvalidItem)
	case input.StartingPrice < 0:
		return fmt.Errorf("service: %w - negative starting price", biddingerrors.ErrInvalidItem)
	}
	return nil
}

func itemFromInput(id string, input models.ProductInput) models.Item {
	return models.Item{
		ID:               id,
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		StartingPrice:    input.StartingPrice,
		AuctionStartTime: input.AuctionStartTime.UTC(),
		Duration:         input.Duration,
	}
}
