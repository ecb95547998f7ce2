package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // browsers may report zones the host lacks

	"auction-console/internal/auctionerrors"
	"auction-console/internal/backend"
	"auction-console/internal/models"
)

// AdminMode is the state of the product console
type AdminMode string

const (
	AdminIdle     AdminMode = "idle"
	AdminCreating AdminMode = "creating"
	AdminEditing  AdminMode = "editing"
)

// LocalDateTimeLayout is the wall-clock layout of an HTML datetime-local input
const LocalDateTimeLayout = "2006-01-02T15:04"

// ParseLocalDateTime interprets a wall-clock value in loc and returns the
// absolute instant in UTC.
func ParseLocalDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &auctionerrors.ValidationError{
			Err:     auctionerrors.ErrMissingField,
			Message: "Auction start time is required.",
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{LocalDateTimeLayout, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &auctionerrors.ValidationError{
		Err:     auctionerrors.ErrInvalidFormat,
		Message: fmt.Sprintf("Auction start time %q is not a valid date and time.", value),
	}
}

// FormatLocalDateTime renders an instant for a datetime-local input in loc
func FormatLocalDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LocalDateTimeLayout)
}

// ProductAdminView is the CRUD console: Idle <-> Creating <-> Editing(id)
type ProductAdminView struct {
	api backend.AuctionAPI

	mu        sync.RWMutex
	mode      AdminMode
	editingID string
	form      models.ProductInput
	products  []models.Item
}

// NewProductAdminView creates an idle console
func NewProductAdminView(api backend.AuctionAPI) *ProductAdminView {
	return &ProductAdminView{api: api, mode: AdminIdle}
}

// Load re-fetches the product collection
func (v *ProductAdminView) Load(ctx context.Context) error {
	items, err := v.api.ListItems(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.products = items
	v.mu.Unlock()
	return nil
}

// Products returns the cached collection
func (v *ProductAdminView) Products() []models.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Item(nil), v.products...)
}

// Mode returns the current mode and, when editing, the product id
func (v *ProductAdminView) Mode() (AdminMode, string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mode, v.editingID
}

// Form returns the values the form is seeded with
func (v *ProductAdminView) Form() models.ProductInput {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.form
}

// BeginCreate clears the form for a new product
func (v *ProductAdminView) BeginCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = AdminCreating
	v.editingID = ""
	v.form = models.ProductInput{}
}

// BeginEdit seeds the form from a loaded product
func (v *ProductAdminView) BeginEdit(productID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.products {
		if p.ID == productID {
			v.mode = AdminEditing
			v.editingID = productID
			v.form = models.InputFromItem(p)
			return nil
		}
	}
	return fmt.Errorf("edit product %s: %w", productID, auctionerrors.ErrItemNotFound)
}

// Cancel returns to Idle without submitting
func (v *ProductAdminView) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reset()
}

func (v *ProductAdminView) reset() {
	v.mode = AdminIdle
	v.editingID = ""
	v.form = models.ProductInput{}
}

// ValidateProduct checks the fields the form marks required
func ValidateProduct(input models.ProductInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return &auctionerrors.ValidationError{Err: auctionerrors.ErrMissingField, Message: "Product name is required."}
	case input.AuctionStartTime.IsZero():
		return &auctionerrors.ValidationError{Err: auctionerrors.ErrMissingField, Message: "Auction start time is required."}
	case input.Duration <= 0:
		return &auctionerrors.ValidationError{Err: auctionerrors.ErrMissingField, Message: "Duration must be a positive number of minutes."}
	case input.StartingPrice < 0:
		return &auctionerrors.ValidationError{Err: auctionerrors.ErrInvalidFormat, Message: "Starting price cannot be negative."}
	}
	return nil
}

// Submit updates the product being edited, or creates a new one, then
// re-fetches the collection and returns to Idle.
func (v *ProductAdminView) Submit(ctx context.Context, input models.ProductInput) error {
	v.mu.Lock()
	v.form = input
	mode, id := v.mode, v.editingID
	v.mu.Unlock()

	if err := ValidateProduct(input); err != nil {
		return err
	}
	input.AuctionStartTime = input.AuctionStartTime.UTC()

	if mode == AdminEditing {
		if err := v.api.UpdateItem(ctx, id, input); err != nil {
			return err
		}
	} else {
		if _, err := v.api.CreateItem(ctx, input); err != nil {
			return err
		}
	}

	v.mu.Lock()
	v.reset()
	v.mu.Unlock()

	return v.Load(ctx)
}

// Delete removes a product once the user has confirmed, then re-fetches
func (v *ProductAdminView) Delete(ctx context.Context, productID string, confirmed bool) error {
	if !confirmed {
		return &auctionerrors.ValidationError{
			Err:     auctionerrors.ErrNotConfirmed,
			Message: "Deletion was not confirmed.",
		}
	}
	if err := v.api.DeleteItem(ctx, productID); err != nil {
		return err
	}

	v.mu.Lock()
	if v.editingID == productID {
		v.reset()
	}
	v.mu.Unlock()

	return v.Load(ctx)
}
