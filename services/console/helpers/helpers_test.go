package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/models"
	"auction-console/internal/timing"
	"auction-console/internal/views"

	"github.com/stretchr/testify/require"
)

func TestProductForm_ToInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		form        ProductForm
		expected    models.ProductInput
		expectedErr error
	}{
		{
			name: "browser_zone",
			form: ProductForm{Name: " Lamp ", StartingPrice: "10.5", Duration: "30", AuctionStartTime: "2024-01-15T09:00", Timezone: "America/New_York"},
			expected: models.ProductInput{
				Name: "Lamp", StartingPrice: 10.5, Duration: 30,
				AuctionStartTime: time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "unknown_zone_falls_back",
			form: ProductForm{Name: "Lamp", Duration: "30", AuctionStartTime: "2024-01-15T09:00", Timezone: "Mars/Base"},
			expected: models.ProductInput{
				Name: "Lamp", Duration: 30,
				AuctionStartTime: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			},
		},
		{
			name:        "bad_price",
			form:        ProductForm{Name: "Lamp", StartingPrice: "ten", Duration: "30", AuctionStartTime: "2024-01-15T09:00"},
			expectedErr: auctionerrors.ErrInvalidFormat,
		},
		{
			name:        "bad_duration",
			form:        ProductForm{Name: "Lamp", Duration: "1.5", AuctionStartTime: "2024-01-15T09:00"},
			expectedErr: auctionerrors.ErrInvalidFormat,
		},
		{
			name:        "missing_start",
			form:        ProductForm{Name: "Lamp", Duration: "30"},
			expectedErr: auctionerrors.ErrMissingField,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			input, err := tc.form.ToInput(time.UTC)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected.Name, input.Name)
			require.Equal(t, tc.expected.StartingPrice, input.StartingPrice)
			require.Equal(t, tc.expected.Duration, input.Duration)
			require.True(t, tc.expected.AuctionStartTime.Equal(input.AuctionStartTime))
		})
	}

	require.Equal(t, "America/New_York", ProductForm{Timezone: "America/New_York"}.Location(time.UTC).String())
	require.Equal(t, time.UTC, ProductForm{}.Location(nil))
}

func TestMapErrorToHTTP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "validation",
			err:            &auctionerrors.ValidationError{Err: auctionerrors.ErrBidTooLow, Message: "Bid must be greater than $10.00"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Bid must be greater than $10.00",
		},
		{
			name:           "backend_detail",
			err:            fmt.Errorf("place bid: %w", &auctionerrors.APIError{Status: http.StatusBadRequest, Detail: "Auction has already ended"}),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Auction has already ended",
		},
		{
			name:           "odd_status",
			err:            &auctionerrors.APIError{Status: http.StatusFound},
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    auctionerrors.GenericDetail,
		},
		{
			name:           "unavailable",
			err:            fmt.Errorf("list items: %w", auctionerrors.ErrBackendUnavailable),
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "The auction service is unreachable. Please try again.",
		},
		{
			name:           "bad_response",
			err:            auctionerrors.ErrBadResponse,
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    auctionerrors.GenericDetail,
		},
		{
			name:           "not_found",
			err:            auctionerrors.ErrItemNotFound,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "item not found",
		},
		{
			name:           "unknown",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    auctionerrors.GenericDetail,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			status, msg := MapErrorToHTTP(tc.err)
			require.Equal(t, tc.expectedStatus, status)
			require.Equal(t, tc.expectedMsg, msg)
		})
	}
}

func TestNewStreamSnapshot(t *testing.T) {
	t.Parallel()
	evaluated := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	snap := NewStreamSnapshot(views.Snapshot{
		Rows: []views.Row{
			{Item: models.Item{ID: "a", Name: "Lamp"}, Status: timing.Status{Phase: timing.PhaseEnded}},
			{Item: models.Item{ID: "b"}},
		},
		Stale:     true,
		Evaluated: evaluated,
	})

	require.True(t, snap.Stale)
	require.Equal(t, "2024-01-01T17:00:00Z", snap.Evaluated)
	require.Len(t, snap.Rows, 2)
	require.Equal(t, "a", snap.Rows[0].Item.ID)
	require.Equal(t, timing.EndedText, snap.Rows[0].Label)
	require.Equal(t, "No auction scheduled", snap.Rows[1].Label)
}
