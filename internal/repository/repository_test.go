package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-console/internal/biddingerrors"
	"auction-console/internal/models"

	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// Helper to create a new Item
func newItem(itemID, name string, startingPrice float64) models.Item {
	return models.Item{
		ID:               itemID,
		Name:             name,
		Description:      fmt.Sprintf("%s description", name),
		StartingPrice:    startingPrice,
		AuctionStartTime: start,
		Duration:         60,
	}
}

// Helper to create a new Bid
func newBid(itemID, username string, amount float64, ts time.Time) models.Bid {
	return models.Bid{
		UserID:    username,
		Username:  username,
		ItemID:    itemID,
		Amount:    amount,
		Timestamp: ts,
	}
}

func TestMemoryRepo_ItemLifecycle(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	require.NoError(t, repo.AddItem(newItem("item1", "Item 1", 50)))
	require.NoError(t, repo.AddItem(newItem("item2", "Item 2", 75)))

	items, err := repo.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "item1", items[0].ID, "insertion order is kept")
	require.Empty(t, items[0].Bids)
	require.Nil(t, items[0].HighestBid)

	updated := newItem("item1", "Item 1 renamed", 55)
	require.NoError(t, repo.UpdateItem(updated))
	got, err := repo.GetItem("item1")
	require.NoError(t, err)
	require.Equal(t, "Item 1 renamed", got.Name)

	require.NoError(t, repo.DeleteItem("item1"))
	_, err = repo.GetItem("item1")
	require.ErrorIs(t, err, biddingerrors.ErrItemNotFound)

	items, err = repo.ListItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestMemoryRepo_Errors(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{name: "add_empty_id", run: func() error { return repo.AddItem(models.Item{}) }, wantErr: biddingerrors.ErrInvalidItem},
		{name: "update_missing", run: func() error { return repo.UpdateItem(newItem("x", "x", 1)) }, wantErr: biddingerrors.ErrItemNotFound},
		{name: "delete_missing", run: func() error { return repo.DeleteItem("x") }, wantErr: biddingerrors.ErrItemNotFound},
		{name: "bid_missing_item", run: func() error { return repo.RecordBidForItem(newBid("x", "u", 1, start)) }, wantErr: biddingerrors.ErrItemNotFound},
		{name: "get_missing", run: func() error { _, err := repo.GetItem("x"); return err }, wantErr: biddingerrors.ErrItemNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, tc.run(), tc.wantErr)
		})
	}
}

func TestMemoryRepo_RecordBidForItem(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	require.NoError(t, repo.AddItem(newItem("item1", "Item 1", 50)))

	require.NoError(t, repo.RecordBidForItem(newBid("item1", "bob", 120, start.Add(2*time.Minute))))
	require.NoError(t, repo.RecordBidForItem(newBid("item1", "alice", 100, start.Add(time.Minute))))

	item, err := repo.GetItem("item1")
	require.NoError(t, err)
	require.Len(t, item.Bids, 2)
	require.Equal(t, "alice", item.Bids[0].Username, "bids are ordered by time")
	require.NotNil(t, item.HighestBid)
	require.Equal(t, 120.0, *item.HighestBid)

	// updating the item keeps its bids
	require.NoError(t, repo.UpdateItem(newItem("item1", "Item 1", 60)))
	item, err = repo.GetItem("item1")
	require.NoError(t, err)
	require.Len(t, item.Bids, 2)

	// concurrency test
	t.Run("concurrent_bids", func(t *testing.T) {
		t.Parallel()

		repo := NewMemoryRepo()
		require.NoError(t, repo.AddItem(newItem("item1", "Item 1", 50)))

		var wg sync.WaitGroup
		concurrentCount := 50

		for i := 0; i < concurrentCount; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				b := newBid("item1", fmt.Sprintf("user-%d", i), float64(100+i), time.Now())
				require.NoError(t, repo.RecordBidForItem(b))
			}()
		}
		wg.Wait()

		item, err := repo.GetItem("item1")
		require.NoError(t, err)
		require.Len(t, item.Bids, concurrentCount)
		require.Equal(t, float64(100+concurrentCount-1), *item.HighestBid)
	})
}

func TestMemoryRepo_Users(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	alice := models.User{ID: "u1", Username: "alice", Email: "Alice@Example.com", PasswordHash: "h"}
	require.NoError(t, repo.AddUser(alice))

	tests := []struct {
		name    string
		user    models.User
		wantErr error
	}{
		{name: "same_email_other_case", user: models.User{Username: "alice2", Email: "alice@example.com"}, wantErr: biddingerrors.ErrDuplicateUser},
		{name: "same_username", user: models.User{Username: "alice", Email: "other@example.com"}, wantErr: biddingerrors.ErrDuplicateUser},
		{name: "new_user", user: models.User{Username: "bob", Email: "bob@example.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.AddUser(tc.user)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	got, err := repo.GetUserByEmail("ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, alice, got)

	got, err = repo.GetUserByUsername("alice")
	require.NoError(t, err)
	require.Equal(t, alice, got)

	_, err = repo.GetUserByEmail("nobody@example.com")
	require.ErrorIs(t, err, biddingerrors.ErrUserNotFound)
	_, err = repo.GetUserByUsername("nobody")
	require.ErrorIs(t, err, biddingerrors.ErrUserNotFound)
}
