// Package views holds the state machines behind the console pages. Views
// are transport-agnostic; HTTP handlers drive them and render their state.
package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/backend"
	"auction-console/internal/models"
	"auction-console/internal/timing"
	"auction-console/utils"
)

// Default listing cadences
const (
	DefaultTick    = time.Second
	DefaultRefresh = 60 * time.Second
)

// Row is one listed item with its derived timing fields
type Row struct {
	Item   models.Item   `json:"item"`
	Status timing.Status `json:"status"`
}

// Snapshot is what the listing page renders
type Snapshot struct {
	Rows      []Row     `json:"rows"`
	Stale     bool      `json:"stale"`
	LoadedAt  time.Time `json:"loaded_at"`
	Evaluated time.Time `json:"evaluated_at"`
}

// ListingOptions tunes a ListingView. Zero values fall back to defaults.
type ListingOptions struct {
	Tick    time.Duration
	Refresh time.Duration
	Now     func() time.Time
}

// ListingView caches the product collection and keeps derived timing
// fields current while mounted.
type ListingView struct {
	api     backend.AuctionAPI
	tick    time.Duration
	refresh time.Duration
	now     func() time.Time

	loadMu sync.Mutex // serializes fetches

	mu        sync.RWMutex
	items     []models.Item
	rows      []Row
	stale     bool
	lastErr   error
	loadedAt  time.Time
	evaluated time.Time
	mounted   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	listeners []func(Snapshot)
}

// NewListingView creates an unmounted view
func NewListingView(api backend.AuctionAPI, opts ListingOptions) *ListingView {
	v := &ListingView{
		api:     api,
		tick:    opts.Tick,
		refresh: opts.Refresh,
		now:     opts.Now,
	}
	if v.tick <= 0 {
		v.tick = DefaultTick
	}
	if v.refresh <= 0 {
		v.refresh = DefaultRefresh
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v
}

// Load fetches the collection. On failure the previous cache is kept and
// the view is marked stale.
func (v *ListingView) Load(ctx context.Context) error {
	v.loadMu.Lock()
	defer v.loadMu.Unlock()

	items, err := v.api.ListItems(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		utils.Warn("listing: load failed, keeping cached items", map[string]any{"error": err.Error()})
		v.mu.Lock()
		v.stale = true
		v.lastErr = err
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	v.items = items
	v.stale = false
	v.lastErr = nil
	v.loadedAt = v.now()
	v.mu.Unlock()

	v.Recompute(v.now())
	return nil
}

// Recompute derives the timing fields of every cached item at now
func (v *ListingView) Recompute(now time.Time) {
	v.mu.Lock()
	rows := make([]Row, len(v.items))
	for i, item := range v.items {
		rows[i] = Row{Item: item, Status: timing.Evaluate(item.AuctionStartTime, item.Duration, now)}
	}
	v.rows = rows
	v.evaluated = now
	snap := v.snapshotLocked()
	listeners := append([]func(Snapshot){}, v.listeners...)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Snapshot returns a copy of the current rows
func (v *ListingView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshotLocked()
}

func (v *ListingView) snapshotLocked() Snapshot {
	return Snapshot{
		Rows:      append([]Row(nil), v.rows...),
		Stale:     v.stale,
		LoadedAt:  v.loadedAt,
		Evaluated: v.evaluated,
	}
}

// LastError is the error of the latest failed load, nil after a success
func (v *ListingView) LastError() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastErr
}

// Subscribe registers fn to receive every recomputed snapshot
func (v *ListingView) Subscribe(fn func(Snapshot)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Mounted reports whether the periodic tasks are running
func (v *ListingView) Mounted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mounted
}

// Mount starts the recompute tick and the refresh loop. Both stop when
// Unmount is called or ctx is cancelled.
func (v *ListingView) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return errors.New("listing: already mounted")
	}
	ctx, cancel := context.WithCancel(ctx)
	v.mounted = true
	v.cancel = cancel
	v.mu.Unlock()

	v.wg.Add(2)
	go v.tickLoop(ctx)
	go v.refreshLoop(ctx)
	return nil
}

// Unmount cancels both tasks and waits for them; no state changes after
// it returns.
func (v *ListingView) Unmount() {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return
	}
	v.mounted = false
	cancel := v.cancel
	v.cancel = nil
	v.listeners = nil
	v.mu.Unlock()

	cancel()
	v.wg.Wait()
}

func (v *ListingView) tickLoop(ctx context.Context) {
	defer v.wg.Done()
	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			v.Recompute(v.now())
		}
	}
}

func (v *ListingView) refreshLoop(ctx context.Context) {
	defer v.wg.Done()
	ticker := time.NewTicker(v.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			v.refreshOnce(ctx)
		}
	}
}

// refreshOnce fetches into a detached copy and applies it only if the view
// is still mounted when the response arrives.
func (v *ListingView) refreshOnce(ctx context.Context) {
	v.loadMu.Lock()
	items, err := v.api.ListItems(ctx)
	v.loadMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return
	}
	if err != nil {
		utils.Warn("listing: refresh failed, keeping cached items", map[string]any{"error": err.Error()})
		v.stale = true
		v.lastErr = err
		v.mu.Unlock()
		return
	}
	v.items = items
	v.stale = false
	v.lastErr = nil
	v.loadedAt = v.now()
	v.mu.Unlock()

	v.Recompute(v.now())
}

// IsUnauthorized reports whether the last load was rejected for credentials
func (v *ListingView) IsUnauthorized() bool {
	return errors.Is(v.LastError(), auctionerrors.ErrUnauthorized)
}
