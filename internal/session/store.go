// Package session holds the per-browser authentication state and the
// stores that persist credentials between requests.
package session

import (
	"context"
	"sync"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/models"
)

// CredentialStore persists the credential of each browser session
type CredentialStore interface {
	// Get returns ErrNoCredential when nothing is stored for sessionID.
	Get(ctx context.Context, sessionID string) (models.Credential, error)
	Put(ctx context.Context, sessionID string, cred models.Credential) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	cred      models.Credential
	expiresAt time.Time
}

// MemoryStore is a concurrency-safe in-memory CredentialStore
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose entries expire after ttl (0 = never)
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the credential stored for sessionID
func (s *MemoryStore) Get(_ context.Context, sessionID string) (models.Credential, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return models.Credential{}, auctionerrors.ErrNoCredential
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return models.Credential{}, auctionerrors.ErrNoCredential
	}
	return entry.cred, nil
}

// Put stores cred for sessionID, replacing any previous one
func (s *MemoryStore) Put(_ context.Context, sessionID string, cred models.Credential) error {
	entry := memoryEntry{cred: cred}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = entry
	return nil
}

// Delete removes the credential for sessionID
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Len reports how many sessions are stored
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
