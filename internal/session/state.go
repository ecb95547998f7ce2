package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/models"
	"auction-console/utils"
)

// State is the authentication state of one browser session. The flag is
// restored from the credential store once and changes only through Login
// and Logout.
type State struct {
	store     CredentialStore
	sessionID string

	restoreOnce sync.Once
	mu          sync.RWMutex
	authed      bool
	cred        models.Credential
}

// NewState binds a state to a session identifier and its store
func NewState(store CredentialStore, sessionID string) *State {
	return &State{store: store, sessionID: sessionID}
}

// SessionID returns the identifier the state is bound to
func (s *State) SessionID() string { return s.sessionID }

// Restore inspects the store exactly once. The stored credential is trusted
// as-is; the backend is the one to reject it.
func (s *State) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		cred, err := s.store.Get(ctx, s.sessionID)
		if err != nil {
			if !errors.Is(err, auctionerrors.ErrNoCredential) {
				utils.Warn("session: restore failed", map[string]any{"session_id": s.sessionID, "error": err.Error()})
			}
			return
		}
		s.mu.Lock()
		s.authed = true
		s.cred = cred
		s.mu.Unlock()
	})
}

// IsAuthenticated reports the current flag
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

// Credential returns the restored or stored credential
func (s *State) Credential() models.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// Login sets the flag. It does not check that a credential was stored;
// callers persist the credential first (see Authenticate).
func (s *State) Login() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authed = true
}

// Authenticate persists cred and then logs the session in
func (s *State) Authenticate(ctx context.Context, cred models.Credential) error {
	if err := s.store.Put(ctx, s.sessionID, cred); err != nil {
		return fmt.Errorf("session: store credential: %w", err)
	}
	// a later Restore must not overwrite what was just stored
	s.restoreOnce.Do(func() {})
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	s.Login()
	return nil
}

// Logout clears the flag and the persisted credential
func (s *State) Logout(ctx context.Context) error {
	s.restoreOnce.Do(func() {})
	s.mu.Lock()
	s.authed = false
	s.cred = models.Credential{}
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.sessionID); err != nil {
		return fmt.Errorf("session: clear credential: %w", err)
	}
	return nil
}
