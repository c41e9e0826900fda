package session

import (
	"fmt"
	"sync"

	"newsreader/internal/dto"
	"newsreader/pkg/kvstore"
)

// Store persists session state under the fixed snapshot keys. Multi-key
// updates are guarded by the store's own mutex so a login never leaves the
// snapshot half-written.
type Store struct {
	mu sync.RWMutex
	kv *kvstore.Store
}

func NewStore(kv *kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Current resolves the authoritative session. An admin token outranks a
// user token whenever both are stored.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if token := s.kv.GetString(kvstore.KeyAdminToken); token != "" {
		sub, expiry := claimsOf(token)
		return Session{Kind: Admin, Token: token, Subject: sub, Expiry: expiry}
	}

	if token := s.kv.GetString(kvstore.KeyToken); token != "" {
		sub, expiry := claimsOf(token)
		if profile, ok := s.storedUser(); ok {
			sub = Subject{ID: profile.ID, Name: profile.Name, Email: profile.Email}
		}
		return Session{Kind: User, Token: token, Subject: sub, Expiry: expiry}
	}

	return Session{Kind: Anonymous}
}

// UserToken returns the stored end-user token, "" when signed out.
func (s *Store) UserToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.kv.GetString(kvstore.KeyToken)
}

// AdminToken returns the stored admin token, "" when signed out.
func (s *Store) AdminToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.kv.GetString(kvstore.KeyAdminToken)
}

// CurrentUser returns the persisted end-user profile.
func (s *Store) CurrentUser() (dto.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.storedUser()
}

func (s *Store) storedUser() (dto.User, bool) {
	var u dto.User
	found, err := s.kv.Get(kvstore.KeyUser, &u)
	if err != nil || !found {
		return dto.User{}, false
	}
	return u, true
}

// SetUser installs an end-user session. Logging in as either role evicts
// the other role's token, so the two schemes can never both claim a live
// session at once.
func (s *Store) SetUser(token string, profile dto.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.SetString(kvstore.KeyToken, token); err != nil {
		return fmt.Errorf("persist user token: %w", err)
	}
	if err := s.kv.Set(kvstore.KeyUser, profile); err != nil {
		return fmt.Errorf("persist user profile: %w", err)
	}
	return s.kv.Delete(kvstore.KeyAdminToken)
}

// SetAdmin installs an admin session and evicts any end-user session.
func (s *Store) SetAdmin(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.SetString(kvstore.KeyAdminToken, token); err != nil {
		return fmt.Errorf("persist admin token: %w", err)
	}
	if err := s.kv.Delete(kvstore.KeyToken); err != nil {
		return err
	}
	return s.kv.Delete(kvstore.KeyUser)
}

// ClearUser removes the end-user token and identity.
func (s *Store) ClearUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(kvstore.KeyToken); err != nil {
		return err
	}
	return s.kv.Delete(kvstore.KeyUser)
}

// ClearAdmin removes the admin token.
func (s *Store) ClearAdmin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.Delete(kvstore.KeyAdminToken)
}

// Clear signs out both roles.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{kvstore.KeyToken, kvstore.KeyUser, kvstore.KeyAdminToken} {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
