package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mkarpova/focusdo/internal/model"
)

// Storage slot names. These are the only keys the session store owns.
const (
	slotCredential = "credential"
	slotIdentity   = "identity"
)

// ErrNoSession is returned by Restore when no persisted session exists.
var ErrNoSession = errors.New("no active session")

// KV is the durable key/value collaborator. Writes are atomic per key;
// there is no cross-key transaction guarantee and the store doesn't need
// one.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store holds the authenticated identity and its credential. The two are
// set and cleared strictly together. Epoch increments on every transition
// so in-flight work issued under an older session can detect it has been
// superseded.
type Store struct {
	mu         sync.Mutex
	identity   *model.Identity
	credential string
	epoch      int
	kv         KV
}

// NewStore creates a session store backed by kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Restore loads a previously persisted session. Called once at startup;
// returns ErrNoSession (leaving the store unauthenticated) when either
// slot is absent. Idempotent.
func (s *Store) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.kv.Get(slotCredential)
	if err != nil {
		return fmt.Errorf("reading credential: %w", err)
	}
	if !ok || token == "" {
		return ErrNoSession
	}

	raw, ok, err := s.kv.Get(slotIdentity)
	if err != nil {
		return fmt.Errorf("reading identity: %w", err)
	}
	if !ok {
		// Half a session is no session. Drop the orphaned credential.
		s.kv.Delete(slotCredential)
		return ErrNoSession
	}

	var id model.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return fmt.Errorf("parsing stored identity: %w", err)
	}

	s.identity = &id
	s.credential = token
	s.epoch++
	return nil
}

// Login sets the session and persists it. The credential must be non-empty.
func (s *Store) Login(id model.Identity, credential string) error {
	if credential == "" {
		return errors.New("empty credential")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	if err := s.kv.Set(slotCredential, credential); err != nil {
		return fmt.Errorf("persisting credential: %w", err)
	}
	if err := s.kv.Set(slotIdentity, string(raw)); err != nil {
		// Keep the invariant: never leave one slot without the other.
		s.kv.Delete(slotCredential)
		return fmt.Errorf("persisting identity: %w", err)
	}

	s.identity = &id
	s.credential = credential
	s.epoch++
	return nil
}

// Logout clears the session in memory and in durable storage. Safe to call
// when already logged out.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// ForceInvalidate is Logout triggered by an unauthorized response. The
// epoch bump lets in-flight operations issued under the dead session
// discard their results instead of surfacing duplicate errors.
func (s *Store) ForceInvalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() error {
	wasActive := s.identity != nil
	s.identity = nil
	s.credential = ""
	if wasActive {
		s.epoch++
	}

	if err := s.kv.Delete(slotCredential); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	if err := s.kv.Delete(slotIdentity); err != nil {
		return fmt.Errorf("clearing identity: %w", err)
	}
	return nil
}

// Identity returns the authenticated identity, if any.
func (s *Store) Identity() (model.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return model.Identity{}, false
	}
	return *s.identity, true
}

// Credential returns the opaque token, if any. Implements
// api.CredentialSource.
func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return "", false
	}
	return s.credential, true
}

// Active reports whether a session is present.
func (s *Store) Active() bool {
	_, ok := s.Identity()
	return ok
}

// Epoch returns the current session generation. Any login, logout or
// invalidation changes it.
func (s *Store) Epoch() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}
