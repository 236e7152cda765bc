package server

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// stateTTL bounds how long an OAuth handshake may take
const stateTTL = 10 * time.Minute

type stateEntry struct {
	userID  uuid.UUID
	expires time.Time
}

// stateStore tracks OAuth state tokens between the auth-url and callback
// requests. Social login states carry uuid.Nil; LinkedIn connect states
// carry the user performing the connection.
type stateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]stateEntry)}
}

// Issue creates a single-use state token bound to userID
func (s *stateStore) Issue(userID uuid.UUID) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	state := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.states[state] = stateEntry{userID: userID, expires: time.Now().Add(stateTTL)}
	return state
}

// Consume validates and removes a state token, returning the bound user
func (s *stateStore) Consume(state string) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[state]
	if !ok {
		return uuid.Nil, false
	}
	delete(s.states, state)
	if time.Now().After(entry.expires) {
		return uuid.Nil, false
	}
	return entry.userID, true
}

// prune drops expired entries; caller holds the lock
func (s *stateStore) prune() {
	now := time.Now()
	for state, entry := range s.states {
		if now.After(entry.expires) {
			delete(s.states, state)
		}
	}
}
