package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStateStore_IssueAndConsume(t *testing.T) {
	store := newStateStore()
	userID := uuid.New()

	state := store.Issue(userID)
	assert.NotEmpty(t, state)

	got, ok := store.Consume(state)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestStateStore_SingleUse(t *testing.T) {
	store := newStateStore()

	state := store.Issue(uuid.Nil)
	_, ok := store.Consume(state)
	assert.True(t, ok)

	_, ok = store.Consume(state)
	assert.False(t, ok, "a state token must not be consumable twice")
}

func TestStateStore_UnknownState(t *testing.T) {
	store := newStateStore()

	_, ok := store.Consume("never-issued")
	assert.False(t, ok)
}

func TestStateStore_Expired(t *testing.T) {
	store := newStateStore()

	state := store.Issue(uuid.New())
	store.mu.Lock()
	entry := store.states[state]
	entry.expires = time.Now().Add(-time.Minute)
	store.states[state] = entry
	store.mu.Unlock()

	_, ok := store.Consume(state)
	assert.False(t, ok)
}

func TestStateStore_SocialLoginCarriesNilUser(t *testing.T) {
	store := newStateStore()

	state := store.Issue(uuid.Nil)
	got, ok := store.Consume(state)
	assert.True(t, ok)
	assert.Equal(t, uuid.Nil, got)
}

func TestStateStore_DistinctTokens(t *testing.T) {
	store := newStateStore()

	a := store.Issue(uuid.New())
	b := store.Issue(uuid.New())
	assert.NotEqual(t, a, b)
}
