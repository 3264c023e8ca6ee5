package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
)

// fakeSessionStore keeps session rows in memory, one per user like the
// Postgres implementation.
type fakeSessionStore struct {
	byUser map[string]*auth.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byUser: map[string]*auth.Session{}}
}

func (s *fakeSessionStore) Put(session *auth.Session) error {
	copied := *session
	s.byUser[session.UserID] = &copied
	return nil
}

func (s *fakeSessionStore) Get(sessionID string) (*auth.Session, error) {
	for _, session := range s.byUser {
		if session.SessionID == sessionID {
			copied := *session
			return &copied, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *fakeSessionStore) Delete(sessionID string) error {
	for userID, session := range s.byUser {
		if session.SessionID == sessionID {
			delete(s.byUser, userID)
		}
	}
	return nil
}

// countingStore records how many user lookups the cache performs.
type countingStore struct {
	*fakeStore
	finds int
}

func (s *countingStore) FindByID(id string) (*auth.User, error) {
	s.finds++
	return s.fakeStore.FindByID(id)
}

func newSessionFixture(t *testing.T) (*auth.SessionCache, *fakeSessionStore, *countingStore) {
	t.Helper()
	store := &countingStore{fakeStore: newFakeStore()}
	sessions := newFakeSessionStore()
	cache := &auth.SessionCache{Sessions: sessions, Store: store, Admin: testAdmin}
	return cache, sessions, store
}

func storedUserPrincipal(t *testing.T, store *countingStore) auth.Principal {
	t.Helper()
	email := "dana@example.com"
	cart := "cart-1"
	require.NoError(t, store.Create(&auth.User{
		UserID: "u-1",
		Email:  &email,
		CartID: &cart,
		Role:   auth.RoleUser,
	}))
	return auth.Principal{ID: "u-1", Cart: cart, Role: auth.RoleUser, Email: email}
}

func TestSessionRoundtrip(t *testing.T) {
	cache, _, store := newSessionFixture(t)
	principal := storedUserPrincipal(t, store)

	sid, err := cache.Serialize(principal)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	got, err := cache.Deserialize(sid)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestSessionSerializeReplacesPerUser(t *testing.T) {
	cache, sessions, store := newSessionFixture(t)
	principal := storedUserPrincipal(t, store)

	first, err := cache.Serialize(principal)
	require.NoError(t, err)
	second, err := cache.Serialize(principal)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.Len(t, sessions.byUser, 1, "one live session per user")
	_, err = cache.Deserialize(first)
	assert.Error(t, err, "the replaced session id must stop resolving")
	_, err = cache.Deserialize(second)
	assert.NoError(t, err)
}

func TestSessionDeserializeAdminSkipsStore(t *testing.T) {
	cache, _, store := newSessionFixture(t)

	sid, err := cache.Serialize(auth.AdminPrincipal(testAdmin))
	require.NoError(t, err)

	got, err := cache.Deserialize(sid)
	require.NoError(t, err)
	assert.Equal(t, auth.AdminPrincipal(testAdmin), got)
	assert.True(t, got.IsAdmin())
	assert.Zero(t, store.finds, "the admin identity is rebuilt from configuration, never fetched")
}

func TestSessionDeserializeExpired(t *testing.T) {
	cache, sessions, store := newSessionFixture(t)
	storedUserPrincipal(t, store)

	require.NoError(t, sessions.Put(&auth.Session{
		SessionID: "stale-sid",
		UserID:    "u-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := cache.Deserialize("stale-sid")
	assert.True(t, auth.IsKind(err, auth.KindInvalidCredentials), "got %v", err)
}

func TestSessionDeserializeUnknownID(t *testing.T) {
	cache, _, _ := newSessionFixture(t)

	_, err := cache.Deserialize("never-issued")
	assert.True(t, auth.IsKind(err, auth.KindInvalidCredentials), "got %v", err)
}

func TestSessionDeserializeMissingUser(t *testing.T) {
	cache, sessions, _ := newSessionFixture(t)

	// A session whose user record was deleted out from under it.
	require.NoError(t, sessions.Put(&auth.Session{
		SessionID: "orphan-sid",
		UserID:    "gone",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err := cache.Deserialize("orphan-sid")
	assert.True(t, auth.IsKind(err, auth.KindInvalidCredentials), "got %v", err)
}

func TestSessionDrop(t *testing.T) {
	cache, _, store := newSessionFixture(t)
	principal := storedUserPrincipal(t, store)

	sid, err := cache.Serialize(principal)
	require.NoError(t, err)
	require.NoError(t, cache.Drop(sid))

	_, err = cache.Deserialize(sid)
	assert.Error(t, err)

	// Dropping an id that never existed is not an error.
	assert.NoError(t, cache.Drop("never-issued"))
}
