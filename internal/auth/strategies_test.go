package auth_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
	"github.com/SantaTabla/Shop-Backend/internal/config"
)

// fakeStore is an in-memory UserStore for exercising the strategies without
// a database.
type fakeStore struct {
	users map[string]*auth.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*auth.User{}}
}

func (s *fakeStore) FindByEmail(email string) (*auth.User, error) {
	for _, u := range s.users {
		if u.Email != nil && *u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *fakeStore) FindByID(id string) (*auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeStore) FindByGithubID(githubID string) (*auth.User, error) {
	for _, u := range s.users {
		if u.GithubID != nil && *u.GithubID == githubID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *fakeStore) Create(u *auth.User) error {
	if u.Email != nil {
		if _, err := s.FindByEmail(*u.Email); err == nil {
			return auth.ErrConflict
		}
	}
	copied := *u
	s.users[u.UserID] = &copied
	return nil
}

func (s *fakeStore) Save(u *auth.User) error {
	if _, ok := s.users[u.UserID]; !ok {
		return auth.ErrNotFound
	}
	copied := *u
	s.users[u.UserID] = &copied
	return nil
}

func (s *fakeStore) Delete(id string) error {
	delete(s.users, id)
	return nil
}

// fakeCarts counts provisioned carts.
type fakeCarts struct {
	created int
}

func (c *fakeCarts) CreateCart(email string) (string, error) {
	c.created++
	return fmt.Sprintf("cart-%d", c.created), nil
}

var testAdmin = config.AdminConfig{Email: "admin@shop.com", Password: "admin-secret"}

func newEngine() (*auth.StrategyEngine, *fakeStore, *fakeCarts) {
	store := newFakeStore()
	carts := &fakeCarts{}
	engine := auth.NewStrategyEngine(store, carts, auth.NewCodec("test-secret"), testAdmin)
	return engine, store, carts
}

func TestRegisterCreatesUserWithCart(t *testing.T) {
	engine, store, carts := newEngine()

	user, err := engine.Register(auth.RegisterForm{
		FirstName: "  dana ",
		LastName:  "rivas",
		Email:     " Dana@Example.COM ",
		Age:       27,
		Password:  "hunter2!",
	})
	require.NoError(t, err)

	assert.Equal(t, "Dana", user.FirstName)
	assert.Equal(t, "Rivas", user.LastName)
	assert.Equal(t, "dana@example.com", user.EmailOrEmpty())
	assert.Equal(t, auth.RoleUser, user.Role)
	assert.Equal(t, "local", user.Provider)
	require.NotNil(t, user.CartID)
	assert.Equal(t, 1, carts.created)

	stored, err := store.FindByID(user.UserID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "hunter2!", stored.HashedPassword)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	engine, store, _ := newEngine()

	_, err := engine.Register(auth.RegisterForm{Email: "dana@example.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = engine.Register(auth.RegisterForm{Email: "dana@example.com", Password: "pw2"})
	assert.True(t, auth.IsKind(err, auth.KindEmailTaken), "got %v", err)
	assert.Len(t, store.users, 1, "the duplicate must not create a record")
}

// racingStore simulates losing the uniqueness race: the pre-insert lookup
// sees nothing, the insert itself collides.
type racingStore struct {
	*fakeStore
}

func (s *racingStore) FindByEmail(email string) (*auth.User, error) {
	return nil, auth.ErrNotFound
}

func (s *racingStore) Create(u *auth.User) error {
	return auth.ErrConflict
}

func TestRegisterLosesUniquenessRace(t *testing.T) {
	store := &racingStore{fakeStore: newFakeStore()}
	carts := &fakeCarts{}
	engine := auth.NewStrategyEngine(store, carts, auth.NewCodec("test-secret"), testAdmin)

	_, err := engine.Register(auth.RegisterForm{Email: "dana@example.com", Password: "pw"})
	assert.True(t, auth.IsKind(err, auth.KindEmailTaken), "got %v", err)
	assert.Empty(t, store.users, "the losing insert must not leave a record")
	// The cart provisioned before the insert stays behind, unreferenced.
	assert.Equal(t, 1, carts.created)
}

func TestLoginVerifiesStoredCredentials(t *testing.T) {
	engine, _, _ := newEngine()

	registered, err := engine.Register(auth.RegisterForm{Email: "dana@example.com", Password: "hunter2!"})
	require.NoError(t, err)

	user, err := engine.Login("dana@example.com", "hunter2!")
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, user.UserID)

	_, err = engine.Login("dana@example.com", "wrong")
	assert.True(t, auth.IsKind(err, auth.KindInvalidCredentials), "got %v", err)

	_, err = engine.Login("nobody@example.com", "hunter2!")
	assert.True(t, auth.IsKind(err, auth.KindInvalidCredentials), "got %v", err)
}

func TestLoginAdminShortCircuitsStore(t *testing.T) {
	engine, store, _ := newEngine()

	// A stored record sharing the admin email must never shadow the
	// configured administrator.
	email := testAdmin.Email
	require.NoError(t, store.Create(&auth.User{
		UserID:         "impostor",
		Email:          &email,
		HashedPassword: "whatever",
		Role:           auth.RoleUser,
	}))

	user, err := engine.Login(testAdmin.Email, testAdmin.Password)
	require.NoError(t, err)
	assert.Equal(t, auth.AdminID, user.UserID)
	assert.Equal(t, auth.RoleAdmin, user.Role)
	assert.Equal(t, "Admin", user.FirstName)

	// Wrong admin password falls through to the store and fails the hash check.
	_, err = engine.Login(testAdmin.Email, "not-the-admin-password")
	assert.True(t, auth.IsKind(err, auth.KindInvalidCredentials), "got %v", err)
}

func TestFederatedLoginWithoutEmail(t *testing.T) {
	engine, _, carts := newEngine()

	first, err := engine.FederatedLogin("gh-42", "", "octocat")
	require.NoError(t, err)
	assert.Nil(t, first.Email)
	assert.Nil(t, first.CartID, "email-less accounts get no cart until backfill")
	assert.Equal(t, "Github", first.Provider)
	assert.Equal(t, 0, carts.created)

	// The same github id resolves to the same record.
	again, err := engine.FederatedLogin("gh-42", "", "octocat")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, again.UserID)
}

func TestFederatedLoginMatchesExistingEmail(t *testing.T) {
	engine, store, _ := newEngine()

	local, err := engine.Register(auth.RegisterForm{Email: "dana@example.com", Password: "pw"})
	require.NoError(t, err)

	user, err := engine.FederatedLogin("gh-42", "dana@example.com", "octocat")
	require.NoError(t, err)
	assert.Equal(t, local.UserID, user.UserID)

	// The github id is not linked to the matched record.
	stored, err := store.FindByID(local.UserID)
	require.NoError(t, err)
	assert.Nil(t, stored.GithubID)
}

func TestFederatedLoginCreatesLinkedRecord(t *testing.T) {
	engine, _, carts := newEngine()

	user, err := engine.FederatedLogin("gh-42", "octo@example.com", "octocat")
	require.NoError(t, err)
	require.NotNil(t, user.Email)
	assert.Equal(t, "octo@example.com", *user.Email)
	require.NotNil(t, user.GithubID)
	assert.Equal(t, "gh-42", *user.GithubID)
	require.NotNil(t, user.CartID)
	assert.Equal(t, 1, carts.created)
}

func TestBackfillEmail(t *testing.T) {
	engine, _, carts := newEngine()

	federated, err := engine.FederatedLogin("gh-42", "", "octocat")
	require.NoError(t, err)

	user, err := engine.BackfillEmail(federated.UserID, " Octo@Example.COM ")
	require.NoError(t, err)
	require.NotNil(t, user.Email)
	assert.Equal(t, "octo@example.com", *user.Email)
	require.NotNil(t, user.CartID, "backfill provisions the missing cart")
	assert.Equal(t, 1, carts.created)
}

func TestBackfillEmailRejectsTakenEmail(t *testing.T) {
	engine, _, _ := newEngine()

	_, err := engine.Register(auth.RegisterForm{Email: "dana@example.com", Password: "pw"})
	require.NoError(t, err)
	federated, err := engine.FederatedLogin("gh-42", "", "octocat")
	require.NoError(t, err)

	_, err = engine.BackfillEmail(federated.UserID, "dana@example.com")
	assert.True(t, auth.IsKind(err, auth.KindEmailTaken), "got %v", err)
}

func TestTouchLastConnection(t *testing.T) {
	engine, store, _ := newEngine()

	user, err := engine.Register(auth.RegisterForm{Email: "dana@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Nil(t, store.users[user.UserID].LastConnection)

	require.NoError(t, engine.TouchLastConnection(user.UserID))
	stored, err := store.FindByID(user.UserID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastConnection)

	// The admin principal has no record to stamp.
	assert.NoError(t, engine.TouchLastConnection(auth.AdminID))
}
