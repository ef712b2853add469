package kubios

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeProvider struct {
	loginErr    error
	userInfoErr error
	profile     UserProfile
}

func (f *fakeProvider) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &LoginResult{IDToken: "id-token-abc", ExpiresIn: 3600}, nil
}

func (f *fakeProvider) UserInfo(ctx context.Context, idToken string) (*UserProfile, error) {
	if f.userInfoErr != nil {
		return nil, f.userInfoErr
	}
	profile := f.profile
	return &profile, nil
}

type fakeAccountStore struct {
	accounts    map[string]*Account
	nextID      int64
	createErr   error
	createCalls int
	lastHash    string
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]*Account), nextID: 1}
}

func (f *fakeAccountStore) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	account, ok := f.accounts[email]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountStore) CreateShadowAccount(ctx context.Context, email, passwordHash string) (*Account, error) {
	f.createCalls++
	f.lastHash = passwordHash

	if f.createErr != nil {
		return nil, f.createErr
	}

	account := &Account{ID: f.nextID, Role: 0}
	f.nextID++
	f.accounts[email] = account

	copied := *account
	return &copied, nil
}

func TestFederatedLogin_ExistingAccount(t *testing.T) {
	store := newFakeAccountStore()
	store.accounts["alice@x.com"] = &Account{ID: 17, Role: 1}

	bridge := &Bridge{
		client: &fakeProvider{profile: UserProfile{Email: "alice@x.com"}},
		store:  store,
	}

	identity, err := bridge.FederatedLogin(context.Background(), "alice@x.com", "Secret123")

	require.NoError(t, err)
	assert.Equal(t, int64(17), identity.UserID)
	assert.Equal(t, 1, identity.Role)
	assert.Equal(t, "alice@x.com", identity.Username)
	assert.Equal(t, "id-token-abc", identity.IDToken)
	assert.Equal(t, 3600, identity.ExpiresIn)
	assert.Zero(t, store.createCalls, "no shadow account is created for a known email")
}

func TestFederatedLogin_CreatesShadowAccountOnce(t *testing.T) {
	store := newFakeAccountStore()

	bridge := &Bridge{
		client: &fakeProvider{profile: UserProfile{Email: "new@x.com"}},
		store:  store,
	}

	first, err := bridge.FederatedLogin(context.Background(), "new@x.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, 1, store.createCalls)

	second, err := bridge.FederatedLogin(context.Background(), "new@x.com", "Secret123")
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID, "subsequent logins reuse the shadow account")
	assert.Equal(t, 1, store.createCalls, "exactly one row is ever inserted")
}

func TestFederatedLogin_ShadowPasswordIsUnusable(t *testing.T) {
	store := newFakeAccountStore()

	bridge := &Bridge{
		client: &fakeProvider{profile: UserProfile{Email: "new@x.com"}},
		store:  store,
	}

	_, err := bridge.FederatedLogin(context.Background(), "new@x.com", "Secret123")
	require.NoError(t, err)

	// the placeholder must not verify against the password the user typed
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(store.lastHash), []byte("Secret123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(store.lastHash), []byte("")))
}

func TestFederatedLogin_InsertRaceFallsBackToLookup(t *testing.T) {
	store := newFakeAccountStore()
	store.createErr = errors.New("duplicate key value violates unique constraint")

	bridge := &Bridge{
		client: &fakeProvider{profile: UserProfile{Email: "raced@x.com"}},
		store:  store,
	}

	// simulate the concurrent winner appearing between lookup and insert
	fail := &failThenFindStore{inner: store, winner: &Account{ID: 99, Role: 0}}
	bridge.store = fail

	identity, err := bridge.FederatedLogin(context.Background(), "raced@x.com", "Secret123")

	require.NoError(t, err)
	assert.Equal(t, int64(99), identity.UserID)
}

// store whose insert always conflicts; the email becomes visible on the
// lookup that follows the failed insert
type failThenFindStore struct {
	inner   *fakeAccountStore
	winner  *Account
	created bool
}

func (f *failThenFindStore) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	if f.created {
		copied := *f.winner
		return &copied, nil
	}
	return nil, nil
}

func (f *failThenFindStore) CreateShadowAccount(ctx context.Context, email, passwordHash string) (*Account, error) {
	f.created = true
	return nil, errors.New("duplicate key value violates unique constraint")
}

func TestFederatedLogin_LoginFailurePropagates(t *testing.T) {
	bridge := &Bridge{
		client: &fakeProvider{loginErr: ErrInvalidCredentials},
		store:  newFakeAccountStore(),
	}

	_, err := bridge.FederatedLogin(context.Background(), "alice@x.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFederatedLogin_ProfileFetchFailurePropagates(t *testing.T) {
	store := newFakeAccountStore()

	bridge := &Bridge{
		client: &fakeProvider{userInfoErr: ErrUnexpectedResponse},
		store:  store,
	}

	_, err := bridge.FederatedLogin(context.Background(), "alice@x.com", "Secret123")

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Zero(t, store.createCalls, "no account is created when the profile fetch fails")
}

func TestFederatedLogin_EmptyProfileEmail(t *testing.T) {
	bridge := &Bridge{
		client: &fakeProvider{profile: UserProfile{}},
		store:  newFakeAccountStore(),
	}

	_, err := bridge.FederatedLogin(context.Background(), "alice@x.com", "Secret123")

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}
