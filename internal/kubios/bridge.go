package kubios

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/diabalance/server/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// local account as the bridge sees it
type Account struct {
	ID   int64
	Role int
}

// the slice of the credential store the bridge needs for reconciliation
type AccountStore interface {
	// returns nil when no account carries the email
	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	// creates a shadow account for a federated identity (username = email)
	CreateShadowAccount(ctx context.Context, email, passwordHash string) (*Account, error)
}

// the reconciled outcome of a federated login
type FederatedIdentity struct {
	UserID    int64
	Role      int
	Username  string // the remote email
	IDToken   string
	ExpiresIn int // seconds
}

type providerAuthenticator interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	UserInfo(ctx context.Context, idToken string) (*UserProfile, error)
}

// Bridge authenticates against Kubios and reconciles the remote identity
// with the local credential store.
type Bridge struct {
	client providerAuthenticator
	store  AccountStore
}

func NewBridge(client *Client, store AccountStore) *Bridge {
	return &Bridge{client: client, store: store}
}

// runs the provider handshake, fetches the remote profile and resolves it
// to a local user id, creating a shadow account when the email is unknown
func (b *Bridge) FederatedLogin(ctx context.Context, username, password string) (*FederatedIdentity, error) {
	login, err := b.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	profile, err := b.client.UserInfo(ctx, login.IDToken)
	if err != nil {
		return nil, fmt.Errorf("kubios profile fetch failed: %w", err)
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("%w: profile has no email", ErrUnexpectedResponse)
	}

	account, err := b.store.FindAccountByEmail(ctx, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	if account == nil {
		account, err = b.createShadowAccount(ctx, profile.Email)
		if err != nil {
			return nil, err
		}
	}

	return &FederatedIdentity{
		UserID:    account.ID,
		Role:      account.Role,
		Username:  profile.Email,
		IDToken:   login.IDToken,
		ExpiresIn: login.ExpiresIn,
	}, nil
}

func (b *Bridge) createShadowAccount(ctx context.Context, email string) (*Account, error) {
	placeholder, err := placeholderPasswordHash()
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}

	logger.Info("creating shadow account for federated identity", "email", email)

	account, err := b.store.CreateShadowAccount(ctx, email, placeholder)
	if err != nil {
		// a concurrent federated login for the same new email may have won
		// the insert; retry the lookup once before giving up
		if existing, lookupErr := b.store.FindAccountByEmail(ctx, email); lookupErr == nil && existing != nil {
			return existing, nil
		}

		return nil, fmt.Errorf("shadow account creation failed: %w", err)
	}

	return account, nil
}

// produces a bcrypt digest of random bytes that no plaintext will ever match
func placeholderPasswordHash() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
