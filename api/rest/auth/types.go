package auth

import (
	"context"

	"github.com/diabalance/server/diabalance/users"
	"github.com/diabalance/server/internal/kubios"
)

// LoginRequest carries local login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FederationStatus reports the outcome of the Kubios login attempt made
// alongside a local login
type FederationStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse returned after a successful local login
type LoginResponse struct {
	Message    string            `json:"message"`
	Token      string            `json:"token"`
	User       *users.User       `json:"user"`
	Federation *FederationStatus `json:"federation"`
}

// FederatedUser is the minimal account view returned by a federated login
type FederatedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// FederatedLoginResponse returned after a successful Kubios login
type FederatedLoginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    FederatedUser `json:"user"`
}

// LogoutResponse reports whether a stored Kubios token was cleared
type LogoutResponse struct {
	Message      string `json:"message"`
	TokenRemoved bool   `json:"tokenRemoved"`
}

// UserResponse wraps user data
type UserResponse struct {
	User *users.User `json:"user"`
}

// KubiosAuthenticator performs a credential login against Kubios Cloud
type KubiosAuthenticator interface {
	Login(ctx context.Context, username, password string) (*kubios.LoginResult, error)
}

// FederatedAuthenticator resolves Kubios credentials to a local account
type FederatedAuthenticator interface {
	FederatedLogin(ctx context.Context, username, password string) (*kubios.FederatedIdentity, error)
}
