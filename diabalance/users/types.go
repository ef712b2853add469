package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles user database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents a user account. The password hash and the Kubios token fields
// never leave the server.
type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            *string    `json:"email"`
	Password         string     `json:"-"`
	Role             int        `json:"role"`
	KubiosToken      *string    `json:"-"`
	KubiosExpiration *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

// contains data for creating a user account
type NewUser struct {
	Username     string
	Email        *string
	PasswordHash string
	Role         int
}

// structured partial update of profile fields; a nil field is left untouched
type ProfileUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// the credential store surface consumed by the HTTP handlers. Lookups
// return nil without error when no row matches.
type Store interface {
	Create(ctx context.Context, user NewUser) (int64, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateKubiosToken(ctx context.Context, id int64, token string, expiresAt time.Time) (int64, error)
	ClearKubiosToken(ctx context.Context, id int64) (int64, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (int64, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}
