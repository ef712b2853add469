package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diabalance/server/internal/kubios"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts a user and returns the assigned id
func (r *Repository) Create(ctx context.Context, user NewUser) (int64, error) {
	var id int64

	err := r.db.QueryRow(
		ctx,
		queryCreate,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	return id, nil
}

// finds a user by username; returns nil when no row matches
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, queryFindByUsername, username)
}

// finds a user by id; returns nil when no row matches
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, queryFindByID, id)
}

// finds a user by email; returns nil when no row matches
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, queryFindByEmail, email)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.KubiosToken,
		&user.KubiosExpiration,
		&user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	return &user, nil
}

// stores the Kubios token and its expiration for a user
func (r *Repository) UpdateKubiosToken(ctx context.Context, id int64, token string, expiresAt time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, queryUpdateKubiosToken, token, expiresAt, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update kubios token: %w", err)
	}

	return tag.RowsAffected(), nil
}

// clears the Kubios token fields for a user. Clearing an already-absent
// token still counts the matched row.
func (r *Repository) ClearKubiosToken(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, queryClearKubiosToken, id)
	if err != nil {
		return 0, fmt.Errorf("failed to clear kubios token: %w", err)
	}

	return tag.RowsAffected(), nil
}

// applies a structured partial update to the user's profile fields
func (r *Repository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		queryUpdateProfile,
		update.Username,
		update.Email,
		update.PasswordHash,
		id,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to update profile: %w", err)
	}

	return tag.RowsAffected(), nil
}

// reports whether another user already holds the username
func (r *Repository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var taken bool

	if err := r.db.QueryRow(ctx, queryUsernameTaken, username, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("username check failed: %w", err)
	}

	return taken, nil
}

// reports whether another user already holds the email
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool

	if err := r.db.QueryRow(ctx, queryEmailTaken, email, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("email check failed: %w", err)
	}

	return taken, nil
}

// kubios.AccountStore implementation for the identity bridge

func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (*kubios.Account, error) {
	var account kubios.Account

	err := r.db.QueryRow(ctx, queryFindAccountByEmail, email).Scan(&account.ID, &account.Role)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	return &account, nil
}

func (r *Repository) CreateShadowAccount(ctx context.Context, email, passwordHash string) (*kubios.Account, error) {
	var account kubios.Account

	err := r.db.QueryRow(ctx, queryCreateShadowAccount, email, email, passwordHash).Scan(&account.ID, &account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow account: %w", err)
	}

	return &account, nil
}
