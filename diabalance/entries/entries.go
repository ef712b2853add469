package entries

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultSymptoms = "Ei oireita"
	defaultComment  = "Ei kommentteja"
)

// creates a new entry repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func insertArgs(userID int64, input EntryInput) []any {
	symptoms := input.Symptoms
	if symptoms == "" {
		symptoms = defaultSymptoms
	}

	comment := input.Comment
	if comment == "" {
		comment = defaultComment
	}

	return []any{
		userID, input.Date,
		input.GlucoseMorning, input.GlucoseEvening,
		input.GlucoseBeforeBreakfast, input.GlucoseAfterBreakfast,
		input.GlucoseBeforeLunch, input.GlucoseAfterLunch,
		input.GlucoseBeforeSnack, input.GlucoseAfterSnack,
		input.GlucoseBeforeDinner, input.GlucoseAfterDinner,
		input.GlucoseBeforeSupper, input.GlucoseAfterSupper,
		symptoms, comment,
	}
}

// inserts a diary entry and returns the assigned id. Fails when an entry
// already exists for the date.
func (r *Repository) Create(ctx context.Context, userID int64, input EntryInput) (int64, error) {
	var id int64

	err := r.db.QueryRow(ctx, queryCreate, insertArgs(userID, input)...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create entry: %w", err)
	}

	return id, nil
}

// inserts or fully replaces the diary entry for the date
func (r *Repository) Upsert(ctx context.Context, userID int64, input EntryInput) (int64, error) {
	var id int64

	err := r.db.QueryRow(ctx, queryUpsert, insertArgs(userID, input)...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert entry: %w", err)
	}

	return id, nil
}

// removes the diary entry for the date and reports the number of rows removed
func (r *Repository) Delete(ctx context.Context, userID int64, date string) (int64, error) {
	tag, err := r.db.Exec(ctx, queryDelete, userID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entry: %w", err)
	}

	return tag.RowsAffected(), nil
}

// lists the user's entries for a calendar month ordered by date
func (r *Repository) ListMonth(ctx context.Context, userID int64, year, month int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, queryListMonth, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(
			&e.ID, &e.UserID, &e.Date,
			&e.GlucoseMorning, &e.GlucoseEvening,
			&e.GlucoseBeforeBreakfast, &e.GlucoseAfterBreakfast,
			&e.GlucoseBeforeLunch, &e.GlucoseAfterLunch,
			&e.GlucoseBeforeSnack, &e.GlucoseAfterSnack,
			&e.GlucoseBeforeDinner, &e.GlucoseAfterDinner,
			&e.GlucoseBeforeSupper, &e.GlucoseAfterSupper,
			&e.Symptoms, &e.Comment,
		)
		return e, err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan entries: %w", err)
	}

	return entries, nil
}

// reports whether the user already has an entry for the date
func (r *Repository) Exists(ctx context.Context, userID int64, date string) (bool, error) {
	var exists bool

	if err := r.db.QueryRow(ctx, queryExists, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("entry existence check failed: %w", err)
	}

	return exists, nil
}
