package entries

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles diary entry database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents one diary day. Glucose readings are mmol/l; a nil reading was
// not taken.
type Entry struct {
	ID                     int64    `json:"id"`
	UserID                 int64    `json:"user_id"`
	Date                   string   `json:"entry_date"`
	GlucoseMorning         *float64 `json:"glucose_morning"`
	GlucoseEvening         *float64 `json:"glucose_evening"`
	GlucoseBeforeBreakfast *float64 `json:"glucose_before_breakfast"`
	GlucoseAfterBreakfast  *float64 `json:"glucose_after_breakfast"`
	GlucoseBeforeLunch     *float64 `json:"glucose_before_lunch"`
	GlucoseAfterLunch      *float64 `json:"glucose_after_lunch"`
	GlucoseBeforeSnack     *float64 `json:"glucose_before_snack"`
	GlucoseAfterSnack      *float64 `json:"glucose_after_snack"`
	GlucoseBeforeDinner    *float64 `json:"glucose_before_dinner"`
	GlucoseAfterDinner     *float64 `json:"glucose_after_dinner"`
	GlucoseBeforeSupper    *float64 `json:"glucose_before_supper"`
	GlucoseAfterSupper     *float64 `json:"glucose_after_supper"`
	Symptoms               string   `json:"symptoms"`
	Comment                string   `json:"comment"`
}

// contains data for creating or replacing a diary entry
type EntryInput struct {
	Date                   string
	GlucoseMorning         *float64
	GlucoseEvening         *float64
	GlucoseBeforeBreakfast *float64
	GlucoseAfterBreakfast  *float64
	GlucoseBeforeLunch     *float64
	GlucoseAfterLunch      *float64
	GlucoseBeforeSnack     *float64
	GlucoseAfterSnack      *float64
	GlucoseBeforeDinner    *float64
	GlucoseAfterDinner     *float64
	GlucoseBeforeSupper    *float64
	GlucoseAfterSupper     *float64
	Symptoms               string
	Comment                string
}

// the entry store surface consumed by the HTTP handlers
type Store interface {
	Create(ctx context.Context, userID int64, input EntryInput) (int64, error)
	Upsert(ctx context.Context, userID int64, input EntryInput) (int64, error)
	Delete(ctx context.Context, userID int64, date string) (int64, error)
	ListMonth(ctx context.Context, userID int64, year, month int) ([]Entry, error)
	Exists(ctx context.Context, userID int64, date string) (bool, error)
}
