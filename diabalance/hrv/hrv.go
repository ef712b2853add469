package hrv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new HRV repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts or replaces the measurement for the date and returns its id
func (r *Repository) Upsert(ctx context.Context, userID int64, input MeasurementInput) (int64, error) {
	var id int64

	err := r.db.QueryRow(
		ctx,
		queryUpsert,
		userID,
		input.Date,
		input.StressIndex,
		input.Readiness,
		input.PhysiologicalAge,
		input.MeanHRBPM,
		input.SDNNMs,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to upsert hrv measurement: %w", err)
	}

	return id, nil
}

// finds the measurement for a date; returns nil when no row matches
func (r *Repository) FindByDate(ctx context.Context, userID int64, date string) (*Measurement, error) {
	var m Measurement

	err := r.db.QueryRow(ctx, queryFindByDate, userID, date).Scan(
		&m.ID, &m.UserID, &m.Date,
		&m.StressIndex, &m.Readiness, &m.PhysiologicalAge, &m.MeanHRBPM, &m.SDNNMs,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("hrv lookup failed: %w", err)
	}

	return &m, nil
}

// lists the user's measurements for a calendar month ordered by date
func (r *Repository) ListMonth(ctx context.Context, userID int64, year, month int) ([]Measurement, error) {
	rows, err := r.db.Query(ctx, queryListMonth, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list hrv measurements: %w", err)
	}
	defer rows.Close()

	measurements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Measurement, error) {
		var m Measurement
		err := row.Scan(
			&m.ID, &m.UserID, &m.Date,
			&m.StressIndex, &m.Readiness, &m.PhysiologicalAge, &m.MeanHRBPM, &m.SDNNMs,
		)
		return m, err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan hrv measurements: %w", err)
	}

	return measurements, nil
}
