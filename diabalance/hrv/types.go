package hrv

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles HRV measurement database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents the stored daily HRV summary for a user
type Measurement struct {
	ID               int64    `json:"id"`
	UserID           int64    `json:"user_id"`
	Date             string   `json:"measure_date"`
	StressIndex      *float64 `json:"stress_index"`
	Readiness        *float64 `json:"readiness"`
	PhysiologicalAge *float64 `json:"physiological_age"`
	MeanHRBPM        *float64 `json:"mean_hr_bpm"`
	SDNNMs           *float64 `json:"sdnn_ms"`
}

// contains the values stored for one measurement day
type MeasurementInput struct {
	Date             string
	StressIndex      *float64
	Readiness        *float64
	PhysiologicalAge *float64
	MeanHRBPM        *float64
	SDNNMs           *float64
}

// the HRV store surface consumed by the HTTP handlers
type Store interface {
	Upsert(ctx context.Context, userID int64, input MeasurementInput) (int64, error)
	FindByDate(ctx context.Context, userID int64, date string) (*Measurement, error)
	ListMonth(ctx context.Context, userID int64, year, month int) ([]Measurement, error)
}
