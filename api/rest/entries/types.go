package entries

import (
	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
)

// EntryRequest carries a full diary entry for one date
type EntryRequest struct {
	Date                   string   `json:"entry_date" binding:"required"`
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

// EntryResponse returned after a create or update
type EntryResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// DeleteResponse reports how many entries a delete removed
type DeleteResponse struct {
	Message      string `json:"message"`
	AffectedRows int64  `json:"affectedRows"`
}

// DayEntry is one diary day with its HRV summary attached when one exists
type DayEntry struct {
	entries.Entry
	HRV *hrv.Measurement `json:"hrv"`
}
