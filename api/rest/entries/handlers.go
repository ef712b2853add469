package entries

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
	"github.com/diabalance/server/internal/auth"
	"github.com/diabalance/server/internal/errors"
	"github.com/diabalance/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// glucose readings outside this band are physiologically alarming and get
// logged, but they are stored as given
const (
	glucoseLowAlert  = 3.0
	glucoseHighAlert = 20.0
)

func toInput(req EntryRequest) entries.EntryInput {
	return entries.EntryInput{
		Date:                   req.Date,
		GlucoseMorning:         req.GlucoseMorning,
		GlucoseEvening:         req.GlucoseEvening,
		GlucoseBeforeBreakfast: req.GlucoseBeforeBreakfast,
		GlucoseAfterBreakfast:  req.GlucoseAfterBreakfast,
		GlucoseBeforeLunch:     req.GlucoseBeforeLunch,
		GlucoseAfterLunch:      req.GlucoseAfterLunch,
		GlucoseBeforeSnack:     req.GlucoseBeforeSnack,
		GlucoseAfterSnack:      req.GlucoseAfterSnack,
		GlucoseBeforeDinner:    req.GlucoseBeforeDinner,
		GlucoseAfterDinner:     req.GlucoseAfterDinner,
		GlucoseBeforeSupper:    req.GlucoseBeforeSupper,
		GlucoseAfterSupper:     req.GlucoseAfterSupper,
		Symptoms:               req.Symptoms,
		Comment:                req.Comment,
	}
}

func warnExtremeReadings(userID int64, req EntryRequest) {
	readings := map[string]*float64{
		"glucose_morning":          req.GlucoseMorning,
		"glucose_evening":          req.GlucoseEvening,
		"glucose_before_breakfast": req.GlucoseBeforeBreakfast,
		"glucose_after_breakfast":  req.GlucoseAfterBreakfast,
		"glucose_before_lunch":     req.GlucoseBeforeLunch,
		"glucose_after_lunch":      req.GlucoseAfterLunch,
		"glucose_before_snack":     req.GlucoseBeforeSnack,
		"glucose_after_snack":      req.GlucoseAfterSnack,
		"glucose_before_dinner":    req.GlucoseBeforeDinner,
		"glucose_after_dinner":     req.GlucoseAfterDinner,
		"glucose_before_supper":    req.GlucoseBeforeSupper,
		"glucose_after_supper":     req.GlucoseAfterSupper,
	}

	for field, value := range readings {
		if value == nil {
			continue
		}
		if *value < glucoseLowAlert || *value > glucoseHighAlert {
			logger.Warn("extreme glucose reading",
				"user_id", userID,
				"field", field,
				"value", *value,
				"date", req.Date,
			)
		}
	}
}

func bindEntry(c *gin.Context) (EntryRequest, bool) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, "Virheelliset merkintätiedot", err)
		return req, false
	}

	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		errors.BadRequest(c, "Virheellinen päivämäärä, käytä muotoa VVVV-KK-PP", err)
		return req, false
	}

	return req, true
}

// CreateEntryHandler godoc
// @Summary Create diary entry
// @Description Create a diary entry for a date. Each user has at most one
// entry per date.
// @Tags entries
// @Accept json
// @Produce json
// @Success 201 {object} EntryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/v1/entries [post]
// @Security BearerAuth
func CreateEntryHandler(store entries.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
			return
		}

		req, ok := bindEntry(c)
		if !ok {
			return
		}

		exists, err := store.Exists(c.Request.Context(), userID, req.Date)
		if err != nil {
			errors.InternalError(c, "Merkinnän tallennus epäonnistui", err)
			return
		}

		if exists {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "conflict",
				"message": "Merkintä tälle päivälle on jo olemassa",
			})
			return
		}

		warnExtremeReadings(userID, req)

		id, err := store.Create(c.Request.Context(), userID, toInput(req))
		if err != nil {
			errors.InternalError(c, "Merkinnän tallennus epäonnistui", err)
			return
		}

		c.JSON(http.StatusCreated, EntryResponse{
			Message: "Merkintä luotu onnistuneesti",
			ID:      id,
		})
	}
}

// UpdateEntryHandler godoc
// @Summary Update diary entry
// @Description Create or fully replace the diary entry for a date
// @Tags entries
// @Accept json
// @Produce json
// @Success 200 {object} EntryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/entries [put]
// @Security BearerAuth
func UpdateEntryHandler(store entries.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
			return
		}

		req, ok := bindEntry(c)
		if !ok {
			return
		}

		warnExtremeReadings(userID, req)

		id, err := store.Upsert(c.Request.Context(), userID, toInput(req))
		if err != nil {
			errors.InternalError(c, "Merkinnän päivitys epäonnistui", err)
			return
		}

		c.JSON(http.StatusOK, EntryResponse{
			Message: "Merkintä päivitetty onnistuneesti",
			ID:      id,
		})
	}
}

// DeleteEntryHandler godoc
// @Summary Delete diary entry
// @Description Remove the diary entry for a date
// @Tags entries
// @Produce json
// @Success 200 {object} DeleteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/entries/{date} [delete]
// @Security BearerAuth
func DeleteEntryHandler(store entries.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
			return
		}

		date := c.Param("date")
		if _, err := time.Parse(dateLayout, date); err != nil {
			errors.BadRequest(c, "Virheellinen päivämäärä, käytä muotoa VVVV-KK-PP", err)
			return
		}

		affected, err := store.Delete(c.Request.Context(), userID, date)
		if err != nil {
			errors.InternalError(c, "Merkinnän poisto epäonnistui", err)
			return
		}

		if affected == 0 {
			errors.NotFound(c, "Merkintää ei löytynyt")
			return
		}

		c.JSON(http.StatusOK, DeleteResponse{
			Message:      "Merkintä poistettu onnistuneesti",
			AffectedRows: affected,
		})
	}
}

// ListMonthHandler godoc
// @Summary List month entries
// @Description List the authenticated user's diary entries for a calendar
// month with the stored HRV summary attached per day
// @Tags entries
// @Produce json
// @Success 200 {array} DayEntry
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/entries [get]
// @Security BearerAuth
func ListMonthHandler(entryStore entries.Store, hrvStore hrv.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
			return
		}

		year, errYear := strconv.Atoi(c.Query("year"))
		month, errMonth := strconv.Atoi(c.Query("month"))

		if errYear != nil || errMonth != nil || month < 1 || month > 12 {
			errors.BadRequest(c, "Vuosi (year) ja kuukausi (month) parametrit vaaditaan", nil)
			return
		}

		list, err := entryStore.ListMonth(c.Request.Context(), userID, year, month)
		if err != nil {
			errors.InternalError(c, "Merkintöjen haku epäonnistui", err)
			return
		}

		measurements, err := hrvStore.ListMonth(c.Request.Context(), userID, year, month)
		if err != nil {
			errors.InternalError(c, "Merkintöjen haku epäonnistui", err)
			return
		}

		byDate := make(map[string]*hrv.Measurement, len(measurements))
		for i := range measurements {
			byDate[measurements[i].Date] = &measurements[i]
		}

		days := make([]DayEntry, 0, len(list))
		for _, entry := range list {
			days = append(days, DayEntry{Entry: entry, HRV: byDate[entry.Date]})
		}

		c.JSON(http.StatusOK, days)
	}
}
