package kubios

import (
	"net/http"
	"time"

	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
	"github.com/diabalance/server/internal/auth"
	"github.com/diabalance/server/internal/errors"
	"github.com/diabalance/server/internal/kubios"
	"github.com/diabalance/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	dateLayout = "2006-01-02"

	missingTokenMessage = "Kubios-tokenia ei löydy tai se on vanhentunut. Kirjaudu uudelleen."

	hrvEntryComment = "HRV-datamerkintä"
)

// resolves the Kubios token for the request, preferring the JWT claim set by
// a federated login and falling back to the stored token
func resolveToken(c *gin.Context, tokens TokenSource) (string, bool) {
	claims, ok := auth.GetClaims(c)
	if !ok {
		errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
		return "", false
	}

	if claims.KubiosToken != "" {
		return claims.KubiosToken, true
	}

	token, err := tokens.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		errors.InternalError(c, "Kubios-tokenin haku epäonnistui", err)
		return "", false
	}

	if token == "" {
		errors.Unauthorized(c, missingTokenMessage)
		return "", false
	}

	return token, true
}

// GetUserDataHandler godoc
// @Summary Get all HRV data
// @Description Proxy the full Kubios measurement list for the authenticated
// user
// @Tags kubios
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/kubios/user-data [get]
// @Security BearerAuth
func GetUserDataHandler(client DataFetcher, tokens TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := resolveToken(c, tokens)
		if !ok {
			return
		}

		raw, err := client.Results(c.Request.Context(), token)
		if err != nil {
			errors.BadGateway(c, "Kubios-datan haku epäonnistui", err)
			return
		}

		c.Data(http.StatusOK, "application/json", raw)
	}
}

// GetUserInfoHandler godoc
// @Summary Get Kubios profile
// @Description Fetch the authenticated user's profile from Kubios Cloud
// @Tags kubios
// @Produce json
// @Success 200 {object} UserInfoResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/kubios/user-info [get]
// @Security BearerAuth
func GetUserInfoHandler(client DataFetcher, tokens TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := resolveToken(c, tokens)
		if !ok {
			return
		}

		profile, err := client.UserInfo(c.Request.Context(), token)
		if err != nil {
			errors.BadGateway(c, "Kubios-profiilin haku epäonnistui", err)
			return
		}

		c.JSON(http.StatusOK, UserInfoResponse{User: profile})
	}
}

// GetUserDataByDateHandler godoc
// @Summary Get HRV data for a date
// @Description Fetch the Kubios measurements for one date. Matching daily
// summaries are stored locally unless noSave=true.
// @Tags kubios
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param noSave query bool false "Skip storing the summary"
// @Success 200 {object} DayDataResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/kubios/user-data/{date} [get]
// @Security BearerAuth
func GetUserDataByDateHandler(client DataFetcher, tokens TokenSource, entryStore entries.Store, hrvStore hrv.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Param("date")
		if _, err := time.Parse(dateLayout, date); err != nil {
			errors.BadRequest(c, "Virheellinen päivämäärä, käytä muotoa VVVV-KK-PP", err)
			return
		}

		token, ok := resolveToken(c, tokens)
		if !ok {
			return
		}

		userID, _ := auth.GetUserID(c)

		raw, err := client.Results(c.Request.Context(), token)
		if err != nil {
			errors.BadGateway(c, "Kubios-datan haku epäonnistui", err)
			return
		}

		results, err := kubios.ParseResults(raw)
		if err != nil {
			errors.BadGateway(c, "Kubios-datan käsittely epäonnistui", err)
			return
		}

		summaries := kubios.FilterByDate(results, date)

		saved := false
		if len(summaries) > 0 && c.Query("noSave") != "true" {
			saved = storeSummary(c, entryStore, hrvStore, userID, date, summaries[len(summaries)-1])
		}

		c.JSON(http.StatusOK, DayDataResponse{
			Date:    date,
			Results: summaries,
			Saved:   saved,
		})
	}
}

// writes the fetched summary into the local diary. A base entry is created
// for the date when one does not exist yet. Storage failures are logged and
// never fail the fetch.
func storeSummary(c *gin.Context, entryStore entries.Store, hrvStore hrv.Store, userID int64, date string, summary kubios.DailySummary) bool {
	ctx := c.Request.Context()

	exists, err := entryStore.Exists(ctx, userID, date)
	if err != nil {
		logger.ErrorErr(err, "failed to check diary entry for hrv save", "user_id", userID, "date", date)
		return false
	}

	if !exists {
		_, err := entryStore.Create(ctx, userID, entries.EntryInput{
			Date:    date,
			Comment: hrvEntryComment,
		})
		if err != nil {
			logger.ErrorErr(err, "failed to create diary entry for hrv save", "user_id", userID, "date", date)
			return false
		}
	}

	_, err = hrvStore.Upsert(ctx, userID, hrv.MeasurementInput{
		Date:             date,
		StressIndex:      summary.StressIndex,
		Readiness:        summary.Readiness,
		PhysiologicalAge: summary.PhysiologicalAge,
		MeanHRBPM:        summary.MeanHRBPM,
		SDNNMs:           summary.SDNNMS,
	})

	if err != nil {
		logger.ErrorErr(err, "failed to store hrv summary", "user_id", userID, "date", date)
		return false
	}

	return true
}

// GetKubiosMeHandler godoc
// @Summary Get Kubios session state
// @Description Report the authenticated user's claims and whether a usable
// Kubios token exists
// @Tags kubios
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/kubios/me [get]
// @Security BearerAuth
func GetKubiosMeHandler(tokens TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.GetClaims(c)
		if !ok {
			errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
			return
		}

		token := claims.KubiosToken
		if token == "" {
			stored, err := tokens.Get(c.Request.Context(), claims.UserID)
			if err != nil {
				errors.InternalError(c, "Kubios-tokenin haku epäonnistui", err)
				return
			}
			token = stored
		}

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"user_id": claims.UserID,
				"role":    claims.Role,
			},
			"kubios_token": token != "",
		})
	}
}
