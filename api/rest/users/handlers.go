package users

import (
	"net/http"

	"github.com/diabalance/server/diabalance/users"
	"github.com/diabalance/server/internal/auth"
	"github.com/diabalance/server/internal/errors"
	"github.com/diabalance/server/internal/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// RegisterHandler godoc
// @Summary Register
// @Description Create a user account with a username, a password and an
// optional email
// @Tags users
// @Accept json
// @Produce json
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/users [post]
func RegisterHandler(store users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "Virheelliset rekisteröintitiedot", err)
			return
		}

		taken, err := store.UsernameTaken(c.Request.Context(), req.Username, 0)
		if err != nil {
			errors.InternalError(c, "Rekisteröinti epäonnistui", err)
			return
		}

		if taken {
			errors.ValidationError(c, "Rekisteröinti epäonnistui", []errors.FieldError{
				{Field: "username", Message: "Käyttäjänimi on jo käytössä"},
			})
			return
		}

		if req.Email != "" {
			taken, err := store.EmailTaken(c.Request.Context(), req.Email, 0)
			if err != nil {
				errors.InternalError(c, "Rekisteröinti epäonnistui", err)
				return
			}

			if taken {
				errors.ValidationError(c, "Rekisteröinti epäonnistui", []errors.FieldError{
					{Field: "email", Message: "Sähköposti on jo käytössä"},
				})
				return
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			errors.InternalError(c, "Rekisteröinti epäonnistui", err)
			return
		}

		newUser := users.NewUser{
			Username:     req.Username,
			PasswordHash: string(hash),
		}
		if req.Email != "" {
			newUser.Email = &req.Email
		}

		id, err := store.Create(c.Request.Context(), newUser)
		if err != nil {
			errors.InternalError(c, "Rekisteröinti epäonnistui", err)
			return
		}

		logger.Info("user registered", "user_id", id)

		c.JSON(http.StatusCreated, RegisterResponse{
			Message: "Käyttäjä luotu onnistuneesti",
			ID:      id,
		})
	}
}

// UpdateMeHandler godoc
// @Summary Update profile
// @Description Update any subset of username, password and email for the
// authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} UpdateMeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/users/me [put]
// @Security BearerAuth
func UpdateMeHandler(store users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
			return
		}

		var req UpdateMeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "Virheelliset päivitystiedot", err)
			return
		}

		if req.Username == nil && req.Password == nil && req.Email == nil {
			errors.BadRequest(c, "Ei päivitettäviä kenttiä", nil)
			return
		}

		if req.Username != nil {
			taken, err := store.UsernameTaken(c.Request.Context(), *req.Username, userID)
			if err != nil {
				errors.InternalError(c, "Tietojen päivitys epäonnistui", err)
				return
			}

			if taken {
				errors.ValidationError(c, "Tietojen päivitys epäonnistui", []errors.FieldError{
					{Field: "username", Message: "Käyttäjänimi on jo käytössä"},
				})
				return
			}
		}

		if req.Email != nil && *req.Email != "" {
			taken, err := store.EmailTaken(c.Request.Context(), *req.Email, userID)
			if err != nil {
				errors.InternalError(c, "Tietojen päivitys epäonnistui", err)
				return
			}

			if taken {
				errors.ValidationError(c, "Tietojen päivitys epäonnistui", []errors.FieldError{
					{Field: "email", Message: "Sähköposti on jo käytössä"},
				})
				return
			}
		}

		update := users.ProfileUpdate{
			Username: req.Username,
			Email:    req.Email,
		}

		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				errors.InternalError(c, "Tietojen päivitys epäonnistui", err)
				return
			}
			hashed := string(hash)
			update.PasswordHash = &hashed
		}

		affected, err := store.UpdateProfile(c.Request.Context(), userID, update)
		if err != nil {
			errors.InternalError(c, "Tietojen päivitys epäonnistui", err)
			return
		}

		c.JSON(http.StatusOK, UpdateMeResponse{
			Message:      "Tiedot päivitetty onnistuneesti",
			AffectedRows: affected,
		})
	}
}
