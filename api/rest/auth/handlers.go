package auth

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/diabalance/server/diabalance/users"
	"github.com/diabalance/server/internal/auth"
	"github.com/diabalance/server/internal/errors"
	"github.com/diabalance/server/internal/kubios"
	"github.com/diabalance/server/internal/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// LoginHandler godoc
// @Summary Local login
// @Description Authenticate with username and password. A Kubios login is
// attempted with the same password when the account has an email; its outcome
// is reported in the federation field and never fails the local login.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/auth/login [post]
func LoginHandler(store users.Store, tokens *users.TokenManager, provider KubiosAuthenticator, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			errors.BadRequest(c, "Käyttäjänimi ja salasana vaaditaan", err)
			return
		}

		user, err := store.FindByUsername(c.Request.Context(), req.Username)
		if err != nil {
			errors.InternalError(c, "Kirjautuminen epäonnistui", err)
			return
		}

		if user == nil {
			errors.Unauthorized(c, "Virheellinen käyttäjätunnus")
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			errors.Unauthorized(c, "Virheellinen salasana")
			return
		}

		token, err := auth.GenerateToken(user.ID, user.Role, tokenTTL)
		if err != nil {
			errors.InternalError(c, "Kirjautuminen epäonnistui", err)
			return
		}

		federation := attemptKubiosLogin(c, provider, tokens, user, req.Password)

		logger.Info("user logged in", "user_id", user.ID, "kubios", federation.Success)

		c.JSON(http.StatusOK, LoginResponse{
			Message:    "Kirjautuminen onnistui",
			Token:      token,
			User:       user,
			Federation: federation,
		})
	}
}

// tries to obtain a Kubios token with the freshly verified password. The
// attempt is best effort; the caller reports the outcome to the client.
func attemptKubiosLogin(c *gin.Context, provider KubiosAuthenticator, tokens *users.TokenManager, user *users.User, password string) *FederationStatus {
	if user.Email == nil || *user.Email == "" {
		return &FederationStatus{
			Success: false,
			Message: "Käyttäjällä ei ole sähköpostiosoitetta Kubios-kirjautumista varten",
		}
	}

	result, err := provider.Login(c.Request.Context(), *user.Email, password)

	if stderrors.Is(err, kubios.ErrInvalidCredentials) {
		return &FederationStatus{
			Success: false,
			Message: "Virheellinen käyttäjänimi tai salasana (Kubios)",
		}
	}

	if err != nil {
		logger.Warn("kubios login attempt failed", "user_id", user.ID, "error", err.Error())
		return &FederationStatus{Success: false, Message: "Kubios-kirjautuminen epäonnistui"}
	}

	if err := tokens.Update(c.Request.Context(), user.ID, result.IDToken, result.ExpiresIn); err != nil {
		logger.ErrorErr(err, "failed to persist kubios token", "user_id", user.ID)
		return &FederationStatus{Success: false, Message: "Kubios-kirjautuminen epäonnistui"}
	}

	return &FederationStatus{Success: true, Message: "Kubios-kirjautuminen onnistui"}
}

// FederatedLoginHandler godoc
// @Summary Kubios login
// @Description Authenticate directly against Kubios Cloud. A local shadow
// account is created on first login. The returned JWT carries the Kubios
// token as a claim.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} FederatedLoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/auth/federated-login [post]
func FederatedLoginHandler(federator FederatedAuthenticator, tokens *users.TokenManager, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			errors.BadRequest(c, "Käyttäjänimi ja salasana vaaditaan", err)
			return
		}

		identity, err := federator.FederatedLogin(c.Request.Context(), req.Username, req.Password)

		if stderrors.Is(err, kubios.ErrInvalidCredentials) {
			errors.Unauthorized(c, "Virheellinen käyttäjänimi tai salasana (Kubios)")
			return
		}

		if err != nil {
			errors.BadGateway(c, "Kirjautuminen Kubios API:in epäonnistui", err)
			return
		}

		if err := tokens.Update(c.Request.Context(), identity.UserID, identity.IDToken, identity.ExpiresIn); err != nil {
			logger.ErrorErr(err, "failed to persist kubios token", "user_id", identity.UserID)
		}

		token, err := auth.GenerateKubiosToken(identity.UserID, identity.Role, identity.IDToken, tokenTTL)
		if err != nil {
			errors.InternalError(c, "Kirjautuminen epäonnistui", err)
			return
		}

		logger.Info("federated login", "user_id", identity.UserID)

		c.JSON(http.StatusOK, FederatedLoginResponse{
			Message: "Kirjautuminen onnistui (Kubios)",
			Token:   token,
			User:    FederatedUser{ID: identity.UserID, Username: identity.Username},
		})
	}
}

// LogoutHandler godoc
// @Summary Logout
// @Description Clear the stored Kubios token. The JWT itself stays valid
// until it expires; the client discards it.
// @Tags auth
// @Produce json
// @Success 200 {object} LogoutResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/logout [post]
// @Security BearerAuth
func LogoutHandler(tokens *users.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.BadRequest(c, "Käyttäjän ID puuttuu", nil)
			return
		}

		removed, err := tokens.Remove(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "Uloskirjautuminen epäonnistui", err)
			return
		}

		c.JSON(http.StatusOK, LogoutResponse{
			Message:      "Uloskirjautuminen onnistui",
			TokenRemoved: removed,
		})
	}
}

// GetMeHandler godoc
// @Summary Get current user
// @Description Get the authenticated user's account
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [get]
// @Security BearerAuth
func GetMeHandler(store users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Autentikaatiotoken puuttuu")
			return
		}

		user, err := store.FindByID(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "Käyttäjän haku epäonnistui", err)
			return
		}

		if user == nil {
			errors.NotFound(c, "Käyttäjää ei löytynyt")
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}

// ValidateTokenHandler godoc
// @Summary Validate token
// @Description Confirm the token still maps to an existing account. The
// middleware rejects the request before this handler runs when the token is
// bad; a token for a since-deleted account gets 404.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/auth/validate [get]
// @Security BearerAuth
func ValidateTokenHandler(store users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "Virheellinen tai vanhentunut token")
			return
		}

		user, err := store.FindByID(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "Käyttäjän haku epäonnistui", err)
			return
		}

		if user == nil {
			errors.NotFound(c, "Käyttäjää ei löytynyt")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid": true,
			"user":  user,
		})
	}
}
