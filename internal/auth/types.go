package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// represents the session claims carried by a signed token
type Claims struct {
	UserID      int64  `json:"user_id"`
	Role        int    `json:"role"`
	KubiosToken string `json:"kubios_token,omitempty"`
	jwt.RegisteredClaims
}
