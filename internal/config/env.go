package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTExpiresIn = 24 * time.Hour
	defaultUserAgent    = "Diabalance/1.0"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have a .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	jwtSecret := os.Getenv("JWT_SECRET")
	kubiosLoginURL := os.Getenv("KUBIOS_LOGIN_URL")
	kubiosAPIURL := os.Getenv("KUBIOS_API_URI")
	kubiosClientID := os.Getenv("KUBIOS_CLIENT_ID")
	kubiosRedirectURI := os.Getenv("KUBIOS_REDIRECT_URI")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if kubiosLoginURL == "" {
		return nil, fmt.Errorf("KUBIOS_LOGIN_URL environment variable is required")
	}

	if kubiosAPIURL == "" {
		return nil, fmt.Errorf("KUBIOS_API_URI environment variable is required")
	}

	if kubiosClientID == "" {
		return nil, fmt.Errorf("KUBIOS_CLIENT_ID environment variable is required")
	}

	if kubiosRedirectURI == "" {
		return nil, fmt.Errorf("KUBIOS_REDIRECT_URI environment variable is required")
	}

	jwtExpiresIn := defaultJWTExpiresIn
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRES_IN duration %q: %w", raw, err)
		}
		jwtExpiresIn = parsed
	}

	userAgent := os.Getenv("KUBIOS_USER_AGENT")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	var origins []string
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			origins = append(origins, strings.TrimSpace(origin))
		}
	}

	return &Config{
		DatabaseURL:        databaseURL,
		JWTSecret:          jwtSecret,
		JWTExpiresIn:       jwtExpiresIn,
		KubiosLoginURL:     kubiosLoginURL,
		KubiosAPIURL:       kubiosAPIURL,
		KubiosClientID:     kubiosClientID,
		KubiosRedirectURI:  kubiosRedirectURI,
		KubiosUserAgent:    userAgent,
		CORSAllowedOrigins: origins,
		Environment:        environment,
	}, nil
}
