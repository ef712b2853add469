package config

import "time"

type Config struct {
	DatabaseURL        string
	JWTSecret          string
	JWTExpiresIn       time.Duration
	KubiosLoginURL     string
	KubiosAPIURL       string
	KubiosClientID     string
	KubiosRedirectURI  string
	KubiosUserAgent    string
	CORSAllowedOrigins []string
	Environment        string
}
