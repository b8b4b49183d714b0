// Package config builds per-service configuration from environment variables
// so each main stays lean. Defaults target local development; production
// overrides everything via env.
package config

import (
	"os"
	"strings"
	"time"
)

// Catalog captures course-registry service configuration.
type Catalog struct {
	Addr        string
	PostgresDSN string
}

// User captures identity service configuration.
type User struct {
	Addr        string
	PostgresDSN string
}

// Enrollment captures enrollment service configuration, including the base
// URLs of its two upstream collaborators.
type Enrollment struct {
	Addr           string
	PostgresDSN    string
	CatalogBaseURL string
	UserBaseURL    string
	ClientTimeout  time.Duration
	RedisURL       string
	IdentityTTL    time.Duration
	KafkaBrokers   []string
	KafkaTopic     string
}

// Gateway captures edge gateway configuration.
type Gateway struct {
	Addr           string
	JWTSigningKey  string
	TokenTTL       time.Duration
	CatalogURL     string
	UserURL        string
	EnrollmentURL  string
	AuthWhitelist  []string
	SeedCredential string
}

func CatalogFromEnv() Catalog {
	return Catalog{
		Addr:        getenv("CATALOG_ADDR", ":8081"),
		PostgresDSN: os.Getenv("CATALOG_POSTGRES_DSN"),
	}
}

func UserFromEnv() User {
	return User{
		Addr:        getenv("USER_ADDR", ":8082"),
		PostgresDSN: os.Getenv("USER_POSTGRES_DSN"),
	}
}

func EnrollmentFromEnv() Enrollment {
	cfg := Enrollment{
		Addr:           getenv("ENROLLMENT_ADDR", ":8083"),
		PostgresDSN:    os.Getenv("ENROLLMENT_POSTGRES_DSN"),
		CatalogBaseURL: getenv("CATALOG_BASE_URL", "http://localhost:8081"),
		UserBaseURL:    getenv("USER_BASE_URL", "http://localhost:8082"),
		ClientTimeout:  getduration("UPSTREAM_TIMEOUT", 5*time.Second),
		RedisURL:       os.Getenv("ENROLLMENT_REDIS_URL"),
		IdentityTTL:    getduration("IDENTITY_CACHE_TTL", 5*time.Minute),
		KafkaTopic:     getenv("ENROLLMENT_KAFKA_TOPIC", "enrollment.events"),
	}
	if brokers := os.Getenv("ENROLLMENT_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func GatewayFromEnv() Gateway {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}
	whitelist := []string{"/api/auth/"}
	if raw := os.Getenv("AUTH_WHITELIST"); raw != "" {
		whitelist = strings.Split(raw, ",")
	}
	return Gateway{
		Addr:           getenv("GATEWAY_ADDR", ":8080"),
		JWTSigningKey:  jwtSigningKey,
		TokenTTL:       getduration("JWT_TOKEN_TTL", time.Hour),
		CatalogURL:     getenv("CATALOG_BASE_URL", "http://localhost:8081"),
		UserURL:        getenv("USER_BASE_URL", "http://localhost:8082"),
		EnrollmentURL:  getenv("ENROLLMENT_BASE_URL", "http://localhost:8083"),
		AuthWhitelist:  whitelist,
		SeedCredential: os.Getenv("GATEWAY_SEED_PASSWORD"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
