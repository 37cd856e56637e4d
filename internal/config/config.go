package config // config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; required variables abort startup when missing.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	RateLimit RateLimitConfig // Redis rate limiter settings
	Cache     CacheConfig     // Redis response cache settings
}

// RateLimitConfig controls the fixed-window request limiter applied to
// mutating endpoints. Disabled (or a missing Redis connection) means
// requests pass through unthrottled.
type RateLimitConfig struct {
	Enabled bool          // RATE_LIMIT_ENABLED
	Limit   int           // RATE_LIMIT_MAX requests per window
	Window  time.Duration // RATE_LIMIT_WINDOW
	Prefix  string        // key namespace in Redis
}

// CacheConfig controls the response cache for hot public GET endpoints.
type CacheConfig struct {
	Enabled bool          // CACHE_ENABLED
	TTL     time.Duration // CACHE_TTL
	Prefix  string        // key namespace in Redis
}

// Load reads configuration from the environment. Required variables are
// enforced by must(); missing values exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),
		RateLimit: RateLimitConfig{
			Enabled: envBool("RATE_LIMIT_ENABLED", true),
			Limit:   envInt("RATE_LIMIT_MAX", 30),
			Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
			Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
		},
		Cache: CacheConfig{
			Enabled: envBool("CACHE_ENABLED", true),
			TTL:     envDur("CACHE_TTL", 30*time.Second),
			Prefix:  envStr("CACHE_PREFIX", "cache"),
		},
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
