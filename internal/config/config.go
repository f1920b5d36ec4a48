package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the two shared secrets. Running with either of them in effect
// is a deployment risk; main logs a warning when that happens.
const (
	DefaultJWTSecret = "default-secret"
	DefaultAPIKey    = "default-secret-key-2024"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	// JWTSecret signs identity tokens; APIKey is the coarse shared-secret gate.
	JWTSecret string
	APIKey    string

	// Open Food Facts endpoints, overridable for tests.
	OFFProductBaseURL string
	OFFSearchURL      string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		MySQLDSN:          getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/calorista?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		APIKey:            getEnv("API_KEY", DefaultAPIKey),
		OFFProductBaseURL: getEnv("OFF_PRODUCT_BASE_URL", "https://world.openfoodfacts.org/api/v2"),
		OFFSearchURL:      getEnv("OFF_SEARCH_URL", "https://world.openfoodfacts.org/cgi/search.pl"),
		SwaggerHost:       os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
