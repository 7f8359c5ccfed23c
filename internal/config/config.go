package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting read from the environment.
type Config struct {
	Port            string
	Env             string
	MongoURI        string
	DBName          string
	JWTSecret       string
	TokenExpiry     time.Duration
	StreamAPIKey    string
	StreamAPISecret string
	AllowedOrigins  []string
}

// LoadConfig reads configuration from a .env file (if present) and
// the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "lingualink"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenExpiry:     getDurationEnv("TOKEN_EXPIRY", 7*24*time.Hour),
		StreamAPIKey:    os.Getenv("STREAM_API_KEY"),
		StreamAPISecret: os.Getenv("STREAM_API_SECRET"),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.StreamAPIKey == "" || cfg.StreamAPISecret == "" {
		log.Fatal("STREAM_API_KEY and STREAM_API_SECRET must be set")
	}

	return cfg
}

// IsProduction reports whether the app runs with production cookie
// and error-reporting behavior.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using default", key, value)
		return fallback
	}
	return d
}
