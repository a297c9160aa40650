package devserver

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the devserver settings, loaded from the environment with an
// optional .env file on top.
type Config struct {
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration
}

// LoadConfig reads LOANWISE_ADDR, LOANWISE_JWT_SECRET and
// LOANWISE_TOKEN_TTL, falling back to development defaults. A missing .env
// file is not an error.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:      getEnv("LOANWISE_ADDR", ":8080"),
		JWTSecret: getEnv("LOANWISE_JWT_SECRET", "dev-secret-do-not-use-in-production"),
		TokenTTL:  24 * time.Hour,
	}

	if v := os.Getenv("LOANWISE_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
