package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Policy values fall back to sensible defaults when unset.
	getEnvInt := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be an integer, got %q.", key, value)
		}
		return n
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		JWTSecret:     getEnv("JWT_SECRET"),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN"),
			ChannelID: getEnv("SLACK_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		ProjectID: getEnv("GCP_PROJECT"),
		Queue: QueueConfig{
			CallSize:         getEnvInt("QUEUE_CALL_SIZE", 4),
			AvgMatchDuration: time.Duration(getEnvInt("QUEUE_AVG_MATCH_MINUTES", 15)) * time.Minute,
			CalledTTL:        time.Duration(getEnvInt("QUEUE_CALLED_TTL_MINUTES", 10)) * time.Minute,
		},
	}
	return cfg
}
