package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	JWTSecret     string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Queue         QueueConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// QueueConfig holds the tunable policy values for the waiting queue.
type QueueConfig struct {
	// CallSize is the default number of players pulled by a call-up (4 for doubles).
	CallSize int
	// AvgMatchDuration is the per-position multiplier for the wait estimate.
	AvgMatchDuration time.Duration
	// CalledTTL is how long a called entry may sit unconsumed before the
	// sweeper expires it.
	CalledTTL time.Duration
}
