package queue

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// store handles all database operations for the shared waiting queue. All
// mutations go through the mutex so positions are never double-counted and an
// entry is never called twice.
type store struct {
	db       *sql.DB
	mu       sync.Mutex
	estimate WaitEstimator
}

var (
	ErrAlreadyQueued       = errors.New("player is already in the queue")
	ErrNotQueued           = errors.New("player is not in the queue")
	ErrInsufficientPlayers = errors.New("not enough players waiting")
)

// Status represents the state of a queue entry.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusCalled  Status = "called"
	StatusLeft    Status = "left"
	StatusExpired Status = "expired"
)

// Entry is a player's position marker in the shared waiting line. Position is
// recomputed from join order on every read, never stored.
type Entry struct {
	ID       int64      `json:"id"`
	PlayerID int64      `json:"player_id"`
	Status   Status     `json:"status"`
	JoinedAt time.Time  `json:"joined_at"`
	CalledAt *time.Time `json:"called_at,omitempty"`
	Position int        `json:"position,omitempty"`
}

// Info is the queue status summary returned to clients.
type Info struct {
	TotalInQueue  int     `json:"total_in_queue"`
	YourPosition  *int    `json:"your_position,omitempty"`
	EstimatedWait *string `json:"estimated_wait,omitempty"`
}

// WaitEstimator turns a 1-based queue position into a coarse human-readable
// wait estimate. It is a policy hook so the heuristic can be refined without
// touching queue invariants.
type WaitEstimator func(position int) string

// DefaultEstimator assumes one match ahead per position: position-1 times the
// average match duration.
func DefaultEstimator(avgMatchDuration time.Duration) WaitEstimator {
	return func(position int) string {
		wait := time.Duration(position-1) * avgMatchDuration
		if wait <= 0 {
			return "Next up!"
		}
		return fmt.Sprintf("~%d min", int(wait.Minutes()))
	}
}
