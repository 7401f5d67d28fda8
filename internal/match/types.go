package match

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/smashqueue/internal/queue"
	"github.com/mauv0809/smashqueue/internal/stats"
)

// controller owns the match lifecycle. All match writes are serialized through
// the mutex; contention is low enough that one section for all matches is fine.
type controller struct {
	db    *sql.DB
	queue queue.QueueStore
	stats stats.Aggregator
	mu    sync.Mutex
}

var (
	ErrInvalidTeams          = errors.New("invalid team composition")
	ErrInvalidScores         = errors.New("expected 1-3 game scores")
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchAlreadyCompleted = errors.New("match already completed")
)

// Result represents the outcome of a match.
type Result string

const (
	ResultPending Result = "pending"
	ResultTeam1   Result = "team1"
	ResultTeam2   Result = "team2"
	ResultDraw    Result = "draw"
)

// GameScore is the point totals of a single game within a match.
type GameScore struct {
	Game       int `json:"game"`
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

// Match is one court booking between two teams of one or two players. Result
// and EndedAt are set exactly once, at completion, and are immutable after.
type Match struct {
	ID        string      `json:"id"`
	Court     string      `json:"court"`
	Team1     []int64     `json:"team1"`
	Team2     []int64     `json:"team2"`
	Scores    []GameScore `json:"scores"`
	Result    Result      `json:"result"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Active reports whether the match is still being played.
func (m *Match) Active() bool {
	return m.Result == ResultPending
}

// Players returns the distinct player ids across both teams.
func (m *Match) Players() []int64 {
	seen := make(map[int64]bool, len(m.Team1)+len(m.Team2))
	var ids []int64
	for _, id := range append(append([]int64{}, m.Team1...), m.Team2...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// HistoryItem is a completed match from one player's perspective.
type HistoryItem struct {
	Match Match `json:"match"`
	Won   bool  `json:"won"`
}
