package stats

import (
	"database/sql"
	"sync"
)

// store handles all database operations for aggregate player statistics.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Outcome is a single completed match from one player's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// PlayerStats holds a player's aggregate performance metrics. CurrentStreak is
// signed: positive counts consecutive wins, negative consecutive losses.
type PlayerStats struct {
	PlayerID      int64   `json:"player_id"`
	TotalMatches  int     `json:"total_matches"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	CurrentStreak int     `json:"current_streak"`
	BestStreak    int     `json:"best_streak"`
	SkillLevel    string  `json:"skill_level"`
	SkillPoints   int     `json:"skill_points"`
}

// LeaderboardEntry is a stats row joined with the player's display name.
type LeaderboardEntry struct {
	PlayerStats
	PlayerName string `json:"player_name"`
}
