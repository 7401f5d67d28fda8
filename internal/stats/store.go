package stats

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new Aggregator.
func New(db *sql.DB) Aggregator {
	return &store{
		db: db,
	}
}

// Apply folds one completed match into the player's aggregates, guarded by the
// stats_processed idempotency table so retried submissions never double-count.
func (s *store) Apply(matchID string, playerID int64, outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO stats_processed (match_id, player_id, processed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (match_id, player_id) DO NOTHING
	`, matchID, playerID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record idempotency key: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if inserted == 0 {
		log.Debug("Stats already applied, skipping", "matchID", matchID, "playerID", playerID)
		return nil
	}

	current, err := getStatsTx(tx, playerID)
	if err != nil {
		return err
	}

	next := advance(*current, outcome)

	_, err = tx.Exec(`
		INSERT INTO player_stats (player_id, total_matches, wins, losses, win_rate, current_streak, best_streak, skill_level, skill_points, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			total_matches = excluded.total_matches,
			wins = excluded.wins,
			losses = excluded.losses,
			win_rate = excluded.win_rate,
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			skill_level = excluded.skill_level,
			skill_points = excluded.skill_points,
			updated_at = excluded.updated_at
	`, playerID, next.TotalMatches, next.Wins, next.Losses, next.WinRate,
		next.CurrentStreak, next.BestStreak, next.SkillLevel, next.SkillPoints, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write player stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stats update: %w", err)
	}

	log.Info("Applied match to player stats", "matchID", matchID, "playerID", playerID, "outcome", outcome)
	return nil
}

// advance computes the aggregates after one more outcome. A draw counts toward
// total matches but neither wins nor losses, and resets the streak to zero.
func advance(s PlayerStats, outcome Outcome) PlayerStats {
	s.TotalMatches++
	switch outcome {
	case OutcomeWin:
		s.Wins++
		if s.CurrentStreak >= 0 {
			s.CurrentStreak++
		} else {
			s.CurrentStreak = 1
		}
		if s.CurrentStreak > s.BestStreak {
			s.BestStreak = s.CurrentStreak
		}
	case OutcomeLoss:
		s.Losses++
		if s.CurrentStreak <= 0 {
			s.CurrentStreak--
		} else {
			s.CurrentStreak = -1
		}
	case OutcomeDraw:
		s.CurrentStreak = 0
	}

	if s.TotalMatches > 0 {
		s.WinRate = float64(s.Wins) * 100 / float64(s.TotalMatches)
	}
	s.SkillLevel = skillLevel(s.WinRate, s.TotalMatches)
	s.SkillPoints = s.TotalMatches*10 + s.Wins*5
	return s
}

func skillLevel(winRate float64, matches int) string {
	if matches < 5 {
		return "Beginner"
	}
	if winRate >= 75 {
		return "Expert"
	}
	if winRate >= 55 {
		return "Advanced"
	}
	if winRate >= 40 {
		return "Intermediate"
	}
	return "Beginner"
}

// Get returns the player's aggregates, zero-valued if nothing is recorded yet.
func (s *store) Get(playerID int64) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()
	return getStatsTx(tx, playerID)
}

func getStatsTx(tx *sql.Tx, playerID int64) (*PlayerStats, error) {
	var st PlayerStats
	err := tx.QueryRow(`
		SELECT player_id, total_matches, wins, losses, win_rate, current_streak, best_streak, skill_level, skill_points
		FROM player_stats WHERE player_id = ?
	`, playerID).Scan(
		&st.PlayerID, &st.TotalMatches, &st.Wins, &st.Losses, &st.WinRate,
		&st.CurrentStreak, &st.BestStreak, &st.SkillLevel, &st.SkillPoints,
	)
	if err == sql.ErrNoRows {
		return &PlayerStats{PlayerID: playerID, SkillLevel: "Beginner"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read player stats: %w", err)
	}
	return &st, nil
}

// Leaderboard returns the top players by win rate, then total wins.
func (s *store) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT ps.player_id, ps.total_matches, ps.wins, ps.losses, ps.win_rate,
		       ps.current_streak, ps.best_streak, ps.skill_level, ps.skill_points, p.name
		FROM player_stats ps
		JOIN players p ON p.id = ps.player_id
		WHERE ps.total_matches > 0
		ORDER BY ps.win_rate DESC, ps.wins DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(
			&e.PlayerID, &e.TotalMatches, &e.Wins, &e.Losses, &e.WinRate,
			&e.CurrentStreak, &e.BestStreak, &e.SkillLevel, &e.SkillPoints, &e.PlayerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
