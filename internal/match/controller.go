package match

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/smashqueue/internal/queue"
	"github.com/mauv0809/smashqueue/internal/stats"
)

// New creates a new match Controller.
func New(db *sql.DB, queueStore queue.QueueStore, aggregator stats.Aggregator) Controller {
	return &controller{
		db:    db,
		queue: queueStore,
		stats: aggregator,
	}
}

// Create starts a match between two teams and consumes the players' queue
// entries.
func (c *controller) Create(court string, team1, team2 []int64) (*Match, error) {
	if len(team1) == 0 || len(team1) > 2 || len(team2) == 0 || len(team2) > 2 {
		return nil, ErrInvalidTeams
	}
	if overlaps(team1, team2) || hasDuplicate(team1) || hasDuplicate(team2) {
		return nil, ErrInvalidTeams
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	active, err := c.listActiveLocked()
	if err != nil {
		return nil, err
	}
	busy := make(map[int64]bool)
	for _, m := range active {
		for _, id := range m.Players() {
			busy[id] = true
		}
	}
	for _, id := range append(append([]int64{}, team1...), team2...) {
		if busy[id] {
			return nil, ErrInvalidTeams
		}
	}

	now := time.Now()
	m := &Match{
		ID:        uuid.New().String(),
		Court:     court,
		Team1:     team1,
		Team2:     team2,
		Scores:    []GameScore{},
		Result:    ResultPending,
		StartedAt: now,
		CreatedAt: now,
	}

	team1JSON, err := json.Marshal(team1)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal team1: %w", err)
	}
	team2JSON, err := json.Marshal(team2)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal team2: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT INTO matches (id, court, team1_json, team2_json, result, started_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, court, team1JSON, team2JSON, ResultPending, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	if err := c.queue.MarkConsumed(m.Players()); err != nil {
		log.Error("Failed to consume queue entries for match", "error", err, "matchID", m.ID)
	}

	log.Info("Created match", "matchID", m.ID, "court", court, "team1", team1, "team2", team2)
	return m, nil
}

// RecordResult completes a match. The UPDATE is guarded on the pending result
// so a concurrent double-submit loses cleanly, and stats application is keyed
// on (match, player) so a retry can never double-count.
func (c *controller) RecordResult(matchID string, scores []GameScore) (*Match, error) {
	if len(scores) < 1 || len(scores) > 3 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidScores, len(scores))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.getLocked(matchID)
	if err != nil {
		return nil, err
	}
	if !m.Active() {
		return nil, ErrMatchAlreadyCompleted
	}

	for i := range scores {
		scores[i].Game = i + 1
	}
	result := computeResult(scores)

	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scores: %w", err)
	}

	now := time.Now()
	res, err := c.db.Exec(`
		UPDATE matches SET result = ?, scores_json = ?, ended_at = ?
		WHERE id = ? AND result = ?
	`, result, scoresJSON, now.Unix(), matchID, ResultPending)
	if err != nil {
		return nil, fmt.Errorf("failed to complete match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrMatchAlreadyCompleted
	}

	m.Scores = scores
	m.Result = result
	m.EndedAt = &now

	for _, playerID := range m.Team1 {
		if err := c.stats.Apply(m.ID, playerID, outcomeFor(result, true)); err != nil {
			log.Error("Failed to apply stats", "error", err, "matchID", m.ID, "playerID", playerID)
		}
	}
	for _, playerID := range m.Team2 {
		if err := c.stats.Apply(m.ID, playerID, outcomeFor(result, false)); err != nil {
			log.Error("Failed to apply stats", "error", err, "matchID", m.ID, "playerID", playerID)
		}
	}

	log.Info("Recorded match result", "matchID", m.ID, "result", result, "games", len(scores))
	return m, nil
}

// computeResult counts games won per side; only strictly higher point totals
// win a game. Equal games won is a draw.
func computeResult(scores []GameScore) Result {
	team1Games := 0
	team2Games := 0
	for _, score := range scores {
		if score.Team1Score > score.Team2Score {
			team1Games++
		} else if score.Team2Score > score.Team1Score {
			team2Games++
		}
	}
	switch {
	case team1Games > team2Games:
		return ResultTeam1
	case team2Games > team1Games:
		return ResultTeam2
	default:
		return ResultDraw
	}
}

func outcomeFor(result Result, onTeam1 bool) stats.Outcome {
	switch result {
	case ResultTeam1:
		if onTeam1 {
			return stats.OutcomeWin
		}
		return stats.OutcomeLoss
	case ResultTeam2:
		if onTeam1 {
			return stats.OutcomeLoss
		}
		return stats.OutcomeWin
	default:
		return stats.OutcomeDraw
	}
}

// Get retrieves a single match.
func (c *controller) Get(matchID string) (*Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(matchID)
}

func (c *controller) getLocked(matchID string) (*Match, error) {
	row := c.db.QueryRow(`
		SELECT id, court, team1_json, team2_json, scores_json, result, started_at, ended_at, created_at
		FROM matches WHERE id = ?
	`, matchID)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	return m, err
}

// ListActive returns matches still being played, newest first.
func (c *controller) ListActive() ([]Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listActiveLocked()
}

func (c *controller) listActiveLocked() ([]Match, error) {
	rows, err := c.db.Query(`
		SELECT id, court, team1_json, team2_json, scores_json, result, started_at, ended_at, created_at
		FROM matches WHERE result = ?
		ORDER BY started_at DESC
	`, ResultPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query active matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// ListCompleted returns completed matches ordered by end time, newest first.
func (c *controller) ListCompleted(limit, offset int) ([]Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := c.db.Query(`
		SELECT id, court, team1_json, team2_json, scores_json, result, started_at, ended_at, created_at
		FROM matches WHERE result != ?
		ORDER BY ended_at DESC
		LIMIT ? OFFSET ?
	`, ResultPending, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// History returns the player's matches, newest first, with a won flag.
func (c *controller) History(playerID int64, limit int) ([]HistoryItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	// Team membership lives in JSON columns, so filtering happens here rather
	// than in SQL.
	rows, err := c.db.Query(`
		SELECT id, court, team1_json, team2_json, scores_json, result, started_at, ended_at, created_at
		FROM matches
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches, err := collectMatches(rows)
	if err != nil {
		return nil, err
	}

	history := []HistoryItem{}
	for _, m := range matches {
		if len(history) == limit {
			break
		}
		inTeam1 := containsID(m.Team1, playerID)
		if !inTeam1 && !containsID(m.Team2, playerID) {
			continue
		}
		won := (inTeam1 && m.Result == ResultTeam1) || (!inTeam1 && m.Result == ResultTeam2)
		history = append(history, HistoryItem{Match: m, Won: won})
	}
	return history, nil
}

func collectMatches(rows *sql.Rows) ([]Match, error) {
	matches := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var team1JSON, team2JSON string
	var scoresJSON sql.NullString
	var startedAt, createdAt int64
	var endedAt sql.NullInt64

	err := scanner.Scan(&m.ID, &m.Court, &team1JSON, &team2JSON, &scoresJSON, &m.Result, &startedAt, &endedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(team1JSON), &m.Team1); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team1: %w", err)
	}
	if err := json.Unmarshal([]byte(team2JSON), &m.Team2); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team2: %w", err)
	}
	m.Scores = []GameScore{}
	if scoresJSON.Valid && scoresJSON.String != "" {
		if err := json.Unmarshal([]byte(scoresJSON.String), &m.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}
	}

	m.StartedAt = time.Unix(startedAt, 0)
	m.CreatedAt = time.Unix(createdAt, 0)
	if endedAt.Valid {
		ended := time.Unix(endedAt.Int64, 0)
		m.EndedAt = &ended
	}
	return &m, nil
}

func overlaps(a, b []int64) bool {
	for _, x := range a {
		if containsID(b, x) {
			return true
		}
	}
	return false
}

func hasDuplicate(ids []int64) bool {
	return len(ids) == 2 && ids[0] == ids[1]
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
