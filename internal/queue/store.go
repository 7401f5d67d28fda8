package queue

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new QueueStore with the given wait estimate policy.
func New(db *sql.DB, estimate WaitEstimator) QueueStore {
	return &store{
		db:       db,
		estimate: estimate,
	}
}

// Join appends a new waiting entry for the player.
func (s *store) Join(playerID int64) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM queue_entries WHERE player_id = ? AND status IN (?, ?)
	`, playerID, StatusWaiting, StatusCalled).Scan(&active)
	if err != nil {
		return nil, fmt.Errorf("failed to check active entries: %w", err)
	}
	if active > 0 {
		return nil, ErrAlreadyQueued
	}

	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO queue_entries (player_id, status, joined_at) VALUES (?, ?, ?)
	`, playerID, StatusWaiting, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert queue entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read entry id: %w", err)
	}

	position, err := s.positionLocked(id)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:       id,
		PlayerID: playerID,
		Status:   StatusWaiting,
		JoinedAt: now,
		Position: position,
	}
	log.Info("Player joined queue", "playerID", playerID, "entryID", id, "position", position)
	return entry, nil
}

// Leave closes the player's waiting entry.
func (s *store) Leave(playerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE queue_entries SET status = ? WHERE player_id = ? AND status = ?
	`, StatusLeft, playerID, StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to close queue entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotQueued
	}

	log.Info("Player left queue", "playerID", playerID)
	return nil
}

// Status reports the waiting total and, for a known caller, their position.
func (s *store) Status(playerID int64) (*Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := &Info{}
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM queue_entries WHERE status = ?
	`, StatusWaiting).Scan(&info.TotalInQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to count waiting entries: %w", err)
	}

	if playerID > 0 {
		var entryID int64
		err := s.db.QueryRow(`
			SELECT id FROM queue_entries WHERE player_id = ? AND status = ?
		`, playerID, StatusWaiting).Scan(&entryID)
		if err == nil {
			position, err := s.positionLocked(entryID)
			if err != nil {
				return nil, err
			}
			wait := s.estimate(position)
			info.YourPosition = &position
			info.EstimatedWait = &wait
		} else if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to look up caller entry: %w", err)
		}
	}

	return info, nil
}

// positionLocked computes the 1-based rank of an entry among waiting entries,
// ordered by join time with insertion order as the tie-break.
func (s *store) positionLocked(entryID int64) (int, error) {
	var position int
	err := s.db.QueryRow(`
		SELECT COUNT(*) + 1 FROM queue_entries other
		WHERE other.status = ?
		  AND (other.joined_at, other.id) < (SELECT joined_at, id FROM queue_entries WHERE id = ?)
	`, StatusWaiting, entryID).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("failed to compute position: %w", err)
	}
	return position, nil
}

// CallNext marks the n longest-waiting entries as called and returns them in
// FIFO order. The queue is left unchanged when fewer than n are waiting.
func (s *store) CallNext(n int) ([]Entry, error) {
	if n <= 0 {
		n = 4
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin call transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT id, player_id, joined_at FROM queue_entries
		WHERE status = ?
		ORDER BY joined_at, id
		LIMIT ?
	`, StatusWaiting, n)
	if err != nil {
		return nil, fmt.Errorf("failed to select waiting entries: %w", err)
	}

	var called []Entry
	for rows.Next() {
		var e Entry
		var joinedAt int64
		if err := rows.Scan(&e.ID, &e.PlayerID, &joinedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		e.JoinedAt = time.Unix(joinedAt, 0)
		called = append(called, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate waiting entries: %w", err)
	}

	if len(called) < n {
		return nil, ErrInsufficientPlayers
	}

	now := time.Now()
	for i := range called {
		if _, err := tx.Exec(`
			UPDATE queue_entries SET status = ?, called_at = ? WHERE id = ?
		`, StatusCalled, now.Unix(), called[i].ID); err != nil {
			return nil, fmt.Errorf("failed to mark entry called: %w", err)
		}
		called[i].Status = StatusCalled
		calledAt := now
		called[i].CalledAt = &calledAt
		called[i].Position = i + 1
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit call-up: %w", err)
	}

	log.Info("Called next players", "count", len(called))
	return called, nil
}

// Waiting returns the waiting entries in queue order with positions set.
func (s *store) Waiting() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, player_id, joined_at FROM queue_entries
		WHERE status = ?
		ORDER BY joined_at, id
	`, StatusWaiting)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var joinedAt int64
		if err := rows.Scan(&e.ID, &e.PlayerID, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		e.Status = StatusWaiting
		e.JoinedAt = time.Unix(joinedAt, 0)
		e.Position = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkConsumed closes any active entries for the given players. Players who
// never queued are fine: creating a match does not require queueing first.
func (s *store) MarkConsumed(playerIDs []int64) error {
	if len(playerIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := []any{StatusLeft}
	for _, id := range playerIDs {
		args = append(args, id)
	}
	args = append(args, StatusWaiting, StatusCalled)

	_, err := s.db.Exec(fmt.Sprintf(`
		UPDATE queue_entries SET status = ?
		WHERE player_id IN (%s) AND status IN (?, ?)
	`, placeholders), args...)
	if err != nil {
		return fmt.Errorf("failed to consume queue entries: %w", err)
	}
	return nil
}

// ExpireStale flips called entries older than ttl back out of the active set.
func (s *store) ExpireStale(ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-ttl).Unix()
	res, err := s.db.Exec(`
		UPDATE queue_entries SET status = ?
		WHERE status = ? AND called_at IS NOT NULL AND called_at < ?
	`, StatusExpired, StatusCalled, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected > 0 {
		log.Info("Expired stale called entries", "count", affected)
	}
	return int(affected), nil
}
