package players

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new PlayerStore.
func New(db *sql.DB) PlayerStore {
	return &store{
		db: db,
	}
}

// Create registers a new player with default role, hand and tier. A stats row
// is seeded alongside so aggregate reads never miss.
func (s *store) Create(username, name, phone string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&existing); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing > 0 {
		return nil, ErrUsernameTaken
	}

	if name == "" {
		name = username
	}

	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO players (username, name, phone, bio, role, hand_preference, skill_tier, is_active, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?, ?, 1, ?, ?)
	`, username, name, phone, RolePlayer, HandRight, TierN, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read player id: %w", err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO player_stats (player_id, updated_at) VALUES (?, ?)
		ON CONFLICT (player_id) DO NOTHING
	`, id, now.Unix()); err != nil {
		log.Error("Failed to seed player stats row", "error", err, "playerID", id)
	}

	log.Info("Registered player", "playerID", id, "username", username)
	return s.getLocked(id)
}

// Get retrieves a single player by id.
func (s *store) Get(playerID int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(playerID)
}

func (s *store) getLocked(playerID int64) (*Player, error) {
	row := s.db.QueryRow(`
		SELECT id, username, name, phone, bio, role, hand_preference, skill_tier, is_active, created_at, updated_at
		FROM players WHERE id = ?
	`, playerID)
	return scanPlayer(row)
}

// GetByUsername retrieves a single player by username.
func (s *store) GetByUsername(username string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, username, name, phone, bio, role, hand_preference, skill_tier, is_active, created_at, updated_at
		FROM players WHERE username = ?
	`, username)
	return scanPlayer(row)
}

// GetMany retrieves the given players. Unknown ids are silently skipped.
func (s *store) GetMany(playerIDs []int64) ([]Player, error) {
	if len(playerIDs) == 0 {
		return []Player{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT id, username, name, phone, bio, role, hand_preference, skill_tier, is_active, created_at, updated_at
		FROM players WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	result := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// List returns directory rows joined with aggregate stats, optionally filtered
// by a free-text substring over username, name and phone.
func (s *store) List(filter string, limit, offset int) ([]ListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT p.id, p.username, p.name, p.phone, p.role, p.hand_preference, p.skill_tier, p.is_active,
		       COALESCE(ps.total_matches, 0), COALESCE(ps.wins, 0), COALESCE(ps.win_rate, 0), COALESCE(ps.skill_level, 'Beginner')
		FROM players p
		LEFT JOIN player_stats ps ON ps.player_id = p.id
	`
	args := []any{}
	if filter != "" {
		query += ` WHERE p.username LIKE ? OR p.name LIKE ? OR p.phone LIKE ?`
		pattern := "%" + filter + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY p.id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	items := []ListItem{}
	for rows.Next() {
		var item ListItem
		var active int
		if err := rows.Scan(
			&item.ID, &item.Username, &item.Name, &item.Phone, &item.Role,
			&item.HandPreference, &item.SkillTier, &active,
			&item.TotalMatches, &item.Wins, &item.WinRate, &item.SkillLevel,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		item.IsActive = active != 0
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateProfile updates the self-service profile fields. An empty phone keeps
// the stored one.
func (s *store) UpdateProfile(playerID int64, name, bio, phone string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE players
		SET name = ?, bio = ?, phone = CASE WHEN ? = '' THEN phone ELSE ? END, updated_at = ?
		WHERE id = ?
	`, name, bio, phone, phone, time.Now().Unix(), playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrPlayerNotFound
	}
	return s.getLocked(playerID)
}

// UpdateAdmin sets the admin-editable fields: hand preference and skill tier.
// No other fields can be changed through this path.
func (s *store) UpdateAdmin(playerID int64, hand HandPreference, tier SkillTier) error {
	if !tier.Valid() {
		return ErrInvalidSkillTier
	}
	if !hand.Valid() {
		return ErrInvalidHandPreference
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE players SET hand_preference = ?, skill_tier = ?, updated_at = ? WHERE id = ?
	`, hand, tier, time.Now().Unix(), playerID)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}

	log.Info("Updated player settings", "playerID", playerID, "hand", hand, "tier", tier)
	return nil
}

// SetActive soft-enables or soft-disables a player.
func (s *store) SetActive(playerID int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE players SET is_active = ?, updated_at = ? WHERE id = ?
	`, boolToInt(active), time.Now().Unix(), playerID)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var active int
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&p.ID, &p.Username, &p.Name, &p.Phone, &p.Bio,
		&p.Role, &p.HandPreference, &p.SkillTier, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	p.IsActive = active != 0
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
