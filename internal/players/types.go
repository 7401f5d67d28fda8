package players

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// store handles all database operations for the player directory.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	ErrPlayerNotFound        = errors.New("player not found")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrInvalidSkillTier      = errors.New("invalid skill tier")
	ErrInvalidHandPreference = errors.New("invalid hand preference")
)

// Role represents a player's permission level.
type Role string

const (
	RolePlayer    Role = "player"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// HandPreference is the player's dominant hand.
type HandPreference string

const (
	HandRight HandPreference = "right"
	HandLeft  HandPreference = "left"
)

// Valid reports whether the hand preference is one of the accepted values.
func (h HandPreference) Valid() bool {
	return h == HandRight || h == HandLeft
}

// SkillTier is the ordered club ranking label, lowest to highest:
// BG < S- < S < N < P- < P < P+ < C < B < A.
type SkillTier string

const (
	TierBG SkillTier = "BG"
	TierSM SkillTier = "S-"
	TierS  SkillTier = "S"
	TierN  SkillTier = "N"
	TierPM SkillTier = "P-"
	TierP  SkillTier = "P"
	TierPP SkillTier = "P+"
	TierC  SkillTier = "C"
	TierB  SkillTier = "B"
	TierA  SkillTier = "A"
)

var tierOrder = []SkillTier{TierBG, TierSM, TierS, TierN, TierPM, TierP, TierPP, TierC, TierB, TierA}

// Rank returns the tier's position in the ordering, or -1 for an unknown tier.
func (t SkillTier) Rank() int {
	for i, tier := range tierOrder {
		if t == tier {
			return i
		}
	}
	return -1
}

// Valid reports whether the tier is part of the fixed ordering.
func (t SkillTier) Valid() bool {
	return t.Rank() >= 0
}

// Player is the long-lived root entity referenced by queue entries and matches.
// Players are soft-disabled via IsActive, never deleted.
type Player struct {
	ID             int64          `json:"id"`
	Username       string         `json:"username"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	Bio            string         `json:"bio"`
	Role           Role           `json:"role"`
	HandPreference HandPreference `json:"hand_preference"`
	SkillTier      SkillTier      `json:"skill_tier"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ListItem is a directory row joined with aggregate stats for the admin table.
type ListItem struct {
	ID             int64          `json:"id"`
	Username       string         `json:"username"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	Role           Role           `json:"role"`
	HandPreference HandPreference `json:"hand_preference"`
	SkillTier      SkillTier      `json:"skill_tier"`
	IsActive       bool           `json:"is_active"`
	TotalMatches   int            `json:"total_matches"`
	Wins           int            `json:"wins"`
	WinRate        float64        `json:"win_rate"`
	SkillLevel     string         `json:"skill_level"`
}
