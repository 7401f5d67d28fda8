package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mauv0809/smashqueue/internal/players"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("insufficient permissions")
)

// Identity is the authenticated caller, passed explicitly into operations.
// There is no process-wide auth state: every request carries its own identity.
type Identity struct {
	PlayerID int64        `json:"player_id"`
	Username string       `json:"username"`
	Role     players.Role `json:"role"`
}

// Claims is the JWT claim set issued by the external auth collaborator.
type Claims struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Capability names a privileged operation. Handlers check capabilities rather
// than comparing role strings inline.
type Capability string

const (
	CapQueueCall      Capability = "queue.call"
	CapMatchCreate    Capability = "match.create"
	CapMatchRecord    Capability = "match.record"
	CapAdminUsers     Capability = "admin.users"
	CapViewCompleted  Capability = "match.view-completed"
	CapViewAnyProfile Capability = "profile.view-any"
	CapSweep          Capability = "queue.sweep"
)

// capabilityRoles maps each capability to the roles allowed to exercise it.
var capabilityRoles = map[Capability][]players.Role{
	CapQueueCall:      {players.RoleOrganizer, players.RoleAdmin},
	CapMatchCreate:    {players.RoleOrganizer, players.RoleAdmin},
	CapMatchRecord:    {players.RoleOrganizer, players.RoleAdmin},
	CapAdminUsers:     {players.RoleOrganizer, players.RoleAdmin},
	CapViewCompleted:  {players.RoleOrganizer, players.RoleAdmin},
	CapViewAnyProfile: {players.RoleOrganizer, players.RoleAdmin},
	CapSweep:          {players.RoleAdmin},
}

// Allowed reports whether the role may exercise the capability.
func Allowed(role players.Role, cap Capability) bool {
	for _, allowed := range capabilityRoles[cap] {
		if role == allowed {
			return true
		}
	}
	return false
}
