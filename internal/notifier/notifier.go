package notifier

import (
	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/queue"
)

// Notifier defines a high-level interface for announcing business events.
// This decouples the rest of the application from the specific notification
// provider (e.g., Slack).
type Notifier interface {
	// SendCallUpNotification announces which players are up next.
	SendCallUpNotification(entries []queue.Entry, called []players.Player, dryRun bool) error
	// SendResultNotification announces a completed match with its score line.
	SendResultNotification(m *match.Match, team1Names, team2Names []string, dryRun bool) error
}
