package notifier

import (
	"sync"

	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/queue"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendCallUpNotificationFunc func(entries []queue.Entry, called []players.Player, dryRun bool) error
	SendResultNotificationFunc func(m *match.Match, team1Names, team2Names []string, dryRun bool) error

	CallUpCalls []struct {
		Entries []queue.Entry
		Called  []players.Player
	}
	ResultCalls []*match.Match
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendCallUpNotification(entries []queue.Entry, called []players.Player, dryRun bool) error {
	m.mu.Lock()
	m.CallUpCalls = append(m.CallUpCalls, struct {
		Entries []queue.Entry
		Called  []players.Player
	}{entries, called})
	m.mu.Unlock()
	if m.SendCallUpNotificationFunc != nil {
		return m.SendCallUpNotificationFunc(entries, called, dryRun)
	}
	return nil
}

func (m *Mock) SendResultNotification(mt *match.Match, team1Names, team2Names []string, dryRun bool) error {
	m.mu.Lock()
	m.ResultCalls = append(m.ResultCalls, mt)
	m.mu.Unlock()
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(mt, team1Names, team2Names, dryRun)
	}
	return nil
}
