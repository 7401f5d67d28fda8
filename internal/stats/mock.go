package stats

import "sync"

// MockAggregator is a mock implementation of the Aggregator interface for
// testing. It is safe for concurrent use.
type MockAggregator struct {
	mu sync.Mutex

	ApplyFunc       func(matchID string, playerID int64, outcome Outcome) error
	GetFunc         func(playerID int64) (*PlayerStats, error)
	LeaderboardFunc func(limit int) ([]LeaderboardEntry, error)

	ApplyCalls []struct {
		MatchID  string
		PlayerID int64
		Outcome  Outcome
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockAggregator {
	return &MockAggregator{}
}

func (m *MockAggregator) Apply(matchID string, playerID int64, outcome Outcome) error {
	m.mu.Lock()
	m.ApplyCalls = append(m.ApplyCalls, struct {
		MatchID  string
		PlayerID int64
		Outcome  Outcome
	}{matchID, playerID, outcome})
	m.mu.Unlock()
	if m.ApplyFunc != nil {
		return m.ApplyFunc(matchID, playerID, outcome)
	}
	return nil
}

func (m *MockAggregator) Get(playerID int64) (*PlayerStats, error) {
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return &PlayerStats{PlayerID: playerID, SkillLevel: "Beginner"}, nil
}

func (m *MockAggregator) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(limit)
	}
	return []LeaderboardEntry{}, nil
}
