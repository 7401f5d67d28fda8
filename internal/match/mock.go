package match

import "sync"

// MockController is a mock implementation of the Controller interface for
// testing. It is safe for concurrent use.
type MockController struct {
	mu sync.Mutex

	CreateFunc        func(court string, team1, team2 []int64) (*Match, error)
	RecordResultFunc  func(matchID string, scores []GameScore) (*Match, error)
	GetFunc           func(matchID string) (*Match, error)
	ListActiveFunc    func() ([]Match, error)
	ListCompletedFunc func(limit, offset int) ([]Match, error)
	HistoryFunc       func(playerID int64, limit int) ([]HistoryItem, error)

	CreateCalls []struct {
		Court        string
		Team1, Team2 []int64
	}
	RecordResultCalls []struct {
		MatchID string
		Scores  []GameScore
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockController {
	return &MockController{}
}

func (m *MockController) Create(court string, team1, team2 []int64) (*Match, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, struct {
		Court        string
		Team1, Team2 []int64
	}{court, team1, team2})
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(court, team1, team2)
	}
	return &Match{Court: court, Team1: team1, Team2: team2, Result: ResultPending}, nil
}

func (m *MockController) RecordResult(matchID string, scores []GameScore) (*Match, error) {
	m.mu.Lock()
	m.RecordResultCalls = append(m.RecordResultCalls, struct {
		MatchID string
		Scores  []GameScore
	}{matchID, scores})
	m.mu.Unlock()
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(matchID, scores)
	}
	return &Match{ID: matchID, Scores: scores}, nil
}

func (m *MockController) Get(matchID string) (*Match, error) {
	if m.GetFunc != nil {
		return m.GetFunc(matchID)
	}
	return &Match{ID: matchID}, nil
}

func (m *MockController) ListActive() ([]Match, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc()
	}
	return []Match{}, nil
}

func (m *MockController) ListCompleted(limit, offset int) ([]Match, error) {
	if m.ListCompletedFunc != nil {
		return m.ListCompletedFunc(limit, offset)
	}
	return []Match{}, nil
}

func (m *MockController) History(playerID int64, limit int) ([]HistoryItem, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(playerID, limit)
	}
	return []HistoryItem{}, nil
}
