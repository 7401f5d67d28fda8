package queue

import (
	"sync"
	"time"
)

// MockStore is a mock implementation of the QueueStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	JoinFunc         func(playerID int64) (*Entry, error)
	LeaveFunc        func(playerID int64) error
	StatusFunc       func(playerID int64) (*Info, error)
	CallNextFunc     func(n int) ([]Entry, error)
	WaitingFunc      func() ([]Entry, error)
	MarkConsumedFunc func(playerIDs []int64) error
	ExpireStaleFunc  func(ttl time.Duration) (int, error)

	MarkConsumedCalls [][]int64
	CallNextCalls     []int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Join(playerID int64) (*Entry, error) {
	if m.JoinFunc != nil {
		return m.JoinFunc(playerID)
	}
	return &Entry{PlayerID: playerID, Status: StatusWaiting, Position: 1}, nil
}

func (m *MockStore) Leave(playerID int64) error {
	if m.LeaveFunc != nil {
		return m.LeaveFunc(playerID)
	}
	return nil
}

func (m *MockStore) Status(playerID int64) (*Info, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(playerID)
	}
	return &Info{}, nil
}

func (m *MockStore) CallNext(n int) ([]Entry, error) {
	m.mu.Lock()
	m.CallNextCalls = append(m.CallNextCalls, n)
	m.mu.Unlock()
	if m.CallNextFunc != nil {
		return m.CallNextFunc(n)
	}
	return []Entry{}, nil
}

func (m *MockStore) Waiting() ([]Entry, error) {
	if m.WaitingFunc != nil {
		return m.WaitingFunc()
	}
	return []Entry{}, nil
}

func (m *MockStore) MarkConsumed(playerIDs []int64) error {
	m.mu.Lock()
	m.MarkConsumedCalls = append(m.MarkConsumedCalls, playerIDs)
	m.mu.Unlock()
	if m.MarkConsumedFunc != nil {
		return m.MarkConsumedFunc(playerIDs)
	}
	return nil
}

func (m *MockStore) ExpireStale(ttl time.Duration) (int, error) {
	if m.ExpireStaleFunc != nil {
		return m.ExpireStaleFunc(ttl)
	}
	return 0, nil
}
