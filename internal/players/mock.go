package players

import "sync"

// MockStore is a mock implementation of the PlayerStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateFunc        func(username, name, phone string) (*Player, error)
	GetFunc           func(playerID int64) (*Player, error)
	GetByUsernameFunc func(username string) (*Player, error)
	GetManyFunc       func(playerIDs []int64) ([]Player, error)
	ListFunc          func(filter string, limit, offset int) ([]ListItem, error)
	UpdateProfileFunc func(playerID int64, name, bio, phone string) (*Player, error)
	UpdateAdminFunc   func(playerID int64, hand HandPreference, tier SkillTier) error
	SetActiveFunc     func(playerID int64, active bool) error

	// Call records
	UpdateAdminCalls []struct {
		PlayerID int64
		Hand     HandPreference
		Tier     SkillTier
	}
	GetManyCalls [][]int64
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(username, name, phone string) (*Player, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(username, name, phone)
	}
	return &Player{Username: username, Name: name, Phone: phone}, nil
}

func (m *MockStore) Get(playerID int64) (*Player, error) {
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return &Player{ID: playerID}, nil
}

func (m *MockStore) GetByUsername(username string) (*Player, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(username)
	}
	return &Player{Username: username}, nil
}

func (m *MockStore) GetMany(playerIDs []int64) ([]Player, error) {
	m.mu.Lock()
	m.GetManyCalls = append(m.GetManyCalls, playerIDs)
	m.mu.Unlock()
	if m.GetManyFunc != nil {
		return m.GetManyFunc(playerIDs)
	}
	result := make([]Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		result = append(result, Player{ID: id})
	}
	return result, nil
}

func (m *MockStore) List(filter string, limit, offset int) ([]ListItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(filter, limit, offset)
	}
	return []ListItem{}, nil
}

func (m *MockStore) UpdateProfile(playerID int64, name, bio, phone string) (*Player, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(playerID, name, bio, phone)
	}
	return &Player{ID: playerID, Name: name, Bio: bio, Phone: phone}, nil
}

func (m *MockStore) UpdateAdmin(playerID int64, hand HandPreference, tier SkillTier) error {
	m.mu.Lock()
	m.UpdateAdminCalls = append(m.UpdateAdminCalls, struct {
		PlayerID int64
		Hand     HandPreference
		Tier     SkillTier
	}{playerID, hand, tier})
	m.mu.Unlock()
	if m.UpdateAdminFunc != nil {
		return m.UpdateAdminFunc(playerID, hand, tier)
	}
	return nil
}

func (m *MockStore) SetActive(playerID int64, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(playerID, active)
	}
	return nil
}
