package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	queueJoins          int
	queueLeaves         int
	queueCallUps        int
	matchesCreated      int
	matchesCompleted    int
	notifSent           int
	notifFailed         int
	sweepRuns           int
	processingDurations []float64
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncQueueJoins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueJoins++
}

func (m *Mock) IncQueueLeaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueLeaves++
}

func (m *Mock) IncQueueCallUps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueCallUps++
}

func (m *Mock) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) IncSweepRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepRuns++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// QueueJoins returns the number of times IncQueueJoins was called.
func (m *Mock) QueueJoins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueJoins
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}

// SweepRuns returns the number of times IncSweepRuns was called.
func (m *Mock) SweepRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepRuns
}
