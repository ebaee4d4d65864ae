package reveal

import (
	"fmt"
	"io/fs"
	"sync"
)

// MockStore is an in-memory implementation of Store for testing
type MockStore struct {
	mu      sync.Mutex
	days    []int
	written bool
	loadErr error
	saveErr error
	saves   int
}

// NewMockStore creates an empty MockStore that behaves like a store that was
// never written
func NewMockStore() *MockStore {
	return &MockStore{}
}

// NewMockStoreWith creates a MockStore already holding days
func NewMockStoreWith(days ...int) *MockStore {
	return &MockStore{days: append([]int(nil), days...), written: true}
}

// Load implements Store
func (m *MockStore) Load() ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.written {
		return nil, fmt.Errorf("mock store: %w", fs.ErrNotExist)
	}
	return append([]int(nil), m.days...), nil
}

// Save implements Store
func (m *MockStore) Save(days []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.days = append([]int(nil), days...)
	m.written = true
	m.saves++
	return nil
}

// FailLoad makes subsequent loads return err
func (m *MockStore) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes subsequent saves return err; nil restores normal behaviour
func (m *MockStore) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saved returns the last successfully saved days
func (m *MockStore) Saved() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.days...)
}

// SaveCount returns the number of successful saves
func (m *MockStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Ensure MockStore implements the Store interface
var _ Store = (*MockStore)(nil)
