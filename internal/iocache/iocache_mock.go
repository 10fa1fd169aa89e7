package iocache

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockKVStore is a mock implementation of KVStore for testing.
type MockKVStore struct {
	mock.Mock
}

var _ contract.KVStore = &MockKVStore{} // Compile-time check

// Get implements the KVStore interface.
func (m *MockKVStore) Get(key string) ([]byte, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Get(1).(int64), args.Error(2)
}

// Set implements the KVStore interface.
func (m *MockKVStore) Set(key string, value []byte, timestamp int64) error {
	args := m.Called(key, value, timestamp)
	return args.Error(0)
}

// Delete implements the KVStore interface.
func (m *MockKVStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Close implements the KVStore interface.
func (m *MockKVStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the KVStore interface.
func (m *MockKVStore) GetStatus() (schema.PrefsStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.PrefsStatus), args.Error(1)
}
