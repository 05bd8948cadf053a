package iocache

import (
	"context"
	"time"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetFetchStore implements the CacheManager interface.
func (m *MockCacheManager) GetFetchStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetIssueStore implements the CacheManager interface.
func (m *MockCacheManager) GetIssueStore() contract.IssueStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.IssueStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockIssueStore is a mock implementation of IssueStore for testing.
type MockIssueStore struct {
	mock.Mock
}

var _ contract.IssueStore = &MockIssueStore{} // Compile-time check

// SaveRecords implements the IssueStore interface.
func (m *MockIssueStore) SaveRecords(ctx context.Context, repo string, records []schema.RawRecord, importedAt time.Time) (int, error) {
	args := m.Called(ctx, repo, records, importedAt)
	return args.Int(0), args.Error(1)
}

// LoadRecords implements the IssueStore interface.
func (m *MockIssueStore) LoadRecords(ctx context.Context, repo string) ([]schema.RawRecord, error) {
	args := m.Called(ctx, repo)
	records, _ := args.Get(0).([]schema.RawRecord)
	return records, args.Error(1)
}

// DeleteRepo implements the IssueStore interface.
func (m *MockIssueStore) DeleteRepo(ctx context.Context, repo string) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

// GetStatus implements the IssueStore interface.
func (m *MockIssueStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the IssueStore interface.
func (m *MockIssueStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
