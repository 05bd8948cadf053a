package core

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/issuelens/internal/iocache"
	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Unix(1700000000, 0)
}

func TestCachedSourceMissStores(t *testing.T) {
	inner := sourceOf(schema.RawRecord{"number": 1, "labels": []any{"bug"}})
	key := cacheKey(inner)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(nil, 0, int64(0), sql.ErrNoRows)
	store.On("Set", key, mock.Anything, currentCacheVersion, fixedNow().Unix()).Return(nil)

	src := NewCachedSource(inner, store, time.Hour)
	src.now = fixedNow
	records, err := src.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	store.AssertExpectations(t)
	inner.AssertNumberOfCalls(t, "LoadRecords", 1)
}

func TestCachedSourceHit(t *testing.T) {
	inner := &mockSource{}
	payload, err := json.Marshal([]schema.RawRecord{{"number": 5, "labels": []any{7}}})
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", cacheKey(inner)).Return(payload, currentCacheVersion, fixedNow().Add(-time.Minute).Unix(), nil)

	src := NewCachedSource(inner, store, time.Hour)
	src.now = fixedNow
	records, err := src.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	issue, err := schema.NewIssue(records[0])
	require.NoError(t, err)
	assert.Equal(t, 5, issue.Number)
	assert.Equal(t, schema.IntLabel(7), issue.Labels[0])
	inner.AssertNotCalled(t, "LoadRecords", mock.Anything)
}

func TestCachedSourceStaleOrOldVersion(t *testing.T) {
	tests := []struct {
		name    string
		version int
		age     time.Duration
	}{
		{name: "stale", version: currentCacheVersion, age: 2 * time.Hour},
		{name: "old version", version: currentCacheVersion + 1, age: time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := sourceOf(schema.RawRecord{"number": 2})
			key := cacheKey(inner)
			store := &iocache.MockCacheStore{}
			store.On("Get", key).Return([]byte(`[{"number": 1}]`), tt.version, fixedNow().Add(-tt.age).Unix(), nil)
			store.On("Set", key, mock.Anything, currentCacheVersion, fixedNow().Unix()).Return(nil)

			src := NewCachedSource(inner, store, time.Hour)
			src.now = fixedNow
			records, err := src.LoadRecords(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, 2, records[0]["number"])
		})
	}
}

func TestCachedSourceWithoutStore(t *testing.T) {
	inner := sourceOf(schema.RawRecord{"number": 1})
	src := NewCachedSource(inner, nil, time.Hour)
	assert.Equal(t, "mock", src.Describe())
	records, err := src.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
