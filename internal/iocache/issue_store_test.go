package iocache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssueStore(t *testing.T) contract.IssueStore {
	t.Helper()
	store, err := NewIssueStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storeRecords() []schema.RawRecord {
	return []schema.RawRecord{
		{
			"number":       7,
			"title":        "Docs typo",
			"state":        "closed",
			"creator":      "dana",
			"created_date": "2022-05-01T08:00:00+02:00",
			"labels":       []any{"docs"},
		},
		{
			"number":       3,
			"title":        "Crash",
			"url":          "https://github.com/octo/hello/issues/3",
			"state":        "open",
			"creator":      "alice",
			"created_date": "2023-01-01T10:00:00Z",
			"updated_date": "2023-01-03T10:00:00Z",
			"labels":       []any{"bug", 2.0, true},
			"events": []any{
				map[string]any{"event_type": "labeled", "author": "bob", "event_date": "2023-01-01T11:00:00Z", "label": "bug"},
				map[string]any{"event_type": "commented", "author": "carol", "event_date": "2023-01-02T09:00:00Z", "comment": "same here"},
			},
		},
	}
}

func TestIssueStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestIssueStore(t)

	n, err := store.SaveRecords(ctx, "octo/hello", storeRecords(), time.Unix(1700000000, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	back, err := store.LoadRecords(ctx, "octo/hello")
	require.NoError(t, err)
	require.Len(t, back, 2)

	// Ordered by number
	assert.Equal(t, 3, back[0]["number"])
	assert.Equal(t, 7, back[1]["number"])

	originals := storeRecords()
	for i, want := range []schema.RawRecord{originals[1], originals[0]} {
		expected, err := schema.NewIssue(want)
		require.NoError(t, err)
		got, err := schema.NewIssue(back[i])
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}

func TestIssueStoreReplacesRepo(t *testing.T) {
	ctx := context.Background()
	store := newTestIssueStore(t)

	_, err := store.SaveRecords(ctx, "octo/hello", storeRecords(), time.Unix(1700000000, 0))
	require.NoError(t, err)
	_, err = store.SaveRecords(ctx, "octo/other", storeRecords()[:1], time.Unix(1700000100, 0))
	require.NoError(t, err)

	n, err := store.SaveRecords(ctx, "octo/hello", []schema.RawRecord{{"number": 9, "state": "open"}}, time.Unix(1700000200, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	back, err := store.LoadRecords(ctx, "octo/hello")
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, 9, back[0]["number"])
	assert.Equal(t, []any{}, back[0]["events"])

	other, err := store.LoadRecords(ctx, "octo/other")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestIssueStoreDuplicateNumbers(t *testing.T) {
	ctx := context.Background()
	store := newTestIssueStore(t)

	records := []schema.RawRecord{
		{"number": 1, "title": "first"},
		{"number": 2, "title": "second"},
		{"number": 1, "title": "first again"},
	}
	n, err := store.SaveRecords(ctx, "o/r", records, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	back, err := store.LoadRecords(ctx, "o/r")
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, "first again", back[0]["title"])
}

func TestIssueStoreRejectsMissingNumbers(t *testing.T) {
	ctx := context.Background()
	store := newTestIssueStore(t)

	_, err := store.SaveRecords(ctx, "o/r", []schema.RawRecord{{"number": 7}}, time.Now())
	require.NoError(t, err)

	for _, records := range [][]schema.RawRecord{
		{{"labels": []any{"a"}}, {"labels": []any{"b"}}},
		{{"number": 1}, {"number": nil, "labels": []any{"c"}}},
	} {
		_, err := store.SaveRecords(ctx, "o/r", records, time.Now())
		assert.ErrorIs(t, err, schema.ErrInvalidRecord)
		assert.ErrorContains(t, err, "missing number")
	}

	// The earlier import is left in place
	back, err := store.LoadRecords(ctx, "o/r")
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, 7, back[0]["number"])
}

func TestIssueStoreShapeError(t *testing.T) {
	store := newTestIssueStore(t)
	_, err := store.SaveRecords(context.Background(), "o/r", []schema.RawRecord{{"number": 1, "events": "x"}}, time.Now())
	assert.ErrorIs(t, err, schema.ErrShape)
}

func TestIssueStoreDeleteAndStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestIssueStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, uint(3), status.SchemaVersion)
	assert.Zero(t, status.TotalIssues)
	assert.True(t, status.LastImportTime.IsZero())

	_, err = store.SaveRecords(ctx, "octo/hello", storeRecords(), time.Unix(1700000000, 0))
	require.NoError(t, err)
	_, err = store.SaveRecords(ctx, "octo/other", storeRecords()[:1], time.Unix(1600000000, 0))
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, []string{"octo/hello", "octo/other"}, status.Repos)
	assert.Equal(t, 3, status.TotalIssues)
	assert.Equal(t, 2, status.TotalEvents)
	assert.Equal(t, int64(2), status.TableSizes[importsTable])
	assert.Equal(t, int64(1700000000), status.LastImportTime.Unix())
	assert.Equal(t, int64(1600000000), status.OldestImportTime.Unix())

	require.NoError(t, store.DeleteRepo(ctx, "octo/hello"))
	back, err := store.LoadRecords(ctx, "octo/hello")
	require.NoError(t, err)
	assert.Empty(t, back)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, []string{"octo/other"}, status.Repos)
	assert.Zero(t, status.TotalEvents)
}

func TestIssueStoreNoneBackend(t *testing.T) {
	store, err := NewIssueStore(schema.NoneBackend, "")
	require.NoError(t, err)

	_, err = store.SaveRecords(context.Background(), "o/r", nil, time.Now())
	assert.Error(t, err)
	_, err = store.LoadRecords(context.Background(), "o/r")
	assert.Error(t, err)
	assert.NoError(t, store.DeleteRepo(context.Background(), "o/r"))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}
