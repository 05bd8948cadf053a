package parquet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/issuelens/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []schema.RawRecord {
	return []schema.RawRecord{
		{
			"number":       1,
			"title":        "Crash on start",
			"state":        "open",
			"creator":      "alice",
			"created_date": "2023-01-01T10:00:00Z",
			"updated_date": "2023-01-02T10:00:00Z",
			"labels":       []any{"bug", 3},
			"events": []any{
				map[string]any{"event_type": "commented", "author": "bob", "event_date": "2023-01-01T12:00:00Z", "comment": "+1"},
				map[string]any{"event_type": "labeled", "author": "carol", "label": "bug"},
			},
		},
		{
			"number":       2,
			"state":        "closed",
			"created_date": "garbage",
		},
	}
}

func TestIssueRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(IssueRow))
	require.NotNil(t, s)

	for _, colName := range []string{"repo", "number", "title", "url", "state", "creator", "created_date", "updated_date", "labels", "events"} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestIssuesParquetRoundTrip(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "issues.parquet")
	records := sampleRecords()

	require.NoError(t, WriteIssuesParquet("octo/hello", records, outputPath))
	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	back, err := ReadIssuesParquet(outputPath)
	require.NoError(t, err)
	require.Len(t, back, len(records))

	for i := range records {
		want, err := schema.NewIssue(records[i])
		require.NoError(t, err)
		got, err := schema.NewIssue(back[i])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "garbage", back[1]["created_date"])
	assert.NotContains(t, back[1], "creator")
}

func TestWriteIssuesParquetEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteIssuesParquet("o/r", nil, outputPath))

	back, err := ReadIssuesParquet(outputPath)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestWriteIssuesParquetShapeError(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "bad.parquet")
	err := WriteIssuesParquet("o/r", []schema.RawRecord{{"number": 1, "events": "x"}}, outputPath)
	assert.ErrorIs(t, err, schema.ErrShape)
}

func TestReadIssuesParquetMissingFile(t *testing.T) {
	_, err := ReadIssuesParquet(filepath.Join(t.TempDir(), "missing.parquet"))
	assert.Error(t, err)
}
