package core

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/huangsam/issuelens/internal/loader"
	"github.com/huangsam/issuelens/internal/parquet"
	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assertSameIssues(t *testing.T, want, got []schema.RawRecord) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		wantIssue, err := schema.NewIssue(want[i])
		require.NoError(t, err)
		gotIssue, err := schema.NewIssue(got[i])
		require.NoError(t, err)
		assert.Equal(t, wantIssue, gotIssue)
	}
}

func TestSaveRecords(t *testing.T) {
	ctx := context.Background()
	records := sampleRecords()

	t.Run("json to writer", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := SaveRecords(ctx, sourceOf(records...), "octo/hello", "", &buf)
		require.NoError(t, err)
		assert.Equal(t, len(records), n)

		got, err := loader.DecodeRecords(&buf)
		require.NoError(t, err)
		assertSameIssues(t, records, got)
	})

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "issues.JSON")
		_, err := SaveRecords(ctx, sourceOf(records...), "octo/hello", path, nil)
		require.NoError(t, err)

		src, err := loader.NewFileSource(path, schema.JSONSource)
		require.NoError(t, err)
		got, err := src.LoadRecords(ctx)
		require.NoError(t, err)
		assertSameIssues(t, records, got)
	})

	t.Run("parquet file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "issues.parquet")
		_, err := SaveRecords(ctx, sourceOf(records...), "octo/hello", path, nil)
		require.NoError(t, err)

		got, err := parquet.ReadIssuesParquet(path)
		require.NoError(t, err)
		assertSameIssues(t, records, got)
	})

	t.Run("load error", func(t *testing.T) {
		src := &mockSource{}
		src.On("LoadRecords", mock.Anything).Return(nil, errors.New("boom"))
		_, err := SaveRecords(ctx, src, "octo/hello", "", &bytes.Buffer{})
		assert.ErrorContains(t, err, "failed to load mock")
	})
}
