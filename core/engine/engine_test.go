package engine

import (
	"testing"

	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/require"
)

// mustIssues builds issues from raw records and fails on any error.
func mustIssues(t *testing.T, raws ...schema.RawRecord) []schema.Issue {
	t.Helper()
	issues, skipped, err := schema.NewIssues(raws)
	require.NoError(t, err)
	require.Empty(t, skipped)
	return issues
}

func commented(author any, date string) map[string]any {
	return map[string]any{"event_type": "commented", "author": author, "event_date": date}
}
