//go:build basic

// Package integration contains end-to-end tests for the issuelens binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMetricsVerification runs every metric against the fixture and checks the
// numbers worked out by hand from testdata/issues.json.
func TestMetricsVerification(t *testing.T) {
	env := isolatedEnv(t)

	t.Run("labels", func(t *testing.T) {
		out, err := runIssueLens(t, env, "labels", fixturePath, "--output", "json")
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"total": 8,
			"distinct": 6,
			"labels": [
				{"key": "bug", "count": 2},
				{"key": "p1", "count": 1},
				{"key": "docs", "count": 1},
				{"key": 1, "count": 2},
				{"key": true, "count": 1},
				{"key": null, "count": 1}
			]
		}`, out)
	})

	t.Run("distribution", func(t *testing.T) {
		out, err := runIssueLens(t, env, "distribution", fixturePath, "--output", "json")
		require.NoError(t, err)
		var got struct {
			Total   int `json:"total"`
			NoState int `json:"no_state"`
			NoYear  int `json:"no_year"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 4, got.Total)
		assert.Equal(t, 1, got.NoState)
		assert.Equal(t, 1, got.NoYear)
	})

	t.Run("response", func(t *testing.T) {
		out, err := runIssueLens(t, env, "response", fixturePath, "--output", "json", "--unit", "seconds")
		require.NoError(t, err)
		var got struct {
			Count    int   `json:"count"`
			Mean     int64 `json:"mean"`
			Min      int64 `json:"min"`
			Max      int64 `json:"max"`
			NoEvents int   `json:"no_events"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 2, got.Count)
		assert.Equal(t, int64(86430), got.Mean)
		assert.Equal(t, int64(60), got.Min)
		assert.Equal(t, int64(172800), got.Max)
		assert.Equal(t, 2, got.NoEvents)
	})

	t.Run("update", func(t *testing.T) {
		out, err := runIssueLens(t, env, "update", fixturePath, "--output", "csv")
		require.NoError(t, err)
		rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"number", "seconds"}, {"1", "172800"}, {"2", "3600"}}, rows)
	})

	t.Run("overlap", func(t *testing.T) {
		out, err := runIssueLens(t, env, "overlap", fixturePath, "--output", "json")
		require.NoError(t, err)
		var got struct {
			Shared []string `json:"shared"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []string{"alice", "bob"}, got.Shared)
	})

	t.Run("monthly", func(t *testing.T) {
		out, err := runIssueLens(t, env, "monthly", fixturePath, "--output", "json")
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"months": [
				{"key": "2023-01", "count": 1},
				{"key": "2023-02", "count": 1},
				{"key": "2024-03", "count": 1}
			],
			"skipped": 1
		}`, out)
	})

	t.Run("text output", func(t *testing.T) {
		out, err := runIssueLens(t, env, "labels", fixturePath, "--width", "100")
		require.NoError(t, err)
		assert.Contains(t, out, "Label frequency")
		assert.Contains(t, out, "bug")
	})
}

// TestStdinSource pipes the fixture through standard input.
func TestStdinSource(t *testing.T) {
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	cmd := exec.Command(getIssueLensBinary(), "monthly", "-", "--output", "csv")
	cmd.Env = isolatedEnv(t)
	cmd.Stdin = strings.NewReader(string(data))
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "2024-03,1")
}

// TestStoreRoundTrip imports the fixture into a SQLite store and checks that every
// analysis of the stored copy matches the analysis of the file.
func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	env := isolatedEnv(t,
		"ISSUELENS_STORE_BACKEND=sqlite",
		"ISSUELENS_STORE_DB_CONNECT="+filepath.Join(dir, "store.db"),
	)
	const repo = "octo/fixture"

	_, err := runIssueLens(t, env, "store", "import", fixturePath, "--repo", repo)
	require.NoError(t, err)

	status, err := runIssueLens(t, env, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Schema Version: 3")
	assert.Contains(t, status, "Total Issues: 4")
	assert.Contains(t, status, "Total Events: 4")
	assert.Contains(t, status, "Repos: "+repo)

	for _, metric := range []string{"labels", "distribution", "response", "update", "overlap", "monthly"} {
		t.Run(metric, func(t *testing.T) {
			fromFile, err := runIssueLens(t, env, metric, fixturePath, "--output", "json")
			require.NoError(t, err)
			fromStore, err := runIssueLens(t, env, metric, "--source", "store", "--repo", repo, "--output", "json")
			require.NoError(t, err)
			assert.JSONEq(t, fromFile, fromStore)
		})
	}

	exported := filepath.Join(dir, "export.parquet")
	_, err = runIssueLens(t, env, "store", "export", "--repo", repo, "--output-file", exported)
	require.NoError(t, err)
	fromParquet, err := runIssueLens(t, env, "labels", exported, "--output", "json")
	require.NoError(t, err)
	fromFile, err := runIssueLens(t, env, "labels", fixturePath, "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, fromFile, fromParquet)

	_, err = runIssueLens(t, env, "store", "delete", "--repo", repo)
	require.NoError(t, err)
	_, err = runIssueLens(t, env, "labels", "--source", "store", "--repo", repo)
	require.NoError(t, err, "an empty stored repo has nothing to report")

	_, err = runIssueLens(t, env, "store", "clear")
	require.NoError(t, err)
}

// TestInvalidInputs checks that bad invocations fail.
func TestInvalidInputs(t *testing.T) {
	env := isolatedEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{name: "unsupported extension", args: []string{"labels", "issues.txt"}},
		{name: "missing file", args: []string{"labels", "testdata/absent.json"}},
		{name: "bad unit", args: []string{"response", fixturePath, "--unit", "weeks"}},
		{name: "limit too large", args: []string{"overlap", fixturePath, "--limit", "5000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runIssueLens(t, env, tt.args...)
			assert.Error(t, err)
		})
	}
}
