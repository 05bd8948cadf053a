package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []schema.RawRecord {
	return []schema.RawRecord{
		{
			"number":       1,
			"state":        "open",
			"creator":      "alice",
			"created_date": "2023-01-01T10:00:00Z",
			"updated_date": "2023-01-01T12:00:00Z",
			"labels":       []any{"bug", "p1"},
			"events": []any{
				map[string]any{"event_type": "commented", "author": "bob", "event_date": "2023-01-02T10:00:00Z"},
			},
		},
		{
			"number":       2,
			"state":        "closed",
			"creator":      "bob",
			"created_date": "2023-02-01T10:00:00Z",
			"labels":       []any{"bug"},
			"events": []any{
				map[string]any{"event_type": "commented", "author": "alice", "event_date": "2023-02-01T11:00:00Z"},
			},
		},
		{"number": 3, "state": "reopened", "labels": []any{"bug"}},
	}
}

func TestExecuteRendersOnce(t *testing.T) {
	cfg := &contract.Config{ResultLimit: 10}
	tests := []struct {
		name   string
		method string
		run    ExecutorFunc
	}{
		{name: "labels", method: "RenderLabels", run: ExecuteLabels},
		{name: "distribution", method: "RenderDistribution", run: ExecuteDistribution},
		{name: "response", method: "RenderResponseTime", run: ExecuteResponseTime},
		{name: "update", method: "RenderUpdates", run: ExecuteUpdate},
		{name: "overlap", method: "RenderOverlap", run: ExecuteOverlap},
		{name: "monthly", method: "RenderMonthly", run: ExecuteMonthly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &mockAdapter{}
			adapter.On(tt.method, mock.Anything).Return(nil).Once()

			require.NoError(t, tt.run(context.Background(), cfg, sourceOf(sampleRecords()...), adapter))
			adapter.AssertExpectations(t)
			adapter.AssertNumberOfCalls(t, tt.method, 1)
		})
	}
}

func TestExecuteSkipsEmptyResults(t *testing.T) {
	cfg := &contract.Config{}
	runs := map[string]ExecutorFunc{
		"labels":       ExecuteLabels,
		"distribution": ExecuteDistribution,
		"response":     ExecuteResponseTime,
		"update":       ExecuteUpdate,
		"overlap":      ExecuteOverlap,
		"monthly":      ExecuteMonthly,
	}
	for name, run := range runs {
		t.Run(name, func(t *testing.T) {
			adapter := &mockAdapter{}
			require.NoError(t, run(context.Background(), cfg, sourceOf(), adapter))
			adapter.AssertNotCalled(t, "RenderLabels", mock.Anything)
			adapter.AssertNotCalled(t, "RenderDistribution", mock.Anything)
			adapter.AssertNotCalled(t, "RenderResponseTime", mock.Anything)
			adapter.AssertNotCalled(t, "RenderUpdates", mock.Anything)
			adapter.AssertNotCalled(t, "RenderOverlap", mock.Anything)
			adapter.AssertNotCalled(t, "RenderMonthly", mock.Anything)
		})
	}
}

func TestExecuteOverlapNotComparable(t *testing.T) {
	// Creators but no commenters
	src := sourceOf(schema.RawRecord{"number": 1, "creator": "alice"})
	adapter := &mockAdapter{}
	require.NoError(t, ExecuteOverlap(context.Background(), &contract.Config{}, src, adapter))
	adapter.AssertNotCalled(t, "RenderOverlap", mock.Anything)
}

func TestExecuteShapeErrorPropagates(t *testing.T) {
	bad := schema.RawRecord{"number": 1, "labels": "bug"}
	runs := []ExecutorFunc{ExecuteLabels, ExecuteDistribution, ExecuteResponseTime, ExecuteOverlap, ExecuteMonthly}
	for _, run := range runs {
		adapter := &mockAdapter{}
		err := run(context.Background(), &contract.Config{}, sourceOf(bad), adapter)
		assert.ErrorIs(t, err, schema.ErrShape)
		assert.Empty(t, adapter.Calls)
	}
}

func TestExecuteLoadError(t *testing.T) {
	src := &mockSource{}
	src.On("LoadRecords", mock.Anything).Return(nil, errors.New("boom"))
	err := ExecuteLabels(context.Background(), &contract.Config{}, src, &mockAdapter{})
	assert.ErrorContains(t, err, "failed to load mock: boom")
}

func TestExecuteAdapterError(t *testing.T) {
	adapter := &mockAdapter{}
	adapter.On("RenderMonthly", mock.Anything).Return(errors.New("disk full"))
	err := ExecuteMonthly(context.Background(), &contract.Config{}, sourceOf(sampleRecords()...), adapter)
	assert.ErrorContains(t, err, "disk full")
}

func TestAnalyzeResults(t *testing.T) {
	ctx := context.Background()

	labels, err := AnalyzeLabels(ctx, sourceOf(sampleRecords()...))
	require.NoError(t, err)
	assert.Equal(t, 3, labels.Get(schema.StringLabel("bug")), "labels count even for records with unknown state")

	dist, err := AnalyzeDistribution(ctx, sourceOf(sampleRecords()...))
	require.NoError(t, err)
	assert.Equal(t, 3, dist.Total)
	assert.Equal(t, 1, dist.UnknownState)
	assert.Equal(t, 2, dist.ByState.Total(), "unknown state stays out of the state table")

	monthly, err := AnalyzeMonthly(ctx, sourceOf(sampleRecords()...))
	require.NoError(t, err)
	assert.Equal(t, 1, monthly.Skipped, "unknown state still reaches date-based engines")

	overlap, err := AnalyzeOverlap(ctx, sourceOf(sampleRecords()...), 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, overlap.Shared)

	updates, err := AnalyzeUpdate(ctx, sourceOf(sampleRecords()...))
	require.NoError(t, err)
	assert.Equal(t, schema.UpdateDurations{1: 7200}, updates)
}
