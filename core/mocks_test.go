package core

import (
	"context"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/mock"
)

type mockSource struct {
	mock.Mock
}

var _ contract.IssueSource = &mockSource{}

func (m *mockSource) LoadRecords(ctx context.Context) ([]schema.RawRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.RawRecord)
	return records, args.Error(1)
}

func (m *mockSource) Describe() string {
	return "mock"
}

func sourceOf(records ...schema.RawRecord) *mockSource {
	src := &mockSource{}
	src.On("LoadRecords", mock.Anything).Return(records, nil)
	return src
}

type mockAdapter struct {
	mock.Mock
}

var _ contract.ChartAdapter = &mockAdapter{}

func (m *mockAdapter) RenderLabels(tally *schema.LabelTally) error {
	return m.Called(tally).Error(0)
}

func (m *mockAdapter) RenderDistribution(result *schema.DistributionResult) error {
	return m.Called(result).Error(0)
}

func (m *mockAdapter) RenderResponseTime(result *schema.ResponseTimeResult) error {
	return m.Called(result).Error(0)
}

func (m *mockAdapter) RenderUpdates(durations schema.UpdateDurations) error {
	return m.Called(durations).Error(0)
}

func (m *mockAdapter) RenderOverlap(result *schema.OverlapResult) error {
	return m.Called(result).Error(0)
}

func (m *mockAdapter) RenderMonthly(result *schema.MonthlyCreation) error {
	return m.Called(result).Error(0)
}
