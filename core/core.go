// Package core orchestrates a run: load raw records, run one metric engine,
// then hand a non-empty result to the chart adapter.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/issuelens/core/engine"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/sirupsen/logrus"
)

// ExecutorFunc defines the function signature for executing one metric.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.IssueSource, adapter contract.ChartAdapter) error

// ExecuteLabels counts label occurrences and renders the tally.
func ExecuteLabels(ctx context.Context, cfg *contract.Config, src contract.IssueSource, adapter contract.ChartAdapter) error {
	tally, err := AnalyzeLabels(ctx, src)
	if err != nil {
		return err
	}
	if tally.Empty() {
		nothingToReport(src, "labels")
		return nil
	}
	return adapter.RenderLabels(tally)
}

// ExecuteDistribution buckets issues by state, year and size and renders the tables.
func ExecuteDistribution(ctx context.Context, cfg *contract.Config, src contract.IssueSource, adapter contract.ChartAdapter) error {
	result, err := AnalyzeDistribution(ctx, src)
	if err != nil {
		return err
	}
	if result.UnknownState > 0 {
		contract.Logger().WithFields(logrus.Fields{
			"source": src.Describe(),
			"issues": result.UnknownState,
		}).Warn("Issues with unknown state left out of state tables")
	}
	if result.Empty() {
		nothingToReport(src, "distribution")
		return nil
	}
	return adapter.RenderDistribution(result)
}

// ExecuteResponseTime measures time to first comment and renders the summary.
func ExecuteResponseTime(ctx context.Context, cfg *contract.Config, src contract.IssueSource, adapter contract.ChartAdapter) error {
	result, err := AnalyzeResponseTime(ctx, src, engine.ResponseOptions{Chronological: cfg.Chronological})
	if err != nil {
		return err
	}
	contract.LogInfo("Response time skips", logrus.Fields{
		"source":        src.Describe(),
		"negative":      result.Negative,
		"no_events":     result.NoEvents,
		"invalid_dates": result.InvalidDates,
		"out_of_range":  result.OutOfRange,
	})
	if result.Empty() {
		nothingToReport(src, "response")
		return nil
	}
	return adapter.RenderResponseTime(result)
}

// ExecuteUpdate measures creation-to-update seconds per issue and renders them.
func ExecuteUpdate(ctx context.Context, cfg *contract.Config, src contract.IssueSource, adapter contract.ChartAdapter) error {
	durations, err := AnalyzeUpdate(ctx, src)
	if err != nil {
		return err
	}
	if durations.Empty() {
		nothingToReport(src, "update")
		return nil
	}
	return adapter.RenderUpdates(durations)
}

// ExecuteOverlap compares top creators with top commenters and renders both rankings.
func ExecuteOverlap(ctx context.Context, cfg *contract.Config, src contract.IssueSource, adapter contract.ChartAdapter) error {
	result, err := AnalyzeOverlap(ctx, src, cfg.ResultLimit)
	if err != nil {
		return err
	}
	if !result.Comparable() {
		nothingToReport(src, "overlap")
		return nil
	}
	return adapter.RenderOverlap(result)
}

// ExecuteMonthly counts issues created per calendar month and renders the series.
func ExecuteMonthly(ctx context.Context, cfg *contract.Config, src contract.IssueSource, adapter contract.ChartAdapter) error {
	result, err := AnalyzeMonthly(ctx, src)
	if err != nil {
		return err
	}
	if result.Empty() {
		nothingToReport(src, "monthly")
		return nil
	}
	return adapter.RenderMonthly(result)
}

// AnalyzeLabels loads src and returns its label tally.
func AnalyzeLabels(ctx context.Context, src contract.IssueSource) (*schema.LabelTally, error) {
	records, err := loadRecords(ctx, src)
	if err != nil {
		return nil, err
	}
	return engine.LabelFrequencyRaw(records)
}

// AnalyzeDistribution loads src and returns its state, year and size distribution.
func AnalyzeDistribution(ctx context.Context, src contract.IssueSource) (*schema.DistributionResult, error) {
	issues, err := loadIssues(ctx, src)
	if err != nil {
		return nil, err
	}
	return engine.Distribution(issues), nil
}

// AnalyzeResponseTime loads src and returns its response time result.
func AnalyzeResponseTime(ctx context.Context, src contract.IssueSource, opts engine.ResponseOptions) (*schema.ResponseTimeResult, error) {
	issues, err := loadIssues(ctx, src)
	if err != nil {
		return nil, err
	}
	return engine.ResponseTime(issues, opts), nil
}

// AnalyzeUpdate loads src and returns the update durations per issue number.
func AnalyzeUpdate(ctx context.Context, src contract.IssueSource) (schema.UpdateDurations, error) {
	records, err := loadRecords(ctx, src)
	if err != nil {
		return nil, err
	}
	return engine.TimeToUpdate(records), nil
}

// AnalyzeOverlap loads src and returns the creator and commenter overlap for the top n.
// A non-positive n uses engine.DefaultTopN.
func AnalyzeOverlap(ctx context.Context, src contract.IssueSource, n int) (*schema.OverlapResult, error) {
	issues, err := loadIssues(ctx, src)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = engine.DefaultTopN
	}
	return engine.Overlap(issues, n), nil
}

// AnalyzeMonthly loads src and returns issue counts per creation month.
func AnalyzeMonthly(ctx context.Context, src contract.IssueSource) (*schema.MonthlyCreation, error) {
	issues, err := loadIssues(ctx, src)
	if err != nil {
		return nil, err
	}
	return engine.MonthlyCreation(issues), nil
}

func loadRecords(ctx context.Context, src contract.IssueSource) ([]schema.RawRecord, error) {
	records, err := src.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src.Describe(), err)
	}
	contract.LogInfo("Loaded records", logrus.Fields{"source": src.Describe(), "records": len(records)})
	return records, nil
}

// loadIssues builds the record model. Records that fail alone are logged and skipped;
// a shape error fails the run.
func loadIssues(ctx context.Context, src contract.IssueSource) ([]schema.Issue, error) {
	records, err := loadRecords(ctx, src)
	if err != nil {
		return nil, err
	}
	issues, skipped, err := schema.NewIssues(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Describe(), err)
	}
	contract.LogSkipped(src.Describe(), skipped)
	return issues, nil
}

func nothingToReport(src contract.IssueSource, metric string) {
	contract.Logger().WithFields(logrus.Fields{"source": src.Describe(), "metric": metric}).Warn("Nothing to report")
}
