package cmd

import (
	"github.com/huangsam/issuelens/core"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/outwriter"
	"github.com/spf13/cobra"
)

// runMetric resolves the configured source and runs one metric against it.
func runMetric(name string, execute core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		src, err := core.NewSource(cfg, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot resolve issue source", err)
		}
		if err := execute(rootCtx, cfg, src, outwriter.NewOutWriter(cfg)); err != nil {
			contract.LogFatal("Cannot run "+name+" analysis", err)
		}
	}
}

// labelsCmd counts label usage.
var labelsCmd = &cobra.Command{
	Use:   "labels [source]",
	Short: "Count how often each label appears across issues.",
	Long: `Tally every label value across all issues in first-seen order.

Labels are compared by kind and value, so "bug" and "Bug" are different labels
and the number 1 is not the string "1". Issues without labels contribute nothing.

Examples:
  # Label usage from an exported JSON file
  issuelens labels issues.json

  # Straight from GitHub, top 25 as CSV
  issuelens labels --repo golang/go --limit 25 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runMetric("labels", core.ExecuteLabels),
}

// distributionCmd buckets issues by state, year and label count.
var distributionCmd = &cobra.Command{
	Use:   "distribution [source]",
	Short: "Count issues by state, creation year and label count.",
	Long: `Group issues by state (open/closed), creation year and label-set size
(0, 1-2, 3+), plus the state by year and state by size cross tables.

Issues without a state still count toward year and size. Issues without a usable
created_date are left out of the year tables.

Examples:
  issuelens distribution issues.parquet
  issuelens distribution --source store --repo octo/hello --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runMetric("distribution", core.ExecuteDistribution),
}

// responseCmd measures time to first response.
var responseCmd = &cobra.Command{
	Use:   "response [source]",
	Short: "Measure the time from issue creation to its first event.",
	Long: `Measure, per issue, the time between created_date and its first event, then
report the mean, minimum and maximum.

By default the first event is the first one listed. Use --chronological to pick
the earliest dated event instead. Issues without events or with unusable dates are
skipped and counted. Whole days round toward negative infinity.

Examples:
  issuelens response issues.json
  issuelens response issues.json --unit seconds --chronological`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runMetric("response", core.ExecuteResponseTime),
}

// updateCmd measures creation to last update.
var updateCmd = &cobra.Command{
	Use:   "update [source]",
	Short: "Seconds between creation and last update for each issue.",
	Long: `Compute the whole seconds between created_date and updated_date for every
issue that has both. A later record with the same number replaces an earlier one.

Examples:
  issuelens update issues.json --output csv --output-file updates.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runMetric("update", core.ExecuteUpdate),
}

// overlapCmd compares creators with commenters.
var overlapCmd = &cobra.Command{
	Use:   "overlap [source]",
	Short: "Compare the top issue creators with the top commenters.",
	Long: `Rank issue creators and comment authors, keep the top --limit of each and
list the logins present in both rankings. Ties keep first-seen order.

Examples:
  issuelens overlap issues.json --limit 5`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runMetric("overlap", core.ExecuteOverlap),
}

// monthlyCmd counts issues per creation month.
var monthlyCmd = &cobra.Command{
	Use:   "monthly [source]",
	Short: "Count issues created per month.",
	Long: `Count issues per calendar month (YYYY-MM) of created_date. Issues without a
usable created_date are counted as skipped.

Examples:
  issuelens monthly --repo octo/hello`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runMetric("monthly", core.ExecuteMonthly),
}
