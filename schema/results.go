package schema

import (
	"slices"
	"time"
)

// LabelTally maps each label token to its occurrence count in first-seen order.
type LabelTally = Tally[LabelToken]

// StateYear is one cell of the state by creation year table.
type StateYear struct {
	State State `json:"state"`
	Year  int   `json:"year"`
}

// StateSize is one cell of the state by label-set size table.
type StateSize struct {
	State State      `json:"state"`
	Size  SizeBucket `json:"size"`
}

// DistributionResult holds the per-group issue counts used for comparative charts.
type DistributionResult struct {
	Total       int               `json:"total"`
	ByState     Tally[State]      `json:"by_state"`
	ByYear      Tally[int]        `json:"by_year"`
	BySize      Tally[SizeBucket] `json:"by_size"`
	StateByYear Tally[StateYear]  `json:"state_by_year"`
	StateBySize Tally[StateSize]  `json:"state_by_size"`
	NoState      int               `json:"no_state"`
	UnknownState int               `json:"unknown_state"`
	NoYear      int               `json:"no_year"`
}

// Empty reports whether there is nothing to chart.
func (r *DistributionResult) Empty() bool {
	return r == nil || r.Total == 0
}

// IssueDuration is the response time of a single issue.
type IssueDuration struct {
	Number   int           `json:"number"`
	Duration time.Duration `json:"duration_ns"`
}

// DurationSummary is the mean, min and max over a non-empty set of durations.
type DurationSummary struct {
	Count int           `json:"count"`
	Mean  time.Duration `json:"mean_ns"`
	Min   time.Duration `json:"min_ns"`
	Max   time.Duration `json:"max_ns"`
}

// ResponseTimeResult holds per-issue response times and their summary.
// Summary is nil when no issue was eligible.
type ResponseTimeResult struct {
	Durations    []IssueDuration  `json:"durations"`
	Summary      *DurationSummary `json:"summary"`
	Negative     int              `json:"negative"`
	NoEvents     int              `json:"no_events"`
	InvalidDates int              `json:"invalid_dates"`
	OutOfRange   int              `json:"out_of_range"`
}

// Empty reports whether there is no data to summarize.
func (r *ResponseTimeResult) Empty() bool {
	return r == nil || r.Summary == nil
}

// UpdateDurations maps issue number to seconds between creation and last update.
type UpdateDurations map[int]int64

// Empty reports whether no issue produced a duration.
func (u UpdateDurations) Empty() bool {
	return len(u) == 0
}

// Numbers returns the issue numbers in ascending order.
func (u UpdateDurations) Numbers() []int {
	numbers := make([]int, 0, len(u))
	for n := range u {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)
	return numbers
}

// OverlapResult compares issue creators with commenters.
type OverlapResult struct {
	Creators      Tally[string]   `json:"creators"`
	Commenters    Tally[string]   `json:"commenters"`
	TopCreators   []Count[string] `json:"top_creators"`
	TopCommenters []Count[string] `json:"top_commenters"`
	Shared        []string        `json:"shared"`
}

// Comparable reports whether both populations are non-empty.
func (r *OverlapResult) Comparable() bool {
	return r != nil && !r.Creators.Empty() && !r.Commenters.Empty()
}

// Empty reports whether the comparison has nothing to show.
func (r *OverlapResult) Empty() bool {
	return !r.Comparable()
}

// MonthlyCreation counts issues per creation month, keyed "YYYY-MM" in ascending order.
type MonthlyCreation struct {
	Months  Tally[string] `json:"months"`
	Skipped int           `json:"skipped"`
}

// Empty reports whether no month received a count.
func (r *MonthlyCreation) Empty() bool {
	return r == nil || r.Months.Empty()
}

// WholeDays converts d into whole days, rounding toward negative infinity so that
// a duration of -1h counts as -1 day.
func WholeDays(d time.Duration) int64 {
	const day = 24 * time.Hour
	days := int64(d / day)
	if d%day < 0 {
		days--
	}
	return days
}

// WholeSeconds converts d into whole seconds, truncating sub-second precision.
func WholeSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
