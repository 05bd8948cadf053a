package engine

import (
	"math"
	"time"

	"github.com/huangsam/issuelens/core/algo"
	"github.com/huangsam/issuelens/schema"
)

// ResponseOptions controls how the first response is chosen.
type ResponseOptions struct {
	// Chronological picks the earliest dated event instead of the first one in list order.
	Chronological bool
}

// ResponseTime measures, per issue, the time from creation to the first event.
//
// Issues without events are excluded, as are issues whose created_date or chosen
// event date is unusable. Spans that do not fit a time.Duration (about 292 years)
// are excluded and counted in OutOfRange. Negative durations are kept and counted.
// The summary is nil when no issue qualifies.
func ResponseTime(issues []schema.Issue, opts ResponseOptions) *schema.ResponseTimeResult {
	result := &schema.ResponseTimeResult{}
	durations := make([]time.Duration, 0, len(issues))

	for _, issue := range issues {
		if len(issue.Events) == 0 {
			result.NoEvents++
			continue
		}
		if !issue.CreatedDate.Valid {
			result.InvalidDates++
			continue
		}
		first, ok := firstResponse(issue.Events, opts.Chronological)
		if !ok {
			result.InvalidDates++
			continue
		}

		d, ok := span(issue.CreatedDate.Time, first)
		if !ok {
			result.OutOfRange++
			continue
		}
		if d < 0 {
			result.Negative++
		}
		result.Durations = append(result.Durations, schema.IssueDuration{Number: issue.Number, Duration: d})
		durations = append(durations, d)
	}

	result.Summary = algo.Summarize(durations)
	return result
}

// span returns b-a, or false when the difference saturates time.Duration.
func span(a, b time.Time) (time.Duration, bool) {
	d := b.Sub(a)
	if d == math.MaxInt64 || d == math.MinInt64 {
		return 0, false
	}
	return d, true
}

// firstResponse returns the date of the event treated as the first response.
func firstResponse(events []schema.Event, chronological bool) (time.Time, bool) {
	if !chronological {
		first := events[0].EventDate
		return first.Time, first.Valid
	}
	var earliest time.Time
	found := false
	for _, e := range events {
		if !e.EventDate.Valid {
			continue
		}
		if !found || e.EventDate.Time.Before(earliest) {
			earliest = e.EventDate.Time
			found = true
		}
	}
	return earliest, found
}
