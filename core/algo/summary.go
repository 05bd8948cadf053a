package algo

import (
	"time"

	"github.com/huangsam/issuelens/schema"
)

// Summarize computes mean, min and max over durations. It returns nil for an empty
// input so that "no data" never looks like a zero duration.
//
// Each input must be a valid time.Duration. The mean is accumulated as whole seconds
// plus a nanosecond remainder, so the running sum may exceed the range of
// time.Duration without overflowing.
func Summarize(durations []time.Duration) *schema.DurationSummary {
	if len(durations) == 0 {
		return nil
	}

	summary := &schema.DurationSummary{
		Count: len(durations),
		Min:   durations[0],
		Max:   durations[0],
	}
	var sumSec, sumNano int64
	for _, d := range durations {
		summary.Min = min(summary.Min, d)
		summary.Max = max(summary.Max, d)
		sumSec += int64(d / time.Second)
		sumNano += int64(d % time.Second)
	}

	n := int64(len(durations))
	meanSec := sumSec / n
	meanNano := (sumSec%n*int64(time.Second) + sumNano) / n
	summary.Mean = time.Duration(meanSec)*time.Second + time.Duration(meanNano)
	return summary
}
