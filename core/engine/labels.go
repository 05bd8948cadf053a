package engine

import (
	"fmt"

	"github.com/huangsam/issuelens/schema"
)

// LabelFrequency tallies every label occurrence across issues. Duplicates inside
// one issue's list count once each. Absent and null label lists contribute nothing.
func LabelFrequency(issues []schema.Issue) *schema.LabelTally {
	tally := &schema.LabelTally{}
	for _, issue := range issues {
		for _, label := range issue.Labels {
			tally.Add(label)
		}
	}
	return tally
}

// LabelFrequencyRaw tallies labels straight from raw records. The whole call fails
// with an error wrapping schema.ErrShape when any labels field is not an array or
// holds a composite element. No partial tally is returned on failure.
func LabelFrequencyRaw(records []schema.RawRecord) (*schema.LabelTally, error) {
	tally := &schema.LabelTally{}
	for i, record := range records {
		labels, err := schema.ParseLabels(record[schema.KeyLabels])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		for _, label := range labels {
			tally.Add(label)
		}
	}
	return tally, nil
}
