package engine

import (
	"cmp"
	"slices"

	"github.com/huangsam/issuelens/schema"
)

// Distribution groups issues by state, creation year and label-set size, plus the
// joint state tables used for co-occurrence charts.
//
// Issues without a state, or with a state outside open and closed, still count toward
// year and size. Issues whose created_date is absent or unparsable are left out of the
// year tables only.
func Distribution(issues []schema.Issue) *schema.DistributionResult {
	result := &schema.DistributionResult{Total: len(issues)}
	for _, issue := range issues {
		size := schema.SizeBucketOf(len(issue.Labels))
		result.BySize.Add(size)

		hasState := false
		switch issue.State {
		case schema.StateUnset:
			result.NoState++
		case schema.StateUnknown:
			result.UnknownState++
		default:
			hasState = true
			result.ByState.Add(issue.State)
			result.StateBySize.Add(schema.StateSize{State: issue.State, Size: size})
		}

		if !issue.CreatedDate.Valid {
			result.NoYear++
			continue
		}
		year := issue.CreatedDate.Time.Year()
		result.ByYear.Add(year)
		if hasState {
			result.StateByYear.Add(schema.StateYear{State: issue.State, Year: year})
		}
	}

	result.ByState.SortKeys(compareState)
	result.ByYear.SortKeys(cmp.Compare[int])
	result.BySize.SortKeys(compareSize)
	result.StateByYear.SortKeys(func(a, b schema.StateYear) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), compareState(a.State, b.State))
	})
	result.StateBySize.SortKeys(func(a, b schema.StateSize) int {
		return cmp.Or(compareSize(a.Size, b.Size), compareState(a.State, b.State))
	})
	return result
}

func compareState(a, b schema.State) int {
	return cmp.Compare(slices.Index(schema.AllStates, a), slices.Index(schema.AllStates, b))
}

func compareSize(a, b schema.SizeBucket) int {
	return cmp.Compare(slices.Index(schema.AllSizeBuckets, a), slices.Index(schema.AllSizeBuckets, b))
}
