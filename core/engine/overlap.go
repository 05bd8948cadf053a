package engine

import (
	"github.com/huangsam/issuelens/core/algo"
	"github.com/huangsam/issuelens/schema"
)

// Overlap tallies issue creators and comment authors and ranks the top n of each.
// Null creators and null comment authors are never tallied. Rankings and the
// shared list are only filled when both populations are non-empty.
func Overlap(issues []schema.Issue, n int) *schema.OverlapResult {
	if n <= 0 {
		n = DefaultTopN
	}
	result := &schema.OverlapResult{}
	for _, issue := range issues {
		if issue.Creator != nil {
			result.Creators.Add(*issue.Creator)
		}
		for _, event := range issue.Events {
			if event.EventType == schema.EventCommented && event.Author != nil {
				result.Commenters.Add(*event.Author)
			}
		}
	}
	if !result.Comparable() {
		return result
	}

	result.TopCreators = algo.TopN(&result.Creators, n)
	result.TopCommenters = algo.TopN(&result.Commenters, n)
	result.Shared = algo.SharedKeys(result.TopCreators, result.TopCommenters)
	return result
}
