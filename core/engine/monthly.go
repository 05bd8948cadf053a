package engine

import (
	"strings"

	"github.com/huangsam/issuelens/schema"
)

// monthLayout is the bucket key format for MonthlyCreation.
const monthLayout = "2006-01"

// MonthlyCreation counts issues per calendar month of created_date. Issues with an
// absent or unparsable date are counted as skipped.
func MonthlyCreation(issues []schema.Issue) *schema.MonthlyCreation {
	result := &schema.MonthlyCreation{}
	for _, issue := range issues {
		if !issue.CreatedDate.Valid {
			result.Skipped++
			continue
		}
		result.Months.Add(issue.CreatedDate.Time.Format(monthLayout))
	}
	result.Months.SortKeys(strings.Compare)
	return result
}
