package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

func monthlyChart(result *schema.MonthlyCreation, cfg *contract.Config) chart {
	entries := result.Months.Entries()
	csvRows := make([][]string, 0, len(entries))
	for _, e := range entries {
		csvRows = append(csvRows, []string{e.Key, strconv.Itoa(e.Count)})
	}

	return chart{
		name:      "monthly",
		jsonValue: result,
		csvHeader: []string{"month", "count"},
		csvRows:   csvRows,
		text: func(w io.Writer) error {
			maxCount := 0
			for _, e := range entries {
				maxCount = max(maxCount, e.Count)
			}
			bw := barWidth(cfg)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				// Single series color.
				rows = append(rows, []string{e.Key, strconv.Itoa(e.Count), bar("monthly", e.Count, maxCount, bw)})
			}
			if err := writeTitle(w, fmt.Sprintf("Issues created per month (%d total)", result.Months.Total())); err != nil {
				return err
			}
			if err := writeTable(w, []string{"Month", "Count", "Bar"}, rows, 1); err != nil {
				return err
			}
			if result.Skipped > 0 {
				_, err := fmt.Fprintf(w, "Skipped %d issues without a valid creation date\n", result.Skipped)
				return err
			}
			return nil
		},
	}
}
