package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

type updateJSON struct {
	Number  int   `json:"number"`
	Seconds int64 `json:"seconds"`
}

func updatesChart(durations schema.UpdateDurations, cfg *contract.Config) chart {
	numbers := durations.Numbers()
	entries := make([]updateJSON, 0, len(numbers))
	csvRows := make([][]string, 0, len(numbers))
	for _, n := range numbers {
		entries = append(entries, updateJSON{Number: n, Seconds: durations[n]})
		csvRows = append(csvRows, []string{strconv.Itoa(n), strconv.FormatInt(durations[n], 10)})
	}

	return chart{
		name:      "time to update",
		jsonValue: entries,
		csvHeader: []string{"number", "seconds"},
		csvRows:   csvRows,
		text: func(w io.Writer) error {
			shown := entries[:min(len(entries), cfg.ResultLimit)]
			rows := make([][]string, 0, len(shown))
			for _, e := range shown {
				rows = append(rows, []string{
					strconv.Itoa(e.Number),
					strconv.FormatInt(e.Seconds, 10),
					strconv.FormatInt(e.Seconds/86400, 10),
				})
			}
			if err := writeTitle(w, fmt.Sprintf("Time to last update (first %d of %d issues)", len(shown), len(entries))); err != nil {
				return err
			}
			return writeTable(w, []string{"Issue", "Seconds", "Days"}, rows, 0)
		},
	}
}
