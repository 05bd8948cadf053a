package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

// Sections of the distribution CSV.
const (
	sectionState     = "state"
	sectionYear      = "year"
	sectionSize      = "size"
	sectionStateYear = "state_year"
	sectionStateSize = "state_size"
)

func distributionChart(result *schema.DistributionResult, cfg *contract.Config) chart {
	var rows [][]string
	for _, e := range result.ByState.Entries() {
		rows = append(rows, []string{sectionState, string(e.Key), string(e.Key), strconv.Itoa(e.Count)})
	}
	for _, e := range result.ByYear.Entries() {
		rows = append(rows, []string{sectionYear, strconv.Itoa(e.Key), "", strconv.Itoa(e.Count)})
	}
	for _, e := range result.BySize.Entries() {
		rows = append(rows, []string{sectionSize, string(e.Key), "", strconv.Itoa(e.Count)})
	}
	for _, e := range result.StateByYear.Entries() {
		rows = append(rows, []string{sectionStateYear, strconv.Itoa(e.Key.Year), string(e.Key.State), strconv.Itoa(e.Count)})
	}
	for _, e := range result.StateBySize.Entries() {
		rows = append(rows, []string{sectionStateSize, string(e.Key.Size), string(e.Key.State), strconv.Itoa(e.Count)})
	}

	return chart{
		name:      "distribution",
		jsonValue: result,
		csvHeader: []string{"section", "key", "state", "count"},
		csvRows:   rows,
		text: func(w io.Writer) error {
			return writeDistributionText(w, result, cfg)
		},
	}
}

// countRows turns tally entries into Key | Count | Share% | Bar rows.
func countRows[K comparable](entries []schema.Count[K], label func(K) string, total int, cfg *contract.Config) [][]string {
	fmtFloat, _ := createFormatters(cfg.Precision)
	maxCount := 0
	for _, e := range entries {
		maxCount = max(maxCount, e.Count)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		key := label(e.Key)
		rows = append(rows, []string{
			key,
			strconv.Itoa(e.Count),
			fmtFloat(percent(e.Count, total)),
			bar(key, e.Count, maxCount, barWidth(cfg)),
		})
	}
	return rows
}

func writeDistributionText(w io.Writer, result *schema.DistributionResult, cfg *contract.Config) error {
	headers := []string{"Group", "Count", "Share%", "Bar"}
	sections := []struct {
		title string
		rows  [][]string
	}{
		{"Issues by state", countRows(result.ByState.Entries(), func(s schema.State) string { return string(s) }, result.Total, cfg)},
		{"Issues by creation year", countRows(result.ByYear.Entries(), strconv.Itoa, result.Total, cfg)},
		{"Issues by label count", countRows(result.BySize.Entries(), func(s schema.SizeBucket) string { return string(s) }, result.Total, cfg)},
	}
	for _, s := range sections {
		if len(s.rows) == 0 {
			continue
		}
		if err := writeTitle(w, s.title); err != nil {
			return err
		}
		if err := writeTable(w, headers, s.rows, 1); err != nil {
			return err
		}
	}

	if err := writeStateYearTable(w, result); err != nil {
		return err
	}
	if err := writeStateSizeTable(w, result); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Total: %d  No state: %d  Unknown state: %d  No year: %d\n",
		result.Total, result.NoState, result.UnknownState, result.NoYear)
	return err
}

// writeStateYearTable prints one row per year with a column per state.
func writeStateYearTable(w io.Writer, result *schema.DistributionResult) error {
	if result.StateByYear.Empty() {
		return nil
	}
	headers := []string{"Year"}
	for _, s := range schema.AllStates {
		headers = append(headers, string(s))
	}
	rows := make([][]string, 0, result.ByYear.Len())
	for _, y := range result.ByYear.Entries() {
		row := []string{strconv.Itoa(y.Key)}
		for _, s := range schema.AllStates {
			row = append(row, strconv.Itoa(result.StateByYear.Get(schema.StateYear{State: s, Year: y.Key})))
		}
		rows = append(rows, row)
	}
	if err := writeTitle(w, "State by creation year"); err != nil {
		return err
	}
	return writeTable(w, headers, rows, 1)
}

// writeStateSizeTable prints one row per size bucket with a column per state.
func writeStateSizeTable(w io.Writer, result *schema.DistributionResult) error {
	if result.StateBySize.Empty() {
		return nil
	}
	headers := []string{"Labels"}
	for _, s := range schema.AllStates {
		headers = append(headers, string(s))
	}
	rows := make([][]string, 0, len(schema.AllSizeBuckets))
	for _, b := range schema.AllSizeBuckets {
		row := []string{string(b)}
		for _, s := range schema.AllStates {
			row = append(row, strconv.Itoa(result.StateBySize.Get(schema.StateSize{State: s, Size: b})))
		}
		rows = append(rows, row)
	}
	if err := writeTitle(w, "State by label count"); err != nil {
		return err
	}
	return writeTable(w, headers, rows, 1)
}
