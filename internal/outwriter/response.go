package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

// responseJSON is the JSON shape of a response time result.
type responseJSON struct {
	Unit         schema.DurationUnit `json:"unit"`
	Count        int                 `json:"count"`
	Mean         int64               `json:"mean"`
	Min          int64               `json:"min"`
	Max          int64               `json:"max"`
	Issues       []issueDurationJSON `json:"issues"`
	Negative     int                 `json:"negative"`
	NoEvents     int                 `json:"no_events"`
	InvalidDates int                 `json:"invalid_dates"`
	OutOfRange   int                 `json:"out_of_range"`
}

type issueDurationJSON struct {
	Number  int   `json:"number"`
	Seconds int64 `json:"seconds"`
	Days    int64 `json:"days"`
}

// inUnit converts d into whole units for display.
func inUnit(d time.Duration, unit schema.DurationUnit) int64 {
	if unit == schema.UnitSeconds {
		return schema.WholeSeconds(d)
	}
	return schema.WholeDays(d)
}

func responseChart(result *schema.ResponseTimeResult, cfg *contract.Config) chart {
	issues := make([]issueDurationJSON, 0, len(result.Durations))
	csvRows := make([][]string, 0, len(result.Durations))
	for _, d := range result.Durations {
		entry := issueDurationJSON{
			Number:  d.Number,
			Seconds: schema.WholeSeconds(d.Duration),
			Days:    schema.WholeDays(d.Duration),
		}
		issues = append(issues, entry)
		csvRows = append(csvRows, []string{
			strconv.Itoa(entry.Number),
			strconv.FormatInt(entry.Seconds, 10),
			strconv.FormatInt(entry.Days, 10),
		})
	}

	out := responseJSON{
		Unit:         cfg.Unit,
		Issues:       issues,
		Negative:     result.Negative,
		NoEvents:     result.NoEvents,
		InvalidDates: result.InvalidDates,
		OutOfRange:   result.OutOfRange,
	}
	if s := result.Summary; s != nil {
		out.Count = s.Count
		out.Mean = inUnit(s.Mean, cfg.Unit)
		out.Min = inUnit(s.Min, cfg.Unit)
		out.Max = inUnit(s.Max, cfg.Unit)
	}

	return chart{
		name:      "response time",
		jsonValue: out,
		csvHeader: []string{"number", "seconds", "days"},
		csvRows:   csvRows,
		text: func(w io.Writer) error {
			return writeResponseText(w, out, cfg)
		},
	}
}

func writeResponseText(w io.Writer, out responseJSON, cfg *contract.Config) error {
	if err := writeTitle(w, fmt.Sprintf("First response time (%s)", out.Unit)); err != nil {
		return err
	}
	summary := [][]string{{
		strconv.Itoa(out.Count),
		strconv.FormatInt(out.Mean, 10),
		strconv.FormatInt(out.Min, 10),
		strconv.FormatInt(out.Max, 10),
	}}
	if err := writeTable(w, []string{"Count", "Mean", "Min", "Max"}, summary, 0); err != nil {
		return err
	}

	shown := out.Issues[:min(len(out.Issues), cfg.ResultLimit)]
	rows := make([][]string, 0, len(shown))
	for _, d := range shown {
		value := d.Days
		if out.Unit == schema.UnitSeconds {
			value = d.Seconds
		}
		rows = append(rows, []string{strconv.Itoa(d.Number), strconv.FormatInt(value, 10)})
	}
	if len(rows) > 0 {
		if err := writeTitle(w, fmt.Sprintf("Per issue (first %d of %d)", len(shown), len(out.Issues))); err != nil {
			return err
		}
		if err := writeTable(w, []string{"Issue", string(out.Unit)}, rows, 0); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Negative: %d; skipped: %d without response, %d invalid dates, %d out of range\n",
		out.Negative, out.NoEvents, out.InvalidDates, out.OutOfRange)
	return err
}
