// Package parquet imports and exports issue collections as Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/issuelens/schema"
	"github.com/parquet-go/parquet-go"
)

// IssueRow is one issue in a Parquet file.
type IssueRow struct {
	// Repo is the owner/name the issue belongs to
	Repo string `parquet:"repo,snappy"`

	// Number is the issue number
	Number int64 `parquet:"number,snappy"`

	Title string `parquet:"title,snappy"`
	URL   string `parquet:"url,snappy"`

	// State is the raw state string (nullable)
	State *string `parquet:"state,optional,snappy"`

	// Creator is the login of the author (nullable)
	Creator *string `parquet:"creator,optional,snappy"`

	// CreatedDate and UpdatedDate keep the raw timestamp text (nullable)
	CreatedDate *string `parquet:"created_date,optional,snappy"`
	UpdatedDate *string `parquet:"updated_date,optional,snappy"`

	// Labels contains the JSON-encoded labels value (nullable)
	Labels *string `parquet:"labels,optional,snappy"`

	// Events contains the JSON-encoded event list (nullable)
	Events *string `parquet:"events,optional,snappy"`
}

// eventJSON is the JSON shape of one event inside IssueRow.Events.
type eventJSON struct {
	EventType *string          `json:"event_type,omitempty"`
	Author    *string          `json:"author,omitempty"`
	EventDate *string          `json:"event_date,omitempty"`
	Label     *json.RawMessage `json:"label,omitempty"`
	Comment   *string          `json:"comment,omitempty"`
}

// ConvertIssueRows converts schema.IssueRow values to IssueRow for Parquet export.
func ConvertIssueRows(rows []schema.IssueRow) ([]IssueRow, error) {
	result := make([]IssueRow, len(rows))
	for i, row := range rows {
		out := IssueRow{
			Repo:        row.Repo,
			Number:      int64(row.Number),
			Title:       row.Title,
			URL:         row.URL,
			State:       row.State,
			Creator:     row.Creator,
			CreatedDate: row.CreatedDate,
			UpdatedDate: row.UpdatedDate,
			Labels:      row.LabelsJSON,
		}
		if len(row.Events) > 0 {
			events := make([]eventJSON, len(row.Events))
			for j, e := range row.Events {
				events[j] = eventJSON{EventType: e.EventType, Author: e.Author, EventDate: e.EventDate, Comment: e.Comment}
				if e.LabelJSON != nil {
					msg := json.RawMessage(*e.LabelJSON)
					events[j].Label = &msg
				}
			}
			data, err := json.Marshal(events)
			if err != nil {
				return nil, fmt.Errorf("issue #%d events: %w", row.Number, err)
			}
			s := string(data)
			out.Events = &s
		}
		result[i] = out
	}
	return result, nil
}

// ToIssueRow converts a Parquet row back to a schema.IssueRow.
func (r IssueRow) ToIssueRow() (schema.IssueRow, error) {
	row := schema.IssueRow{
		Repo:        r.Repo,
		Number:      int(r.Number),
		Title:       r.Title,
		URL:         r.URL,
		State:       r.State,
		Creator:     r.Creator,
		CreatedDate: r.CreatedDate,
		UpdatedDate: r.UpdatedDate,
		LabelsJSON:  r.Labels,
	}
	if r.Events == nil {
		return row, nil
	}
	var events []eventJSON
	if err := json.Unmarshal([]byte(*r.Events), &events); err != nil {
		return schema.IssueRow{}, fmt.Errorf("issue #%d events: %w", r.Number, err)
	}
	for i, e := range events {
		er := schema.EventRow{Seq: i, EventType: e.EventType, Author: e.Author, EventDate: e.EventDate, Comment: e.Comment}
		if e.Label != nil {
			s := string(*e.Label)
			er.LabelJSON = &s
		}
		row.Events = append(row.Events, er)
	}
	return row, nil
}

// WriteIssuesParquet writes raw records of repo to a Parquet file.
func WriteIssuesParquet(repo string, records []schema.RawRecord, outputPath string) error {
	rows := make([]schema.IssueRow, 0, len(records))
	for _, record := range records {
		row, err := schema.FlattenRecord(repo, record)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	data, err := ConvertIssueRows(rows)
	if err != nil {
		return err
	}

	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the IssueRow struct tags
	writer := parquet.NewGenericWriter[IssueRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadIssuesParquet reads every row of a Parquet file written by WriteIssuesParquet
// and returns the raw records in file order.
func ReadIssuesParquet(inputPath string) ([]schema.RawRecord, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[IssueRow](file)
	defer func() { _ = reader.Close() }()

	rows := make([]IssueRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}

	records := make([]schema.RawRecord, 0, n)
	for _, r := range rows[:n] {
		row, err := r.ToIssueRow()
		if err != nil {
			return nil, err
		}
		record, err := row.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
