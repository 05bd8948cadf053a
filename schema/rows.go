package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// IssueRow is the flat storage form of a raw record, shared by the issue store and
// the Parquet codec. Text fields keep the raw values so that unparsable dates and
// malformed labels behave the same after a round trip.
type IssueRow struct {
	Repo        string
	Number      int
	Title       string
	URL         string
	State       *string
	Creator     *string
	CreatedDate *string
	UpdatedDate *string
	LabelsJSON  *string // JSON-encoded labels value
	Events      []EventRow
}

// EventRow is the flat storage form of one event.
type EventRow struct {
	Seq       int // Position in the issue's event list
	EventType *string
	Author    *string
	EventDate *string
	LabelJSON *string // JSON-encoded label token
	Comment   *string
}

// FlattenRecord converts a raw record into an IssueRow for repo.
func FlattenRecord(repo string, raw RawRecord) (IssueRow, error) {
	number, err := RecordNumber(raw)
	if err != nil {
		return IssueRow{}, err
	}
	row := IssueRow{Repo: repo, Number: number}
	row.Title, _ = raw[KeyTitle].(string)
	row.URL, _ = raw[KeyURL].(string)

	if row.State, err = optionalString(raw, KeyState); err != nil {
		return IssueRow{}, withNumber(err, number)
	}
	if row.Creator, err = optionalString(raw, KeyCreator); err != nil {
		return IssueRow{}, withNumber(err, number)
	}
	row.CreatedDate = rawText(raw[KeyCreatedDate])
	row.UpdatedDate = rawText(raw[KeyUpdatedDate])
	if row.LabelsJSON, err = jsonText(raw[KeyLabels]); err != nil {
		return IssueRow{}, fmt.Errorf("issue #%d labels: %w", number, err)
	}

	events, err := eventMaps(raw[KeyEvents])
	if err != nil {
		return IssueRow{}, withNumber(err, number)
	}
	for i, event := range events {
		er := EventRow{Seq: i, EventDate: rawText(event[KeyEventDate])}
		if er.EventType, err = optionalString(event, KeyEventType); err != nil {
			return IssueRow{}, withNumber(err, number)
		}
		if er.Author, err = optionalString(event, KeyAuthor); err != nil {
			return IssueRow{}, withNumber(err, number)
		}
		if er.Comment, err = optionalString(event, KeyComment); err != nil {
			return IssueRow{}, withNumber(err, number)
		}
		if label, ok := event[KeyLabel]; ok {
			if er.LabelJSON, err = jsonText(label); err != nil {
				return IssueRow{}, fmt.Errorf("issue #%d events[%d] label: %w", number, i, err)
			}
		}
		row.Events = append(row.Events, er)
	}
	return row, nil
}

// Record converts the row back into a raw record. Null columns become absent keys.
func (r IssueRow) Record() (RawRecord, error) {
	raw := RawRecord{KeyNumber: r.Number}
	if r.Title != "" {
		raw[KeyTitle] = r.Title
	}
	if r.URL != "" {
		raw[KeyURL] = r.URL
	}
	putString(raw, KeyState, r.State)
	putString(raw, KeyCreator, r.Creator)
	putString(raw, KeyCreatedDate, r.CreatedDate)
	putString(raw, KeyUpdatedDate, r.UpdatedDate)
	if r.LabelsJSON != nil {
		labels, err := decodeJSONText(*r.LabelsJSON)
		if err != nil {
			return nil, fmt.Errorf("issue #%d labels: %w", r.Number, err)
		}
		raw[KeyLabels] = labels
	}

	events := make([]any, 0, len(r.Events))
	for _, er := range r.Events {
		event := map[string]any{}
		putString(event, KeyEventType, er.EventType)
		putString(event, KeyAuthor, er.Author)
		putString(event, KeyEventDate, er.EventDate)
		putString(event, KeyComment, er.Comment)
		if er.LabelJSON != nil {
			label, err := decodeJSONText(*er.LabelJSON)
			if err != nil {
				return nil, fmt.Errorf("issue #%d event %d label: %w", r.Number, er.Seq, err)
			}
			event[KeyLabel] = label
		}
		events = append(events, event)
	}
	raw[KeyEvents] = events
	return raw, nil
}

// eventMaps returns the events of a raw record as maps, or a shape error.
func eventMaps(v any) ([]RawRecord, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case []RawRecord:
		return tv, nil
	case []any:
		out := make([]RawRecord, len(tv))
		for i, elem := range tv {
			m, ok := elem.(map[string]any)
			if !ok {
				return nil, &ShapeError{Field: fmt.Sprintf("events[%d]", i), Got: typeName(elem), Want: "an object"}
			}
			out[i] = m
		}
		return out, nil
	default:
		return nil, &ShapeError{Field: KeyEvents, Got: typeName(v), Want: "an array of events"}
	}
}

// rawText keeps a date field as text without validating it.
func rawText(v any) *string {
	var s string
	switch tv := v.(type) {
	case nil:
		return nil
	case string:
		s = tv
	case time.Time:
		s = CanonicalTimestamp(tv)
	default:
		s = fmt.Sprint(tv)
	}
	return &s
}

func jsonText(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

// decodeJSONText decodes with json.Number so integer labels keep their kind.
func decodeJSONText(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func putString(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}
