package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// RawRecord is the pre-model shape of one issue as produced by a loader.
// Keys: number, creator, created_date, updated_date, labels, state, events, title, url.
type RawRecord = map[string]any

// Raw record keys.
const (
	KeyNumber      = "number"
	KeyCreator     = "creator"
	KeyCreatedDate = "created_date"
	KeyUpdatedDate = "updated_date"
	KeyLabels      = "labels"
	KeyState       = "state"
	KeyEvents      = "events"
	KeyTitle       = "title"
	KeyURL         = "url"

	KeyEventType = "event_type"
	KeyAuthor    = "author"
	KeyEventDate = "event_date"
	KeyLabel     = "label"
	KeyComment   = "comment"
)

// Event is a timestamped action recorded against an issue.
type Event struct {
	EventType string
	Author    *string
	EventDate Timestamp
	Label     *LabelToken
	Comment   string
}

// Issue is an immutable issue record. Engines only read it.
type Issue struct {
	Number      int
	Creator     *string
	CreatedDate Timestamp
	UpdatedDate Timestamp
	Labels      []LabelToken
	State       State
	RawState    string // Original text when State is StateUnknown
	Events      []Event
	Title       string
	URL         string
}

// NewIssue builds an Issue from a raw record.
// A *ShapeError means the caller passed structurally wrong data and the batch should stop.
// A *RecordError means only this record is unusable. A state outside the closed set is
// kept as StateUnknown so that only state-based aggregates leave the issue out.
func NewIssue(raw RawRecord) (Issue, error) {
	number, err := RecordNumber(raw)
	if err != nil {
		return Issue{}, err
	}

	issue := Issue{
		Number:      number,
		CreatedDate: TimestampField(raw, KeyCreatedDate),
		UpdatedDate: TimestampField(raw, KeyUpdatedDate),
	}

	if issue.Creator, err = optionalString(raw, KeyCreator); err != nil {
		return Issue{}, withNumber(err, number)
	}
	if issue.Labels, err = ParseLabels(raw[KeyLabels]); err != nil {
		return Issue{}, withNumber(err, number)
	}
	if issue.Events, err = parseEvents(raw[KeyEvents]); err != nil {
		return Issue{}, withNumber(err, number)
	}

	stateValue, err := optionalString(raw, KeyState)
	if err != nil {
		return Issue{}, withNumber(err, number)
	}
	if stateValue != nil {
		state, ok := ParseState(*stateValue)
		if !ok {
			state = StateUnknown
			issue.RawState = *stateValue
		}
		issue.State = state
	}

	if title, _ := raw[KeyTitle].(string); title != "" {
		issue.Title = title
	}
	if url, _ := raw[KeyURL].(string); url != "" {
		issue.URL = url
	}
	return issue, nil
}

// NewIssues builds a collection. Records failing with a *RecordError are skipped and
// returned in skipped. The first shape error aborts the whole batch.
func NewIssues(raws []RawRecord) (issues []Issue, skipped []error, err error) {
	issues = make([]Issue, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			return nil, nil, &ShapeError{Field: fmt.Sprintf("records[%d]", i), Got: "null", Want: "an object"}
		}
		issue, buildErr := NewIssue(raw)
		if buildErr == nil {
			issues = append(issues, issue)
			continue
		}
		if errors.Is(buildErr, ErrShape) {
			return nil, nil, buildErr
		}
		skipped = append(skipped, buildErr)
	}
	return issues, skipped, nil
}

// RecordNumber extracts the issue number. An absent number is 0.
func RecordNumber(raw RawRecord) (int, error) {
	v, ok := raw[KeyNumber]
	if !ok || v == nil {
		return 0, nil
	}
	switch tv := v.(type) {
	case int:
		return tv, nil
	case int32:
		return int(tv), nil
	case int64:
		return int(tv), nil
	case float64:
		if tv == math.Trunc(tv) {
			return int(tv), nil
		}
	case json.Number:
		if n, err := tv.Int64(); err == nil {
			return int(n), nil
		}
	}
	return 0, &RecordError{Reason: fmt.Sprintf("number must be an integer, got %v", v)}
}

func parseEvents(v any) ([]Event, error) {
	elems, err := eventMaps(v)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(elems))
	for i, raw := range elems {
		event, err := newEvent(raw)
		if err != nil {
			var shapeErr *ShapeError
			if errors.As(err, &shapeErr) {
				shapeErr.Field = fmt.Sprintf("events[%d].%s", i, shapeErr.Field)
				return nil, shapeErr
			}
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func newEvent(raw RawRecord) (Event, error) {
	event := Event{EventDate: TimestampField(raw, KeyEventDate)}

	eventType, err := optionalString(raw, KeyEventType)
	if err != nil {
		return Event{}, err
	}
	if eventType != nil {
		event.EventType = *eventType
	}
	if event.Author, err = optionalString(raw, KeyAuthor); err != nil {
		return Event{}, err
	}
	comment, err := optionalString(raw, KeyComment)
	if err != nil {
		return Event{}, err
	}
	if comment != nil {
		event.Comment = *comment
	}
	if v, ok := raw[KeyLabel]; ok {
		label, err := ParseLabelToken(v)
		if err != nil {
			return Event{}, fmt.Errorf("label: %w", err)
		}
		event.Label = &label
	}
	return event, nil
}

// optionalString reads a string field that may be absent or null.
func optionalString(raw RawRecord, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &ShapeError{Field: key, Got: typeName(v), Want: "a string"}
	}
	return &s, nil
}

func withNumber(err error, number int) error {
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) && shapeErr.Number == 0 {
		shapeErr.Number = number
	}
	return err
}
