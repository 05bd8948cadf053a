package schema

import (
	"fmt"
	"strings"
	"time"
)

// Parse failure reasons.
const (
	ReasonEmpty        = "empty"
	ReasonUnrecognized = "unrecognized"
	ReasonOutOfRange   = "out of range"
)

// timestampLayouts lists every accepted input layout, tried in order. Examples:
// 2023-01-01T10:00:00Z, 2024-01-01T12:00:00+0000, 2023-01-01T10:00Z, 2023-01-01 10:00:00+00:00.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
}

// ParseFailure reports a timestamp string that could not be normalized.
type ParseFailure struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *ParseFailure) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "timestamp is empty"
	case ReasonOutOfRange:
		return fmt.Sprintf("timestamp %q falls outside years 0000-9999 in UTC", e.Input)
	}
	return fmt.Sprintf("timestamp %q does not match any accepted format", e.Input)
}

// NormalizeTimestamp parses a timestamp in any accepted layout and returns it in UTC.
// It never substitutes a default time: empty or unrecognized input yields a *ParseFailure.
func NormalizeTimestamp(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, &ParseFailure{Input: s, Reason: ReasonEmpty}
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		t = t.UTC()
		if t.Year() < 0 || t.Year() > 9999 {
			return time.Time{}, &ParseFailure{Input: s, Reason: ReasonOutOfRange}
		}
		return t, nil
	}
	return time.Time{}, &ParseFailure{Input: s, Reason: ReasonUnrecognized}
}

// CanonicalTimestamp renders t in the canonical UTC form accepted by NormalizeTimestamp.
func CanonicalTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Timestamp is a normalized point in time that remembers its raw form.
// Valid is false when the raw value was absent or failed normalization.
type Timestamp struct {
	Raw   string
	Time  time.Time
	Valid bool
}

// NewTimestamp normalizes raw into a Timestamp. The error is the parse failure, if any.
func NewTimestamp(raw string) (Timestamp, error) {
	t, err := NormalizeTimestamp(raw)
	if err != nil {
		return Timestamp{Raw: raw}, err
	}
	return Timestamp{Raw: raw, Time: t, Valid: true}, nil
}

// TimestampOf wraps an already parsed time.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Raw: CanonicalTimestamp(t), Time: t.UTC(), Valid: true}
}

// TimestampField reads a timestamp field from a raw record. Non-string values count
// as unparsable rather than as a shape error, since a bad date only affects one record.
func TimestampField(raw RawRecord, key string) Timestamp {
	v, ok := raw[key]
	if !ok || v == nil {
		return Timestamp{}
	}
	switch tv := v.(type) {
	case string:
		ts, _ := NewTimestamp(tv)
		return ts
	case time.Time:
		return TimestampOf(tv)
	default:
		return Timestamp{Raw: fmt.Sprint(v)}
	}
}
