package engine

import (
	"time"

	"github.com/huangsam/issuelens/schema"
)

// TimeToUpdate maps each raw record's number to the whole seconds between its
// created_date and updated_date. Records without a number or with a missing or
// unparsable date are omitted. A later record with the same number replaces an
// earlier one.
func TimeToUpdate(records []schema.RawRecord) schema.UpdateDurations {
	out := make(schema.UpdateDurations)
	for _, record := range records {
		if v, ok := record[schema.KeyNumber]; !ok || v == nil {
			continue
		}
		number, err := schema.RecordNumber(record)
		if err != nil {
			continue
		}
		created := schema.TimestampField(record, schema.KeyCreatedDate)
		updated := schema.TimestampField(record, schema.KeyUpdatedDate)
		if !created.Valid || !updated.Valid {
			continue
		}
		out[number] = secondsBetween(created.Time, updated.Time)
	}
	return out
}

// secondsBetween returns b-a in whole seconds, truncated toward zero. It works on
// Unix seconds so multi-century spans do not saturate like time.Duration does.
func secondsBetween(a, b time.Time) int64 {
	secs := b.Unix() - a.Unix()
	nanos := b.Nanosecond() - a.Nanosecond()
	switch {
	case secs > 0 && nanos < 0:
		secs--
	case secs < 0 && nanos > 0:
		secs++
	}
	return secs
}
