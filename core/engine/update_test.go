package engine

import (
	"testing"

	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/assert"
)

// TestTimeToUpdate tests the issue number to seconds mapping.
func TestTimeToUpdate(t *testing.T) {
	tests := []struct {
		name     string
		records  []schema.RawRecord
		expected schema.UpdateDurations
	}{
		{
			name:     "empty input",
			records:  nil,
			expected: schema.UpdateDurations{},
		},
		{
			name: "two hours",
			records: []schema.RawRecord{{
				"number":       1,
				"created_date": "2024-01-01T12:00:00+0000",
				"updated_date": "2024-01-01T14:00:00+0000",
			}},
			expected: schema.UpdateDurations{1: 7200},
		},
		{
			name: "mixed offsets",
			records: []schema.RawRecord{{
				"number":       2,
				"created_date": "2023-01-01T10:00:00Z",
				"updated_date": "2023-01-01T14:30:00+0200",
			}},
			expected: schema.UpdateDurations{2: 9000},
		},
		{
			name: "one year",
			records: []schema.RawRecord{{
				"number":       3,
				"created_date": "2023-01-01T00:00:00Z",
				"updated_date": "2024-01-01T00:00:00Z",
			}},
			expected: schema.UpdateDurations{3: 365 * 24 * 3600},
		},
		{
			name: "missing and invalid dates are omitted",
			records: []schema.RawRecord{
				{"number": 4, "created_date": "2023-01-01T00:00:00Z"},
				{"number": 5, "updated_date": "2023-01-01T00:00:00Z"},
				{"number": 6, "created_date": "yesterday", "updated_date": "2023-01-01T00:00:00Z"},
				{"number": 7, "created_date": nil, "updated_date": nil},
				{"number": 8, "created_date": "2023-01-01T00:00:00Z", "updated_date": "2023-01-01T00:00:01Z"},
			},
			expected: schema.UpdateDurations{8: 1},
		},
		{
			name: "records without a number are omitted",
			records: []schema.RawRecord{
				{"created_date": "2023-01-01T00:00:00Z", "updated_date": "2023-01-01T00:00:01Z"},
				{"number": "x", "created_date": "2023-01-01T00:00:00Z", "updated_date": "2023-01-01T00:00:01Z"},
			},
			expected: schema.UpdateDurations{},
		},
		{
			name: "sub-second precision truncates",
			records: []schema.RawRecord{{
				"number":       9,
				"created_date": "2023-01-01T00:00:00.900Z",
				"updated_date": "2023-01-01T00:00:02.100Z",
			}},
			expected: schema.UpdateDurations{9: 1},
		},
		{
			name: "multi-century span does not saturate",
			records: []schema.RawRecord{{
				"number":       10,
				"created_date": "1700-01-01T00:00:00Z",
				"updated_date": "2100-01-01T00:00:00Z",
			}},
			expected: schema.UpdateDurations{10: 12622780800},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeToUpdate(tt.records)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected.Empty(), got.Empty())
		})
	}
}

// TestTimeToUpdateIdempotent tests that repeated runs yield identical output.
func TestTimeToUpdateIdempotent(t *testing.T) {
	records := []schema.RawRecord{
		{"number": 1, "created_date": "2024-01-01T12:00:00+0000", "updated_date": "2024-01-01T14:00:00+0000"},
		{"number": 2, "created_date": "bad", "updated_date": "2024-01-01T14:00:00+0000"},
		{"number": 3, "created_date": "2024-01-01T12:00:00Z", "updated_date": "2024-03-01T14:00:00Z"},
	}
	first := TimeToUpdate(records)
	second := TimeToUpdate(records)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{1, 3}, first.Numbers())
}
