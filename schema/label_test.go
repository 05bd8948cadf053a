package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseLabelToken tests conversion of dynamic values into tokens.
func TestParseLabelToken(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected LabelToken
	}{
		{"null", nil, NullLabel()},
		{"string", "bug", StringLabel("bug")},
		{"bool", true, BoolLabel(true)},
		{"int", 7, IntLabel(7)},
		{"int64", int64(7), IntLabel(7)},
		{"integral float", float64(7), IntLabel(7)},
		{"fractional float", 7.5, FloatLabel(7.5)},
		{"json integer", json.Number("123"), IntLabel(123)},
		{"json float", json.Number("1.25"), FloatLabel(1.25)},
		{"json integral float", json.Number("3.0"), IntLabel(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabelToken(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestParseLabelTokenComposite tests that composite values are rejected.
func TestParseLabelTokenComposite(t *testing.T) {
	for _, v := range []any{[]any{"a"}, map[string]any{"name": "bug"}, struct{}{}} {
		_, err := ParseLabelToken(v)
		assert.ErrorIs(t, err, ErrUnhashableLabel)
		assert.ErrorIs(t, err, ErrShape)
	}
}

// TestLabelTokenEquality tests that tokens keep kind and case distinct.
func TestLabelTokenEquality(t *testing.T) {
	assert.NotEqual(t, StringLabel("Bug"), StringLabel("bug"))
	assert.NotEqual(t, StringLabel("1"), IntLabel(1))
	assert.NotEqual(t, BoolLabel(true), IntLabel(1))
	assert.NotEqual(t, BoolLabel(false), NullLabel())
	assert.Equal(t, IntLabel(2), FloatLabel(2.0))

	counts := map[LabelToken]int{}
	counts[StringLabel("bug")]++
	counts[StringLabel("bug")]++
	counts[IntLabel(1)]++
	assert.Equal(t, 2, counts[StringLabel("bug")])
	assert.Len(t, counts, 2)
}

// TestLabelTokenJSON tests encoding back to native JSON values.
func TestLabelTokenJSON(t *testing.T) {
	tokens := []LabelToken{StringLabel("bug"), IntLabel(123), FloatLabel(0.5), BoolLabel(false), NullLabel()}
	data, err := json.Marshal(tokens)
	require.NoError(t, err)
	assert.JSONEq(t, `["bug", 123, 0.5, false, null]`, string(data))

	var decoded []LabelToken
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tokens, decoded)
	assert.Equal(t, "null", NullLabel().String())
	assert.Equal(t, "123", IntLabel(123).String())
}

// TestParseLabels tests the labels field shape rules.
func TestParseLabels(t *testing.T) {
	got, err := ParseLabels(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseLabels([]any{"a", 1, nil})
	require.NoError(t, err)
	assert.Equal(t, []LabelToken{StringLabel("a"), IntLabel(1), NullLabel()}, got)

	_, err = ParseLabels("bug")
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "labels", shapeErr.Field)
	assert.Equal(t, "string", shapeErr.Got)

	_, err = ParseLabels(map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrShape)

	_, err = ParseLabels([]any{"ok", []any{"nested"}})
	assert.ErrorIs(t, err, ErrUnhashableLabel)
}
