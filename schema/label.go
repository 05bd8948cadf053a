package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// LabelKind identifies the dynamic type carried by a LabelToken.
type LabelKind uint8

// Supported label kinds.
const (
	LabelNull LabelKind = iota
	LabelString
	LabelInt
	LabelFloat
	LabelBool
)

// String returns the kind name.
func (k LabelKind) String() string {
	switch k {
	case LabelString:
		return "string"
	case LabelInt:
		return "int"
	case LabelFloat:
		return "float"
	case LabelBool:
		return "bool"
	default:
		return "null"
	}
}

// LabelToken is a comparable tagged union over the primitive values a label may hold.
// Two tokens are equal only when both kind and value match, so "Bug" != "bug" and
// "1" != 1. It is safe to use as a map key.
type LabelToken struct {
	kind LabelKind
	str  string
	num  int64
	flt  float64
	flag bool
}

// StringLabel returns a string token.
func StringLabel(s string) LabelToken { return LabelToken{kind: LabelString, str: s} }

// IntLabel returns an integer token.
func IntLabel(n int64) LabelToken { return LabelToken{kind: LabelInt, num: n} }

// FloatLabel returns a numeric token. Integral values inside the int64 range collapse
// to IntLabel so that 123 and 123.0 tally together.
func FloatLabel(f float64) LabelToken {
	if f == math.Trunc(f) && f >= -0x1p63 && f < 0x1p63 {
		return IntLabel(int64(f))
	}
	return LabelToken{kind: LabelFloat, flt: f}
}

// BoolLabel returns a boolean token.
func BoolLabel(b bool) LabelToken { return LabelToken{kind: LabelBool, flag: b} }

// NullLabel returns the null token.
func NullLabel() LabelToken { return LabelToken{} }

// Kind returns the token kind.
func (t LabelToken) Kind() LabelKind { return t.kind }

// Value returns the token as a plain Go value (nil, string, int64, float64 or bool).
func (t LabelToken) Value() any {
	switch t.kind {
	case LabelString:
		return t.str
	case LabelInt:
		return t.num
	case LabelFloat:
		return t.flt
	case LabelBool:
		return t.flag
	default:
		return nil
	}
}

// String renders the token for display.
func (t LabelToken) String() string {
	switch t.kind {
	case LabelString:
		return t.str
	case LabelInt:
		return strconv.FormatInt(t.num, 10)
	case LabelFloat:
		return strconv.FormatFloat(t.flt, 'g', -1, 64)
	case LabelBool:
		return strconv.FormatBool(t.flag)
	default:
		return "null"
	}
}

// MarshalJSON encodes the token as its native JSON value.
func (t LabelToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value())
}

// UnmarshalJSON decodes any primitive JSON value into a token.
func (t *LabelToken) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	tok, err := ParseLabelToken(v)
	if err != nil {
		return err
	}
	*t = tok
	return nil
}

// ParseLabelToken converts a dynamic label value into a token. Composite values
// (slices, maps, structs) cannot be tallied and return ErrUnhashableLabel.
func ParseLabelToken(v any) (LabelToken, error) {
	switch tv := v.(type) {
	case nil:
		return NullLabel(), nil
	case string:
		return StringLabel(tv), nil
	case bool:
		return BoolLabel(tv), nil
	case int:
		return IntLabel(int64(tv)), nil
	case int32:
		return IntLabel(int64(tv)), nil
	case int64:
		return IntLabel(tv), nil
	case float32:
		return FloatLabel(float64(tv)), nil
	case float64:
		return FloatLabel(tv), nil
	case json.Number:
		if n, err := tv.Int64(); err == nil {
			return IntLabel(n), nil
		}
		f, err := tv.Float64()
		if err != nil {
			return LabelToken{}, fmt.Errorf("%w: malformed number %q", ErrUnhashableLabel, tv.String())
		}
		return FloatLabel(f), nil
	case LabelToken:
		return tv, nil
	default:
		return LabelToken{}, fmt.Errorf("%w: %s", ErrUnhashableLabel, typeName(v))
	}
}

// ParseLabels reads the labels field of a raw record. Absent and null both yield
// (nil, nil). A non-array value is a shape error, as is any composite element.
func ParseLabels(v any) ([]LabelToken, error) {
	if v == nil {
		return nil, nil
	}
	var elems []any
	switch tv := v.(type) {
	case []any:
		elems = tv
	case []string:
		tokens := make([]LabelToken, len(tv))
		for i, s := range tv {
			tokens[i] = StringLabel(s)
		}
		return tokens, nil
	case []LabelToken:
		return tv, nil
	default:
		return nil, &ShapeError{Field: "labels", Got: typeName(v), Want: "an array of labels"}
	}

	tokens := make([]LabelToken, 0, len(elems))
	for i, elem := range elems {
		tok, err := ParseLabelToken(elem)
		if err != nil {
			return nil, fmt.Errorf("labels[%d]: %w", i, err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
