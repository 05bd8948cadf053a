// Package loader reads raw issue records from JSON and Parquet files.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/parquet"
	"github.com/huangsam/issuelens/schema"
)

// StdinPath selects standard input as a JSON source.
const StdinPath = "-"

// FileSource loads raw records from a local file.
type FileSource struct {
	Path  string
	Kind  schema.SourceKind
	Stdin io.Reader // Used when Path is StdinPath
}

var _ contract.IssueSource = &FileSource{} // Compile-time check

// NewFileSource creates a FileSource for a JSON or Parquet path.
func NewFileSource(path string, kind schema.SourceKind) (*FileSource, error) {
	switch kind {
	case schema.JSONSource, schema.ParquetSource:
	default:
		return nil, fmt.Errorf("unsupported file source kind: %s", kind)
	}
	if kind == schema.ParquetSource && path == StdinPath {
		return nil, errors.New("parquet input cannot be read from stdin")
	}
	return &FileSource{Path: path, Kind: kind, Stdin: os.Stdin}, nil
}

// Describe implements contract.IssueSource.
func (s *FileSource) Describe() string {
	if s.Path == StdinPath {
		return "json:stdin"
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.Path)
}

// LoadRecords implements contract.IssueSource.
func (s *FileSource) LoadRecords(ctx context.Context) ([]schema.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Kind == schema.ParquetSource {
		return parquet.ReadIssuesParquet(s.Path)
	}

	if s.Path == StdinPath {
		return DecodeRecords(s.Stdin)
	}
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer func() { _ = file.Close() }()
	return DecodeRecords(file)
}

// DecodeRecords decodes a JSON array of issue objects. Numbers are kept as json.Number
// so that integer and float labels keep their kind. A top level that is not an array,
// or an element that is not an object, is a shape error.
func DecodeRecords(r io.Reader) ([]schema.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode issues: %w", err)
	}
	if dec.More() {
		return nil, errors.New("failed to decode issues: trailing data after the top-level array")
	}
	return Records(doc)
}

// Records checks that doc is a sequence of issue objects and returns them as raw records.
func Records(doc any) ([]schema.RawRecord, error) {
	elems, ok := doc.([]any)
	if !ok {
		return nil, &schema.ShapeError{Field: "records", Got: kindOf(doc), Want: "an array of issues"}
	}
	records := make([]schema.RawRecord, len(elems))
	for i, elem := range elems {
		record, ok := elem.(map[string]any)
		if !ok {
			return nil, &schema.ShapeError{Field: fmt.Sprintf("records[%d]", i), Got: kindOf(elem), Want: "an object"}
		}
		records[i] = record
	}
	return records, nil
}

// kindOf names a decoded JSON value the way JSON users know it.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// WriteRecords encodes records as an indented JSON array that DecodeRecords reads back.
func WriteRecords(w io.Writer, records []schema.RawRecord) error {
	if records == nil {
		records = []schema.RawRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode issues: %w", err)
	}
	return nil
}
