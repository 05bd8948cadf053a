package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/loader"
	"github.com/huangsam/issuelens/internal/parquet"
	"github.com/huangsam/issuelens/schema"
)

// SaveRecords loads src and writes its raw records to outputFile, as Parquet when the
// path ends in .parquet and as JSON otherwise. An empty outputFile writes JSON to w.
func SaveRecords(ctx context.Context, src contract.IssueSource, repo, outputFile string, w io.Writer) (int, error) {
	records, err := loadRecords(ctx, src)
	if err != nil {
		return 0, err
	}

	switch {
	case outputFile == "":
		err = loader.WriteRecords(w, records)
	case strings.HasSuffix(strings.ToLower(outputFile), ".parquet"):
		err = parquet.WriteIssuesParquet(repo, records, outputFile)
	default:
		err = writeJSONFile(outputFile, records)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", src.Describe(), err)
	}
	return len(records), nil
}

func writeJSONFile(path string, records []schema.RawRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := loader.WriteRecords(file, records); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
