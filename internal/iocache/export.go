package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/parquet"
)

// ExportRepo writes the stored issues of repo to a Parquet file.
func ExportRepo(ctx context.Context, store contract.IssueStore, repo, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("issue store is not initialized")
	}

	records, err := store.LoadRecords(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to load stored issues: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no stored issues found for %s", repo)
	}

	if err := parquet.WriteIssuesParquet(repo, records, outputFile); err != nil {
		return fmt.Errorf("failed to write issues: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d issues of %s to: %s\n", len(records), repo, outputFile)
	return nil
}
