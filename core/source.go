package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/internal/ghclient"
	"github.com/huangsam/issuelens/internal/loader"
	"github.com/huangsam/issuelens/schema"
)

// StoreSource is an IssueSource reading one repo from the issue store.
type StoreSource struct {
	store contract.IssueStore
	repo  string
}

var _ contract.IssueSource = &StoreSource{} // Compile-time check

// NewStoreSource creates a StoreSource for repo.
func NewStoreSource(store contract.IssueStore, repo string) *StoreSource {
	return &StoreSource{store: store, repo: repo}
}

// Describe implements contract.IssueSource.
func (s *StoreSource) Describe() string {
	return "store:" + s.repo
}

// LoadRecords implements contract.IssueSource.
func (s *StoreSource) LoadRecords(ctx context.Context) ([]schema.RawRecord, error) {
	return s.store.LoadRecords(ctx, s.repo)
}

// NewSource resolves the configured source kind to an IssueSource.
// GitHub sources go through the fetch cache when one is configured.
func NewSource(cfg *contract.Config, mgr contract.CacheManager) (contract.IssueSource, error) {
	switch cfg.SourceKind {
	case schema.JSONSource, schema.ParquetSource:
		return loader.NewFileSource(cfg.Source, cfg.SourceKind)

	case schema.GitHubSource:
		client := ghclient.NewClient(cfg.GitHubToken, cfg.RateLimit, cfg.Workers)
		src := ghclient.NewSource(client, cfg.RepoOwner, cfg.RepoName)
		if mgr == nil || mgr.GetFetchStore() == nil {
			return src, nil
		}
		return NewCachedSource(src, mgr.GetFetchStore(), cfg.CacheTTL), nil

	case schema.StoreSource:
		if mgr == nil || mgr.GetIssueStore() == nil {
			return nil, errors.New("the store source requires --store-backend")
		}
		return NewStoreSource(mgr.GetIssueStore(), cfg.Repo), nil

	default:
		return nil, fmt.Errorf("unsupported source kind: %q", cfg.SourceKind)
	}
}

// ImportRecords loads src and replaces the stored issues of repo with its records.
func ImportRecords(ctx context.Context, src contract.IssueSource, store contract.IssueStore, repo string, importedAt time.Time) (int, error) {
	if store == nil {
		return 0, errors.New("issue store is not initialized")
	}
	records, err := loadRecords(ctx, src)
	if err != nil {
		return 0, err
	}
	n, err := store.SaveRecords(ctx, repo, records, importedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s into %s: %w", src.Describe(), repo, err)
	}
	return n, nil
}
