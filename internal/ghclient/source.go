package ghclient

import (
	"context"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

// Source is an IssueSource backed by the GitHub API.
type Source struct {
	client *Client
	owner  string
	name   string
}

var _ contract.IssueSource = &Source{} // Compile-time check

// NewSource creates a Source for owner/name.
func NewSource(client *Client, owner, name string) *Source {
	return &Source{client: client, owner: owner, name: name}
}

// Describe implements contract.IssueSource.
func (s *Source) Describe() string {
	return "github:" + s.owner + "/" + s.name
}

// LoadRecords implements contract.IssueSource.
func (s *Source) LoadRecords(ctx context.Context) ([]schema.RawRecord, error) {
	return s.client.FetchRecords(ctx, s.owner, s.name)
}
