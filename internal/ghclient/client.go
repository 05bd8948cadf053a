// Package ghclient loads issue records from the GitHub REST API.
package ghclient

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// pageSize is the largest page the issues API serves.
const pageSize = 100

// Client wraps the GitHub API client with rate limiting and bounded concurrency.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	maxWorkers  int
}

// NewClient creates a GitHub client. An empty token makes unauthenticated requests.
// A non-positive rateLimit disables request throttling.
func NewClient(token string, rateLimit float64, workers int) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	limit := rate.Inf
	if rateLimit > 0 {
		limit = rate.Limit(rateLimit)
	}
	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(limit, 1),
		maxWorkers:  max(workers, 1),
	}
}

// SetBaseURL points the client at another API root, such as GitHub Enterprise.
func (c *Client) SetBaseURL(baseURL string) error {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	c.client.BaseURL = u
	return nil
}

// FetchRecords returns every issue of owner/name as raw records, pull requests excluded.
// Each record carries its issue events and comments merged in time order.
func (c *Client) FetchRecords(ctx context.Context, owner, name string) ([]schema.RawRecord, error) {
	issues, err := c.FetchIssues(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	records := make([]schema.RawRecord, len(issues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)
	for i, issue := range issues {
		g.Go(func() error {
			events, err := c.FetchTimeline(gctx, owner, name, issue.GetNumber(), issue.GetComments() > 0)
			if err != nil {
				return fmt.Errorf("issue #%d: %w", issue.GetNumber(), err)
			}
			records[i] = issueRecord(issue, events)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contract.LogInfo("fetched issues", logrus.Fields{"repo": owner + "/" + name, "issues": len(records)})
	return records, nil
}

// FetchIssues lists all issues of owner/name in creation order, skipping pull requests.
func (c *Client) FetchIssues(ctx context.Context, owner, name string) ([]*github.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var all []*github.Issue
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch issues: %w", err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			all = append(all, issue)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// timelineEntry is an event or comment before conversion to a raw event.
type timelineEntry struct {
	at     time.Time
	record schema.RawRecord
}

// FetchTimeline returns the issue events of one issue, plus its comments when withComments
// is set, as raw events ordered by time. Entries with equal times keep API order.
func (c *Client) FetchTimeline(ctx context.Context, owner, name string, number int, withComments bool) ([]any, error) {
	var entries []timelineEntry

	opts := &github.ListOptions{PerPage: pageSize}
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		events, resp, err := c.client.Issues.ListIssueEvents(ctx, owner, name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch events: %w", err)
		}
		for _, ev := range events {
			entries = append(entries, timelineEntry{at: ev.GetCreatedAt().Time, record: eventRecord(ev)})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if withComments {
		copts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: pageSize}}
		for {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
			comments, resp, err := c.client.Issues.ListComments(ctx, owner, name, number, copts)
			if err != nil {
				return nil, fmt.Errorf("fetch comments: %w", err)
			}
			for _, comment := range comments {
				entries = append(entries, timelineEntry{at: comment.GetCreatedAt().Time, record: commentRecord(comment)})
			}
			if resp.NextPage == 0 {
				break
			}
			copts.Page = resp.NextPage
		}
	}

	slices.SortStableFunc(entries, func(a, b timelineEntry) int {
		return cmp.Compare(a.at.UnixNano(), b.at.UnixNano())
	})
	out := make([]any, len(entries))
	for i, entry := range entries {
		out[i] = entry.record
	}
	return out, nil
}

func issueRecord(issue *github.Issue, events []any) schema.RawRecord {
	labels := make([]any, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}
	record := schema.RawRecord{
		schema.KeyNumber: issue.GetNumber(),
		schema.KeyTitle:  issue.GetTitle(),
		schema.KeyURL:    issue.GetHTMLURL(),
		schema.KeyState:  issue.GetState(),
		schema.KeyLabels: labels,
		schema.KeyEvents: events,
	}
	if login := issue.GetUser().GetLogin(); login != "" {
		record[schema.KeyCreator] = login
	}
	putTime(record, schema.KeyCreatedDate, issue.CreatedAt)
	putTime(record, schema.KeyUpdatedDate, issue.UpdatedAt)
	return record
}

func eventRecord(ev *github.IssueEvent) schema.RawRecord {
	record := schema.RawRecord{schema.KeyEventType: ev.GetEvent()}
	if login := ev.GetActor().GetLogin(); login != "" {
		record[schema.KeyAuthor] = login
	}
	if ev.Label != nil {
		record[schema.KeyLabel] = ev.Label.GetName()
	}
	putTime(record, schema.KeyEventDate, ev.CreatedAt)
	return record
}

func commentRecord(comment *github.IssueComment) schema.RawRecord {
	record := schema.RawRecord{
		schema.KeyEventType: schema.EventCommented,
		schema.KeyComment:   comment.GetBody(),
	}
	if login := comment.GetUser().GetLogin(); login != "" {
		record[schema.KeyAuthor] = login
	}
	putTime(record, schema.KeyEventDate, comment.CreatedAt)
	return record
}

func putTime(record schema.RawRecord, key string, ts *github.Timestamp) {
	if ts != nil && !ts.IsZero() {
		record[key] = schema.CanonicalTimestamp(ts.Time)
	}
}
