package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

// Table names for the issue store.
const (
	issuesTable  = "issuelens_issues"
	eventsTable  = "issuelens_events"
	importsTable = "issuelens_imports"
)

// storeTables lists the issue store tables in status order.
var storeTables = []string{issuesTable, eventsTable, importsTable}

// IssueStoreImpl implements the IssueStore interface on the SQL backends.
type IssueStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.IssueStore = &IssueStoreImpl{} // Compile-time check

// NewIssueStore migrates the issue store schema to the latest version and opens it.
func NewIssueStore(backend schema.DatabaseBackend, connStr string) (contract.IssueStore, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled persistence
		return &IssueStoreImpl{backend: backend}, nil
	}

	if err := MigrateStore(backend, connStr, -1, io.Discard); err != nil {
		return nil, fmt.Errorf("failed to prepare issue store: %w", err)
	}
	db, err := openDB(backend, connStr, GetStoreDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("issue store: %w", err)
	}
	return &IssueStoreImpl{db: db, backend: backend}, nil
}

// q quotes a table name for the store backend.
func (s *IssueStoreImpl) q(table string) string {
	return quoteTableName(table, s.backend)
}

// SaveRecords replaces the stored issues of repo with records inside one transaction.
// A later record with the same number replaces an earlier one. Issues are keyed by
// number, so a record without one fails the whole import with schema.ErrInvalidRecord.
func (s *IssueStoreImpl) SaveRecords(ctx context.Context, repo string, records []schema.RawRecord, importedAt time.Time) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("issue store is disabled")
	}

	rows, err := flattenUnique(repo, records)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.deleteRepo(ctx, tx, repo); err != nil {
		return 0, err
	}

	importID := uuid.NewString()
	importQuery := fmt.Sprintf("INSERT INTO %s (import_id, repo, imported_at, issue_count) VALUES (%s)",
		s.q(importsTable), placeholders(s.backend, 1, 4))
	if _, err := tx.ExecContext(ctx, importQuery, importID, repo, importedAt.Unix(), len(rows)); err != nil {
		return 0, fmt.Errorf("failed to record import: %w", err)
	}

	issueQuery := fmt.Sprintf(`INSERT INTO %s (repo, number, title, url, state, creator, created_date, updated_date, labels, import_id)
		VALUES (%s)`, s.q(issuesTable), placeholders(s.backend, 1, 10))
	eventQuery := fmt.Sprintf(`INSERT INTO %s (repo, number, seq, event_type, author, event_date, label, comment)
		VALUES (%s)`, s.q(eventsTable), placeholders(s.backend, 1, 8))

	for _, row := range rows {
		_, err := tx.ExecContext(ctx, issueQuery,
			repo, row.Number, row.Title, row.URL,
			nullable(row.State), nullable(row.Creator), nullable(row.CreatedDate), nullable(row.UpdatedDate),
			nullable(row.LabelsJSON), importID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert issue #%d: %w", row.Number, err)
		}
		for _, ev := range row.Events {
			_, err := tx.ExecContext(ctx, eventQuery,
				repo, row.Number, ev.Seq,
				nullable(ev.EventType), nullable(ev.Author), nullable(ev.EventDate),
				nullable(ev.LabelJSON), nullable(ev.Comment))
			if err != nil {
				return 0, fmt.Errorf("failed to insert event %d of issue #%d: %w", ev.Seq, row.Number, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(rows), nil
}

// flattenUnique flattens records keeping the first position of each number and the last value.
func flattenUnique(repo string, records []schema.RawRecord) ([]schema.IssueRow, error) {
	rows := make([]schema.IssueRow, 0, len(records))
	index := make(map[int]int, len(records))
	for i, record := range records {
		if v, ok := record[schema.KeyNumber]; !ok || v == nil {
			return nil, fmt.Errorf("record %d: %w", i, &schema.RecordError{Reason: "missing number"})
		}
		row, err := schema.FlattenRecord(repo, record)
		if err != nil {
			return nil, err
		}
		if i, ok := index[row.Number]; ok {
			rows[i] = row
			continue
		}
		index[row.Number] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadRecords returns the stored issues of repo ordered by issue number.
func (s *IssueStoreImpl) LoadRecords(ctx context.Context, repo string) ([]schema.RawRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("issue store is disabled")
	}

	events, err := s.loadEvents(ctx, repo)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT number, title, url, state, creator, created_date, updated_date, labels
		FROM %s WHERE repo = %s ORDER BY number`, s.q(issuesTable), placeholders(s.backend, 1, 1))
	rows, err := s.db.QueryContext(ctx, query, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RawRecord
	for rows.Next() {
		row := schema.IssueRow{Repo: repo}
		var state, creator, created, updated, labels sql.NullString
		if err := rows.Scan(&row.Number, &row.Title, &row.URL, &state, &creator, &created, &updated, &labels); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		row.State = stringPtr(state)
		row.Creator = stringPtr(creator)
		row.CreatedDate = stringPtr(created)
		row.UpdatedDate = stringPtr(updated)
		row.LabelsJSON = stringPtr(labels)
		row.Events = events[row.Number]

		record, err := row.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}
	return records, nil
}

// loadEvents returns the stored events of repo grouped by issue number, in sequence order.
func (s *IssueStoreImpl) loadEvents(ctx context.Context, repo string) (map[int][]schema.EventRow, error) {
	query := fmt.Sprintf(`SELECT number, seq, event_type, author, event_date, label, comment
		FROM %s WHERE repo = %s ORDER BY number, seq`, s.q(eventsTable), placeholders(s.backend, 1, 1))
	rows, err := s.db.QueryContext(ctx, query, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make(map[int][]schema.EventRow)
	for rows.Next() {
		var number int
		var ev schema.EventRow
		var eventType, author, date, label, comment sql.NullString
		if err := rows.Scan(&number, &ev.Seq, &eventType, &author, &date, &label, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.EventType = stringPtr(eventType)
		ev.Author = stringPtr(author)
		ev.EventDate = stringPtr(date)
		ev.LabelJSON = stringPtr(label)
		ev.Comment = stringPtr(comment)
		events[number] = append(events[number], ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

// DeleteRepo removes every stored issue, event and import of repo.
func (s *IssueStoreImpl) DeleteRepo(ctx context.Context, repo string) error {
	if s.db == nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.deleteRepo(ctx, tx, repo); err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE repo = %s", s.q(importsTable), placeholders(s.backend, 1, 1))
	if _, err := tx.ExecContext(ctx, query, repo); err != nil {
		return fmt.Errorf("failed to delete imports of %s: %w", repo, err)
	}
	return tx.Commit()
}

// deleteRepo removes the issues and events of repo. Import history is kept.
func (s *IssueStoreImpl) deleteRepo(ctx context.Context, tx *sql.Tx, repo string) error {
	for _, table := range []string{eventsTable, issuesTable} {
		query := fmt.Sprintf("DELETE FROM %s WHERE repo = %s", s.q(table), placeholders(s.backend, 1, 1))
		if _, err := tx.ExecContext(ctx, query, repo); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, repo, err)
		}
	}
	return nil
}

// Close closes the underlying DB connection.
func (s *IssueStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the issue store.
func (s *IssueStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	var version int64
	if err := s.db.QueryRow(fmt.Sprintf("SELECT version FROM %s LIMIT 1", migrationsTable)).Scan(&version); err == nil {
		status.SchemaVersion = uint(version)
	}

	for _, table := range storeTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", s.q(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalIssues = int(status.TableSizes[issuesTable])
	status.TotalEvents = int(status.TableSizes[eventsTable])

	repos, err := s.listRepos()
	if err != nil {
		return status, err
	}
	status.Repos = repos

	if status.TableSizes[importsTable] > 0 {
		var last, oldest int64
		query := fmt.Sprintf("SELECT MAX(imported_at), MIN(imported_at) FROM %s", s.q(importsTable))
		if err := s.db.QueryRow(query).Scan(&last, &oldest); err != nil {
			return status, fmt.Errorf("failed to get import times: %w", err)
		}
		status.LastImportTime = time.Unix(last, 0)
		status.OldestImportTime = time.Unix(oldest, 0)
	}
	return status, nil
}

// listRepos returns the distinct stored repos. Its rows must be closed before the
// next query on a single-connection SQLite store.
func (s *IssueStoreImpl) listRepos() ([]string, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT DISTINCT repo FROM %s ORDER BY repo", s.q(issuesTable)))
	if err != nil {
		return nil, fmt.Errorf("failed to list repos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var repos []string
	for rows.Next() {
		var repo string
		if err := rows.Scan(&repo); err != nil {
			return nil, fmt.Errorf("failed to scan repo: %w", err)
		}
		repos = append(repos, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repos: %w", err)
	}
	return repos, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
