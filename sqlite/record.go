package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/newsfetch"
)

// Compile-time interface verification.
var (
	_ newsfetch.Sink          = (*Sink)(nil)
	_ newsfetch.RecordService = (*RecordService)(nil)
)

// timeLayout is a fixed-width UTC timestamp so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Sink stores each batch as a run with its records.
type Sink struct {
	db *DB
}

// NewSink creates a new Sink.
func NewSink(db *DB) *Sink {
	return &Sink{db: db}
}

// Format returns "sqlite".
func (s *Sink) Format() string { return "sqlite" }

// Write inserts the batch in a single transaction.
func (s *Sink) Write(ctx context.Context, batch *newsfetch.Batch) error {
	if batch.RunID == "" {
		return newsfetch.Errorf(newsfetch.EINVALID, "batch run ID required")
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, prefix, started_at, finished_at, record_count)
		VALUES (?, ?, ?, ?, ?)
	`, batch.RunID, batch.Prefix, batch.StartedAt.UTC().Format(timeLayout),
		batch.FinishedAt.UTC().Format(timeLayout), len(batch.Records)); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, url, content, publish_time, title, author,
			scrape_time, method, failed_reason, screenshot_path, content_hash, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range batch.Records {
		extra, err := encodeExtra(r.Extra)
		if err != nil {
			return fmt.Errorf("encoding extra columns of %s: %w", r.URL, err)
		}
		if _, err := stmt.ExecContext(ctx, batch.RunID, i, r.URL,
			nullString(r.Content), nullString(r.PublishTime), nullString(r.Title), nullString(r.Author),
			r.ScrapeTime, string(r.Method), string(r.FailedReason), r.ScreenshotPath, r.ContentHash, extra,
		); err != nil {
			return fmt.Errorf("inserting record %s: %w", r.URL, err)
		}
	}

	return tx.Commit()
}

// RecordService implements newsfetch.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// FindRecords retrieves the records of one run matching the filter, in
// input order.
func (s *RecordService) FindRecords(ctx context.Context, filter newsfetch.RecordFilter) ([]*newsfetch.Record, error) {
	runID, err := s.resolveRunID(ctx, filter.RunID)
	if err != nil {
		return nil, err
	}

	var query strings.Builder
	args := []any{runID}

	query.WriteString(`SELECT url, content, publish_time, title, author, scrape_time, method,
		failed_reason, screenshot_path, content_hash, extra
		FROM records WHERE run_id = ?`)
	if filter.FailedOnly {
		query.WriteString(" AND (method = ? OR failed_reason != ?)")
		args = append(args, string(newsfetch.MethodFailed), string(newsfetch.ReasonOK))
	}
	query.WriteString(" ORDER BY position ASC")
	appendPagination(&query, &args, filter.Limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*newsfetch.Record
	for rows.Next() {
		var r newsfetch.Record
		var content, publishTime, title, author sql.NullString
		var method, reason, extra string
		if err := rows.Scan(&r.URL, &content, &publishTime, &title, &author, &r.ScrapeTime,
			&method, &reason, &r.ScreenshotPath, &r.ContentHash, &extra); err != nil {
			return nil, err
		}
		r.Content = stringPtr(content)
		r.PublishTime = stringPtr(publishTime)
		r.Title = stringPtr(title)
		r.Author = stringPtr(author)
		r.Method = newsfetch.Method(method)
		r.FailedReason = newsfetch.FailureReason(reason)
		if r.Extra, err = decodeExtra(extra); err != nil {
			return nil, fmt.Errorf("decoding extra columns of %s: %w", r.URL, err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// resolveRunID returns id, or the most recently started run when id is nil.
func (s *RecordService) resolveRunID(ctx context.Context, id *string) (string, error) {
	var runID string
	var err error
	if id != nil {
		err = s.db.QueryRowContext(ctx, "SELECT id FROM runs WHERE id = ?", *id).Scan(&runID)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1").Scan(&runID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "", newsfetch.Errorf(newsfetch.ENOTFOUND, "run not found")
	}
	return runID, err
}

func encodeExtra(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func decodeExtra(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}
