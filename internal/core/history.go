package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Run status values.
const (
	RunStatusOK       = "ok"
	RunStatusRejected = "rejected"
	RunStatusFailed   = "failed"
)

// Run is the stored summary of one processing run. Row content is never kept.
type Run struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Status     string    `json:"status"`
	Code       string    `json:"code,omitempty"`
	TotalRows  int       `json:"totalRows"`
	Kept       int       `json:"kept"`
	Dropped    int       `json:"dropped"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RunStore persists run summaries.
type RunStore interface {
	RecordRun(ctx context.Context, run Run) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	PurgeRuns(ctx context.Context, before time.Time) (int64, error)
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS processing_runs (
	id           UUID PRIMARY KEY,
	file_name    TEXT NOT NULL,
	status       TEXT NOT NULL,
	code         TEXT,
	total_rows   INTEGER NOT NULL DEFAULT 0,
	kept_rows    INTEGER NOT NULL DEFAULT 0,
	dropped_rows INTEGER NOT NULL DEFAULT 0,
	ip_address   TEXT,
	user_agent   TEXT,
	duration_ms  BIGINT NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS processing_runs_created_at_idx ON processing_runs (created_at DESC);
`

const insertRun = `
INSERT INTO processing_runs
	(id, file_name, status, code, total_rows, kept_rows, dropped_rows, ip_address, user_agent, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const selectRecentRuns = `
SELECT id, file_name, status, code, total_rows, kept_rows, dropped_rows, ip_address, user_agent, duration_ms, created_at
FROM processing_runs
ORDER BY created_at DESC
LIMIT $1`

const deleteRunsBefore = `DELETE FROM processing_runs WHERE created_at < $1`

// PgRunStore keeps run summaries in the processing_runs table.
type PgRunStore struct {
	db DBTX
}

// NewPgRunStore creates a store on top of a pool or transaction.
func NewPgRunStore(db DBTX) *PgRunStore {
	return &PgRunStore{db: db}
}

// EnsureSchema creates the processing_runs table when it does not exist.
func (s *PgRunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("create processing_runs: %w", err)
	}
	return nil
}

// RecordRun inserts one run summary.
func (s *PgRunStore) RecordRun(ctx context.Context, run Run) error {
	id, err := toPgUUID(run.ID)
	if err != nil {
		return err
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(ctx, insertRun,
		id,
		run.FileName,
		run.Status,
		toPgText(run.Code),
		int32(run.TotalRows),
		int32(run.Kept),
		int32(run.Dropped),
		toPgText(run.IPAddress),
		toPgText(run.UserAgent),
		run.DurationMs,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *PgRunStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.Query(ctx, selectRecentRuns, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			id                   pgtype.UUID
			code, ip, userAgent  pgtype.Text
			total, kept, dropped int32
			run                  Run
		)
		if err := rows.Scan(
			&id, &run.FileName, &run.Status, &code,
			&total, &kept, &dropped,
			&ip, &userAgent, &run.DurationMs, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.ID = fromPgUUID(id)
		run.Code = code.String
		run.IPAddress = ip.String
		run.UserAgent = userAgent.String
		run.TotalRows = int(total)
		run.Kept = int(kept)
		run.Dropped = int(dropped)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// PurgeRuns deletes runs created before the cutoff and returns the count.
func (s *PgRunStore) PurgeRuns(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteRunsBefore, before)
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func toPgUUID(s string) (pgtype.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("invalid run id %q: %w", s, err)
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

func fromPgUUID(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// toPgText stores empty strings as NULL.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
