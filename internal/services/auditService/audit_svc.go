// Package auditService keeps a local sqlite trail of control actions
// (package installs/removals, lifecycle commands) so an operator can see
// what the dashboard actually did to the host.
//
// Auditing is best effort by design: a failed write is logged by the
// caller and never fails the action itself.
package auditService

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// MaxRecent bounds the /api/audit/recent response.
const MaxRecent = 100

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TIMESTAMP NOT NULL,
	kind TEXT NOT NULL,
	subject TEXT NOT NULL,
	ok INTEGER NOT NULL,
	detail TEXT NOT NULL DEFAULT ''
);`

// Entry is one recorded control action.
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Subject   string    `json:"subject"`
	OK        bool      `json:"ok"`
	Detail    string    `json:"detail"`
}

// AuditService wraps the sqlite database file.
type AuditService struct {
	db *sql.DB
}

// NewAuditService opens (creating if needed) the database at dbPath.
func NewAuditService(dbPath string) (*AuditService, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("auditService: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditService: create schema: %w", err)
	}
	return &AuditService{db: db}, nil
}

// Close closes the underlying database.
func (s *AuditService) Close() error {
	return s.db.Close()
}

// Record appends one entry.
func (s *AuditService) Record(ctx context.Context, kind, subject string, ok bool, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (ts, kind, subject, ok, detail) VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC(), kind, subject, ok, detail,
	)
	if err != nil {
		return fmt.Errorf("auditService: insert: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first, capped at MaxRecent.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, kind, subject, ok, detail FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("auditService: query: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var ok int
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Kind, &e.Subject, &ok, &e.Detail); err != nil {
			return nil, fmt.Errorf("auditService: scan: %w", err)
		}
		e.OK = ok != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditService: rows: %w", err)
	}
	return entries, nil
}
