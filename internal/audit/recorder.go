// Package audit records each recommendation round in PostgreSQL. Only the
// coarse profile fields used for reporting are stored; name, age and income
// never leave the session.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "govscheme-workers/internal/common/errors"
)

const DefaultTable = "recommendation_audit"

type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

type Entry struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	State        string    `json:"state"`
	Category     string    `json:"category"`
	Occupation   string    `json:"occupation"`
	Language     string    `json:"language"`
	TotalMatches int       `json:"totalMatches"`
	CentralCount int       `json:"centralCount"`
	StateCount   int       `json:"stateCount"`
	Outcome      Outcome   `json:"outcome"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Recorder struct {
	db    *sql.DB
	table string
	now   func() time.Time
}

func NewRecorder(db *sql.DB, table string) *Recorder {
	if table == "" {
		table = DefaultTable
	}
	return &Recorder{db: db, table: pq.QuoteIdentifier(table), now: time.Now}
}

// EnsureSchema creates the audit table if it does not exist yet.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id UUID PRIMARY KEY,
		session_id TEXT NOT NULL,
		state TEXT,
		category TEXT,
		occupation TEXT,
		language TEXT,
		total_matches INTEGER NOT NULL DEFAULT 0,
		central_count INTEGER NOT NULL DEFAULT 0,
		state_count INTEGER NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`, r.table)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return apperrors.NewAuditWriteFailedError(fmt.Errorf("ensure schema: %w", err))
	}
	return nil
}

// Record inserts e and returns the generated id.
func (r *Recorder) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(id, session_id, state, category, occupation, language, total_matches, central_count, state_count, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.SessionID, e.State, e.Category, e.Occupation, e.Language,
		e.TotalMatches, e.CentralCount, e.StateCount, string(e.Outcome), e.CreatedAt,
	)
	if err != nil {
		return "", apperrors.NewAuditWriteFailedError(err)
	}
	return e.ID, nil
}

// Recent returns the newest entries for a session, newest first.
func (r *Recorder) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT id, session_id, state, category, occupation, language,
		total_matches, central_count, state_count, outcome, created_at
		FROM %s WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`, r.table)

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			outcome string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.State, &e.Category, &e.Occupation, &e.Language,
			&e.TotalMatches, &e.CentralCount, &e.StateCount, &outcome, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
