// Package postgres persists workflow sessions and their stage outputs.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

// schemaLockID serializes EnsureSchema across concurrently starting
// instances.
const schemaLockID = 74120331

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	defer conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, schemaLockID)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS session_entries (
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			entry_key TEXT NOT NULL,
			content TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (session_id, entry_key)
		)`,
	}
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) Create(ctx context.Context) (*domain.Session, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, updated_at) VALUES ($1, $2, $2)`,
		id, now)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &domain.Session{ID: id, CreatedAt: now, UpdatedAt: now}, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.WrapError(domain.ErrSessionNotFound, "get session", fmt.Errorf("invalid session id"))
	}

	var s domain.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at FROM sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrSessionNotFound, "get session", fmt.Errorf("session %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *Repository) SaveEntry(ctx context.Context, sessionID, key, content string) error {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO session_entries (session_id, entry_key, content, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id, entry_key)
		 DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`,
		sessionID, key, content, now)
	if err != nil {
		return fmt.Errorf("save entry %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("save entry %s: no rows affected", key)
	}

	_, err = r.db.ExecContext(ctx, `UPDATE sessions SET updated_at = $2 WHERE id = $1`, sessionID, now)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (r *Repository) GetEntry(ctx context.Context, sessionID, key string) (string, error) {
	var content string
	err := r.db.QueryRowContext(ctx,
		`SELECT content FROM session_entries WHERE session_id = $1 AND entry_key = $2`,
		sessionID, key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.WrapError(domain.ErrNotFound, "get entry", fmt.Errorf("entry %s", key))
	}
	if err != nil {
		return "", fmt.Errorf("get entry %s: %w", key, err)
	}
	return content, nil
}

func (r *Repository) ListEntries(ctx context.Context, sessionID string) ([]domain.SessionEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entry_key, content, updated_at FROM session_entries
		 WHERE session_id = $1 ORDER BY updated_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.SessionEntry
	for rows.Next() {
		var e domain.SessionEntry
		if err := rows.Scan(&e.Key, &e.Content, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}
