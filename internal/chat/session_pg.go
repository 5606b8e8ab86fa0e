package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGSessionRepo implements SessionRepo using the sessions table.
type PGSessionRepo struct {
	DB *sql.DB
}

// Get loads the session record.
func (r *PGSessionRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	const query = `SELECT session_id, context, last_active FROM sessions WHERE session_id = $1`

	var (
		s   Session
		raw []byte
	)
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(&s.ID, &raw, &s.LastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	if err := json.Unmarshal(raw, &s.Context); err != nil {
		return Session{}, fmt.Errorf("decode session context: %w", err)
	}
	return s, nil
}

// Upsert overwrites the session record; last write wins.
func (r *PGSessionRepo) Upsert(ctx context.Context, session Session) error {
	const query = `
INSERT INTO sessions (session_id, context, last_active)
VALUES ($1, $2, $3)
ON CONFLICT (session_id) DO UPDATE
SET context = EXCLUDED.context, last_active = EXCLUDED.last_active`

	payload, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("encode session context: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, session.ID, payload, session.LastActive)
	return err
}

var _ SessionRepo = (*PGSessionRepo)(nil)
