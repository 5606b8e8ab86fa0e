package chat

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("not found")

// Memory is the summary of the most recent turn of a session.
type Memory struct {
	LastMessage  string   `json:"lastMessage"`
	LastResponse string   `json:"lastResponse"`
	Sources      []string `json:"sources"`
	Turn         int      `json:"turn"`
}

// Session is one record per session id; every turn overwrites it.
type Session struct {
	ID         string
	Context    Memory
	LastActive time.Time
}

// SessionRepo stores session memory.
type SessionRepo interface {
	// Get returns ErrNotFound when the session has no record yet.
	Get(ctx context.Context, sessionID string) (Session, error)
	// Upsert replaces the record for the session id.
	Upsert(ctx context.Context, session Session) error
}

// MemorySessionRepo keeps sessions in process memory.
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]Session)}
}

func (r *MemorySessionRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, ErrNotFound
	}
	s.Context.Sources = append([]string(nil), s.Context.Sources...)
	return s, nil
}

func (r *MemorySessionRepo) Upsert(ctx context.Context, session Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	session.Context.Sources = append([]string(nil), session.Context.Sources...)
	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return nil
}

var _ SessionRepo = (*MemorySessionRepo)(nil)
