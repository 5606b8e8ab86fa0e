package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"seo-backend/internal/knowledge"
	"seo-backend/internal/llm"
	"seo-backend/internal/shared/metrics"
	"seo-backend/internal/shared/telemetry"
)

const (
	DefaultTopK        = 5
	maxSessionIDLength = 128
)

var ErrInvalidInput = errors.New("invalid input")

// StageError marks a failure of one collaborator step of a chat turn.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// ContextRetriever returns knowledge passages ranked against a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]knowledge.Match, error)
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Response  string   `json:"response"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"sessionId"`
}

// Assistant answers questions grounded in retrieved knowledge and the previous turn.
type Assistant struct {
	Retriever ContextRetriever
	Sessions  SessionRepo
	LLM       llm.Completer
	TopK      int
	Now       func() time.Time
}

// Chat runs one turn: retrieve, load memory, complete, overwrite memory.
// An empty sessionID starts a new session with a generated id. Once the input is
// valid, the returned Reply carries the session id even when the turn fails.
func (a *Assistant) Chat(ctx context.Context, message, sessionID string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	sessionID = strings.TrimSpace(sessionID)
	if len(sessionID) > maxSessionIDLength {
		return Reply{}, fmt.Errorf("%w: sessionId is too long", ErrInvalidInput)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := a.turn(ctx, message, sessionID)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		// The id is still returned so the client can retry in the same session.
		reply = Reply{SessionID: sessionID}
	}
	metrics.ChatTurns.WithLabelValues(outcome).Inc()
	fields := map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"session_id": sessionID,
		"outcome":    outcome,
		"sources":    len(reply.Sources),
	}
	if err != nil {
		fields["error"] = err
	}
	telemetry.Info("chat.turn", fields)
	return reply, err
}

func (a *Assistant) turn(ctx context.Context, message, sessionID string) (Reply, error) {
	matches, err := a.Retriever.Retrieve(ctx, message, a.topK())
	if err != nil {
		return Reply{}, &StageError{Stage: "retrieve", Err: err}
	}

	prior, err := a.Sessions.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Reply{}, &StageError{Stage: "load session", Err: err}
	}

	response, err := a.LLM.Complete(ctx, systemPrompt(matches, prior.Context), message)
	if err != nil {
		return Reply{}, &StageError{Stage: "complete", Err: err}
	}

	sources := uniqueSources(matches)
	next := Session{
		ID: sessionID,
		Context: Memory{
			LastMessage:  message,
			LastResponse: response,
			Sources:      sources,
			Turn:         prior.Context.Turn + 1,
		},
		LastActive: a.now(),
	}
	if err := a.Sessions.Upsert(ctx, next); err != nil {
		return Reply{}, &StageError{Stage: "save session", Err: err}
	}

	return Reply{Response: response, Sources: sources, SessionID: sessionID}, nil
}

func systemPrompt(matches []knowledge.Match, prior Memory) string {
	var b strings.Builder
	b.WriteString("You are an SEO assistant. Answer using the knowledge below and say so when it does not cover the question.\n\n")
	b.WriteString("Knowledge:\n")
	if len(matches) == 0 {
		b.WriteString("(none)\n")
	}
	for _, m := range matches {
		b.WriteString(m.Entry.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("Previous conversation:\n")
	if prior.Turn == 0 {
		b.WriteString("(none)")
		return b.String()
	}
	fmt.Fprintf(&b, "User: %s\nAssistant: %s", prior.LastMessage, prior.LastResponse)
	return b.String()
}

// uniqueSources lists source labels in retrieval order without duplicates.
func uniqueSources(matches []knowledge.Match) []string {
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		src := m.Entry.Source
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}

func (a *Assistant) topK() int {
	if a.TopK <= 0 {
		return DefaultTopK
	}
	return a.TopK
}

func (a *Assistant) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}
