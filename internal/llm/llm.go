package llm

import (
	"context"
	"errors"
)

// Completer is the generative-text collaborator. Its output is free text and
// is never parsed as structured data.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, system, user string) (string, error) {
	_ = ctx
	_, _ = system, user
	return "", ErrNotImplemented
}

var _ Completer = PlaceholderClient{}
