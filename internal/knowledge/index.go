package knowledge

import (
	"context"
	"errors"
)

// Entry is one passage of the retrieval corpus. Entries are write-once.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Category  string    `json:"category" yaml:"category"`
	Text      string    `json:"text" yaml:"text"`
	Source    string    `json:"source" yaml:"source"`
	Embedding []float32 `json:"-" yaml:"-"`
}

// Match is an entry with its similarity to a query vector.
type Match struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// Index is the vector index collaborator.
// Query returns matches in non-increasing score order; equal scores keep insertion order.
type Index interface {
	Insert(ctx context.Context, entry Entry) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Count(ctx context.Context) (int, error)
}

// ErrDimensionMismatch is returned when a vector's length differs from the index's.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")
