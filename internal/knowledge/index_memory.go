package knowledge

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-process cosine-similarity index, safe for concurrent use.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries []Entry
	ids     map[string]struct{}
}

// NewMemoryIndex constructs an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{ids: make(map[string]struct{})}
}

// Insert appends the entry. Re-inserting an existing id is a no-op.
func (m *MemoryIndex) Insert(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ids[entry.ID]; ok {
		return nil
	}
	if len(m.entries) > 0 && len(m.entries[0].Embedding) != len(entry.Embedding) {
		return ErrDimensionMismatch
	}
	entry.Embedding = append([]float32(nil), entry.Embedding...)
	m.entries = append(m.entries, entry)
	m.ids[entry.ID] = struct{}{}
	return nil
}

// Query ranks all entries by cosine similarity to vector.
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []Match{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.entries))
	for _, e := range m.entries {
		if len(e.Embedding) != len(vector) {
			return nil, ErrDimensionMismatch
		}
		matches = append(matches, Match{Entry: e, Score: cosine(vector, e.Embedding)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Count returns the number of stored entries.
func (m *MemoryIndex) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func cosine(a, b []float32) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

var _ Index = (*MemoryIndex)(nil)
