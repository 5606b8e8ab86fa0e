package analyses

import (
	"context"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	rows   []Result
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends the result with the next id.
func (r *MemoryRepo) Create(ctx context.Context, result Result) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	result.ID = r.nextID
	r.rows = append(r.rows, result)
	return result.ID, nil
}

// ListRecent returns up to limit rows, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]HistoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []HistoryItem{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]HistoryItem, 0, min(limit, len(r.rows)))
	for i := len(r.rows) - 1; i >= 0 && len(items) < limit; i-- {
		row := r.rows[i]
		items = append(items, HistoryItem{
			ID:        row.ID,
			URL:       row.URL,
			Title:     row.PageFeatures.Title,
			Score:     row.Score,
			CreatedAt: row.AnalyzedAt,
		})
	}
	return items, nil
}

var _ Repo = (*MemoryRepo)(nil)
