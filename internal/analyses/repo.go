package analyses

import "context"

// Repo defines persistence operations for analyses.
type Repo interface {
	// Create inserts a new row and returns its generated id.
	Create(ctx context.Context, result Result) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]HistoryItem, error)
}
