package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis row and returns its id.
func (r *PGRepo) Create(ctx context.Context, result Result) (int64, error) {
	const query = `
INSERT INTO analyses (url, features, score, recommendations, issues, language, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	features, err := marshalJSONB(result.PageFeatures)
	if err != nil {
		return 0, fmt.Errorf("marshal features: %w", err)
	}
	recs, err := marshalJSONB(result.Recommendations)
	if err != nil {
		return 0, fmt.Errorf("marshal recommendations: %w", err)
	}
	issues, err := marshalJSONB(result.Issues)
	if err != nil {
		return 0, fmt.Errorf("marshal issues: %w", err)
	}

	var id int64
	err = r.DB.QueryRowContext(ctx, query,
		result.URL,
		features,
		result.Score,
		recs,
		issues,
		result.Language,
		result.AnalyzedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListRecent lists analyses newest-first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]HistoryItem, error) {
	const query = `
SELECT id, url, COALESCE(features->>'title', ''), score, created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []HistoryItem{}
	for rows.Next() {
		var item HistoryItem
		if err := rows.Scan(&item.ID, &item.URL, &item.Title, &item.Score, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalJSONB(value any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}

var _ Repo = (*PGRepo)(nil)
