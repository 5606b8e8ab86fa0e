package knowledge

import (
	"context"
	"database/sql"
	"math"

	"github.com/pgvector/pgvector-go"
)

// PGIndex implements Index on the knowledge_base table using pgvector cosine distance.
// Ties are broken by seq, the insertion order.
type PGIndex struct {
	DB *sql.DB
}

// Insert stores the entry. Re-inserting an existing id is a no-op.
func (p *PGIndex) Insert(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO knowledge_base (id, content, category, source, embedding)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`
	_, err := p.DB.ExecContext(ctx, query,
		entry.ID,
		entry.Text,
		entry.Category,
		entry.Source,
		pgvector.NewVector(entry.Embedding),
	)
	return err
}

// Query returns the topK nearest entries with score = 1 - cosine distance.
// A zero query vector has no defined distance and scores 0 against every entry, as in MemoryIndex.
func (p *PGIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		return []Match{}, nil
	}
	const query = `
SELECT id, content, category, source, embedding,
       COALESCE(NULLIF(1 - (embedding <=> $1), 'NaN'::float8), 0) AS score
FROM knowledge_base
ORDER BY embedding <=> $1, seq
LIMIT $2`
	rows, err := p.DB.QueryContext(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]Match, 0, topK)
	for rows.Next() {
		var (
			m   Match
			vec pgvector.Vector
		)
		if err := rows.Scan(&m.Entry.ID, &m.Entry.Text, &m.Entry.Category, &m.Entry.Source, &vec, &m.Score); err != nil {
			return nil, err
		}
		if math.IsNaN(m.Score) {
			m.Score = 0
		}
		m.Entry.Embedding = vec.Slice()
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Count returns the number of stored entries.
func (p *PGIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.DB.QueryRowContext(ctx, `SELECT count(*) FROM knowledge_base`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ Index = (*PGIndex)(nil)
