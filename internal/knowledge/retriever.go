package knowledge

import (
	"context"
	"fmt"
	"sort"
	"time"

	"seo-backend/internal/llm"
	"seo-backend/internal/shared/metrics"
)

// Retriever embeds a query and ranks corpus passages against it.
type Retriever struct {
	Embedder llm.Embedder
	Index    Index
}

// Retrieve returns at most topK matches in non-increasing score order.
// Embedding and index failures are returned, never masked.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		return []Match{}, nil
	}
	defer metrics.ObserveRetrieval(time.Now())

	vec, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := r.Index.Query(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	// Index order is authoritative for ties; the stable sort only guards the score order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
