package analyses

import (
	"time"

	"seo-backend/internal/analyses/scoring"
	"seo-backend/internal/extract"
)

// Result is one completed analysis. It is never mutated after creation;
// a re-analysis produces a new Result.
type Result struct {
	ID               int64                    `json:"id"`
	URL              string                   `json:"url"`
	PageFeatures     extract.PageFeatures     `json:"pageFeatures"`
	Score            int                      `json:"score"`
	Issues           []scoring.Issue          `json:"issues"`
	Recommendations  []scoring.Recommendation `json:"recommendations"`
	RetrievedContext string                   `json:"retrievedContext"`
	Language         string                   `json:"language"`
	AnalyzedAt       time.Time                `json:"analyzedAt"`
}

// HistoryItem is the summary row returned by History.
type HistoryItem struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}
