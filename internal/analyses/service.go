package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"seo-backend/internal/analyses/scoring"
	"seo-backend/internal/cache"
	"seo-backend/internal/extract"
	"seo-backend/internal/knowledge"
	"seo-backend/internal/shared/metrics"
	"seo-backend/internal/shared/telemetry"
)

const (
	DefaultTopK          = 10
	DefaultContextBudget = 500
	DefaultCacheTTL      = time.Hour
	DefaultHistoryLimit  = 10
	MaxHistoryLimit      = 100

	contextSeparator = "\n\n"
)

const (
	StatusStarted   = "started"
	StatusCacheHit  = "cache_hit"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// PageFetcher returns the raw HTML of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// ContextRetriever returns knowledge passages ranked against a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]knowledge.Match, error)
}

// Service runs the analysis pipeline: fetch, extract, retrieve, score, persist, cache.
type Service struct {
	Fetcher   PageFetcher
	Retriever ContextRetriever
	Repo      Repo
	Cache     cache.Store

	TopK          int
	ContextBudget int
	CacheTTL      time.Duration
	HistoryLimit  int
	// Dedupe collapses concurrent cache misses for the same URL into one run.
	Dedupe bool

	Now func() time.Time

	group singleflight.Group
}

// ValidateURL trims raw and requires an absolute http(s) URL with a host.
func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: url is not parseable", ErrInvalidInput)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: url must use http or https", ErrInvalidInput)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: url must include a host", ErrInvalidInput)
	}
	return trimmed, nil
}

// AnalyzeCached returns the cached result for the URL when present, otherwise runs Analyze.
// The bool reports whether the result came from the cache.
func (s *Service) AnalyzeCached(ctx context.Context, rawURL string) (Result, bool, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return Result{}, false, err
	}

	raw, ok, err := s.Cache.Get(ctx, target)
	if err != nil {
		metrics.AnalysisFailed.WithLabelValues("cache_read").Inc()
		return Result{}, false, stageErr("cache read", err)
	}
	if ok {
		var cached Result
		if err := json.Unmarshal(raw, &cached); err != nil {
			// Undecodable entries are recomputed and overwritten.
			telemetry.Warn("analysis.cache_decode_failed", map[string]any{
				"request_id": telemetry.RequestID(ctx),
				"url":        target,
				"error":      err,
			})
		} else {
			metrics.AnalysisCacheHits.Inc()
			telemetry.Info("analysis.status", map[string]any{
				"request_id":        telemetry.RequestID(ctx),
				"url":               target,
				"analysis_id":       cached.ID,
				"status":            StatusCacheHit,
				"status_transition": "started->cache_hit",
			})
			return cached, true, nil
		}
	}

	if !s.Dedupe {
		result, err := s.Analyze(ctx, target)
		return result, false, err
	}
	// The shared run outlives any single caller; each caller only stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(target, func() (any, error) {
		return s.Analyze(shared, target)
	})
	select {
	case <-ctx.Done():
		return Result{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Result{}, false, res.Err
		}
		return res.Val.(Result), false, nil
	}
}

// Analyze runs the full pipeline for one URL. Nothing is persisted or cached unless
// every earlier step succeeded.
func (s *Service) Analyze(ctx context.Context, rawURL string) (Result, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return Result{}, err
	}

	startedAt := time.Now()
	metrics.AnalysisStarted.Inc()
	telemetry.Info("analysis.status", map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"url":        target,
		"status":     StatusStarted,
	})

	html, err := s.Fetcher.Fetch(ctx, target)
	if err != nil {
		// *fetch.Error stays reachable through errors.As.
		return Result{}, s.fail(ctx, target, "fetch", err, startedAt)
	}

	features := extract.Extract(html)

	matches, err := s.Retriever.Retrieve(ctx, retrievalQuery(features, target), s.topK())
	if err != nil {
		return Result{}, s.fail(ctx, target, "retrieve", err, startedAt)
	}

	scored := scoring.Score(features)

	result := Result{
		URL:              target,
		PageFeatures:     features,
		Score:            scored.Score,
		Issues:           scored.Issues,
		Recommendations:  scored.Recommendations,
		RetrievedContext: joinContext(matches, s.contextBudget()),
		Language:         extract.DetectLanguage(features),
		AnalyzedAt:       s.now(),
	}

	id, err := s.Repo.Create(ctx, result)
	if err != nil {
		return Result{}, s.fail(ctx, target, "persist", err, startedAt)
	}
	result.ID = id

	payload, err := json.Marshal(result)
	if err != nil {
		return Result{}, s.fail(ctx, target, "encode", err, startedAt)
	}
	if err := s.Cache.Set(ctx, target, payload, s.cacheTTL()); err != nil {
		return Result{}, s.fail(ctx, target, "cache write", err, startedAt)
	}

	metrics.AnalysisCompleted.Inc()
	metrics.ObserveAnalysis(startedAt)
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        telemetry.RequestID(ctx),
		"url":               target,
		"analysis_id":       id,
		"score":             result.Score,
		"status":            StatusCompleted,
		"status_transition": "started->completed",
		"duration_ms":       durationMs(startedAt),
	})
	return result, nil
}

// History lists recent analyses, newest first. A non-positive limit selects the
// configured default; the result never exceeds MaxHistoryLimit rows.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryItem, error) {
	if limit <= 0 {
		limit = s.HistoryLimit
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	items, err := s.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, stageErr("history", err)
	}
	return items, nil
}

func (s *Service) fail(ctx context.Context, target, stage string, err error, startedAt time.Time) error {
	metrics.AnalysisFailed.WithLabelValues(stage).Inc()
	metrics.ObserveAnalysis(startedAt)
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        telemetry.RequestID(ctx),
		"url":               target,
		"status":            StatusFailed,
		"status_transition": "started->failed",
		"stage":             stage,
		"error":             err,
		"duration_ms":       durationMs(startedAt),
	})
	return stageErr(stage, err)
}

// retrievalQuery builds the knowledge query from the page title and description,
// falling back to headings and then the URL when both are absent.
func retrievalQuery(f extract.PageFeatures, target string) string {
	parts := make([]string, 0, 2)
	if f.HasTitle() {
		parts = append(parts, f.Title)
	}
	if f.HasDescription() {
		parts = append(parts, f.MetaDescription)
	}
	if len(parts) == 0 {
		parts = append(parts, f.Headings...)
	}
	query := strings.TrimSpace(strings.Join(parts, " "))
	if query == "" {
		return target
	}
	return query
}

// joinContext concatenates matched passages and truncates the result to budget runes.
func joinContext(matches []knowledge.Match, budget int) string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Entry.Text)
	}
	joined := strings.Join(texts, contextSeparator)
	runes := []rune(joined)
	if budget >= 0 && len(runes) > budget {
		return string(runes[:budget])
	}
	return joined
}

func (s *Service) topK() int {
	if s.TopK <= 0 {
		return DefaultTopK
	}
	return s.TopK
}

func (s *Service) contextBudget() int {
	if s.ContextBudget <= 0 {
		return DefaultContextBudget
	}
	return s.ContextBudget
}

func (s *Service) cacheTTL() time.Duration {
	if s.CacheTTL <= 0 {
		return DefaultCacheTTL
	}
	return s.CacheTTL
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func durationMs(startedAt time.Time) float64 {
	return float64(time.Since(startedAt).Microseconds()) / 1000.0
}

// IsUpstream reports whether err came from a collaborator step rather than bad input.
func IsUpstream(err error) bool {
	var se *StageError
	return errors.As(err, &se)
}
