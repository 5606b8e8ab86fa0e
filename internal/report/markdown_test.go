package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"seo-backend/internal/analyses"
	"seo-backend/internal/analyses/scoring"
	"seo-backend/internal/extract"
)

func TestWriteMarkdownIncludesSections(t *testing.T) {
	features := extract.Extract(`<html><head><title>Short</title></head><body><h1>Welcome</h1></body></html>`)
	scored := scoring.Score(features)
	res := analyses.Result{
		URL:              "https://example.com",
		PageFeatures:     features,
		Score:            scored.Score,
		Issues:           scored.Issues,
		Recommendations:  scored.Recommendations,
		RetrievedContext: "Titles should be 30-60 characters.",
		AnalyzedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, res, true); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# SEO Report",
		"https://example.com",
		"## Issues",
		"## Recommendations",
		"## Page Features",
		"- Welcome",
		"Titles should be 30-60 characters.",
		"cache",
		"unknown",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected report to contain %q:\n%s", want, out)
		}
	}
	for _, rec := range scoring.Universal() {
		if !strings.Contains(out, rec.Text) {
			t.Fatalf("expected universal recommendation %s in report", rec.ID)
		}
	}
}
