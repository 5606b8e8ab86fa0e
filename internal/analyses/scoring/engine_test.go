package scoring

import (
	"reflect"
	"strings"
	"testing"

	"seo-backend/internal/extract"
)

func features(title, desc string, headings, images, links int) extract.PageFeatures {
	f := extract.PageFeatures{
		Title:           title,
		MetaDescription: desc,
		Headings:        make([]string, headings),
		Images:          make([]string, images),
		Links:           make([]string, links),
	}
	return f
}

func goodFeatures() extract.PageFeatures {
	return features(strings.Repeat("t", 45), strings.Repeat("d", 140), 5, 3, 5)
}

func TestScoreShortTitleScenario(t *testing.T) {
	f := extract.Extract(`<html><head><title>Short</title></head><body></body></html>`)
	res := Score(f)

	if res.Score != 45 {
		t.Fatalf("expected score 45, got %d (issues=%v)", res.Score, res.Issues)
	}

	wantSeverities := []string{SeverityWarning, SeverityCritical, SeverityCritical, SeverityInfo, SeverityWarning}
	if len(res.Issues) != len(wantSeverities) {
		t.Fatalf("expected %d issues, got %d: %v", len(wantSeverities), len(res.Issues), res.Issues)
	}
	for i, want := range wantSeverities {
		if got := res.Issues[i].Severity(); got != want {
			t.Fatalf("issue %d: expected severity %s, got %s (%s)", i, want, got, res.Issues[i])
		}
	}
	if !strings.Contains(string(res.Issues[0]), "Title too short") {
		t.Fatalf("expected title-too-short first, got %s", res.Issues[0])
	}
	if !strings.Contains(string(res.Issues[1]), "Missing meta description") {
		t.Fatalf("expected description-missing second, got %s", res.Issues[1])
	}
	if !strings.Contains(string(res.Issues[2]), "No headings") {
		t.Fatalf("expected headings-missing third, got %s", res.Issues[2])
	}

	if len(res.Recommendations) != 3+7 {
		t.Fatalf("expected 10 recommendations, got %d", len(res.Recommendations))
	}
	wantIDs := []string{"TITLE_LENGTH", "DESCRIPTION_MISSING", "HEADINGS_MISSING"}
	for i, id := range wantIDs {
		if res.Recommendations[i].ID != id || res.Recommendations[i].Priority != High {
			t.Fatalf("recommendation %d: expected %s/High, got %+v", i, id, res.Recommendations[i])
		}
	}
	if !reflect.DeepEqual(res.Recommendations[3:], Universal()) {
		t.Fatalf("expected universal recommendations after conditional ones")
	}
}

func TestScoreMissingTitleIsExclusive(t *testing.T) {
	f := goodFeatures()
	f.Title = extract.NoTitle

	res := Score(f)
	if res.Score != 80 {
		t.Fatalf("expected only the missing-title penalty (80), got %d", res.Score)
	}
	if len(res.Issues) != 1 || res.Issues[0].Severity() != SeverityCritical {
		t.Fatalf("expected exactly one critical issue, got %v", res.Issues)
	}
}

func TestScoreTitleBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		score int
	}{
		{"29_short", 29, 90},
		{"30_ok", 30, 100},
		{"60_ok", 60, 100},
		{"61_long", 61, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := goodFeatures()
			f.Title = strings.Repeat("a", tc.n)
			if got := Score(f).Score; got != tc.score {
				t.Fatalf("expected %d, got %d", tc.score, got)
			}
		})
	}
}

func TestScoreDescriptionBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		score int
	}{
		{"119_short", 119, 90},
		{"120_ok", 120, 100},
		{"160_ok", 160, 100},
		{"161_long", 161, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := goodFeatures()
			f.MetaDescription = strings.Repeat("b", tc.n)
			if got := Score(f).Score; got != tc.score {
				t.Fatalf("expected %d, got %d", tc.score, got)
			}
		})
	}
}

func TestScoreCountsCharactersNotBytes(t *testing.T) {
	f := goodFeatures()
	f.Title = strings.Repeat("é", 60)
	if got := Score(f).Score; got != 100 {
		t.Fatalf("expected 60 multi-byte characters to pass, got %d", got)
	}
}

func TestScoreHeadingsImagesLinks(t *testing.T) {
	cases := []struct {
		name     string
		headings int
		images   int
		links    int
		score    int
		issues   int
	}{
		{"no_headings", 0, 3, 5, 85, 1},
		{"one_heading", 1, 3, 5, 95, 1},
		{"two_headings", 2, 3, 5, 95, 1},
		{"three_headings", 3, 3, 5, 100, 0},
		{"twenty_images", 5, 20, 5, 100, 0},
		{"twenty_one_images", 5, 21, 5, 90, 1},
		{"no_images_info_only", 5, 0, 5, 100, 1},
		{"two_links", 5, 3, 2, 90, 1},
		{"three_links", 5, 3, 3, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := goodFeatures()
			f.Headings = make([]string, tc.headings)
			f.Images = make([]string, tc.images)
			f.Links = make([]string, tc.links)
			res := Score(f)
			if res.Score != tc.score {
				t.Fatalf("expected score %d, got %d", tc.score, res.Score)
			}
			if len(res.Issues) != tc.issues {
				t.Fatalf("expected %d issues, got %v", tc.issues, res.Issues)
			}
		})
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	f := features(extract.NoTitle, extract.NoDescription, 0, 21, 0)
	res := Score(f)
	// 100-20-20-15-10-10 = 25, still above the floor; clamp is checked directly below.
	if res.Score != 25 {
		t.Fatalf("expected 25, got %d", res.Score)
	}
	if clamp(-5) != 0 || clamp(120) != 100 {
		t.Fatalf("clamp out of range")
	}
}

func TestScoreAlwaysAppendsUniversal(t *testing.T) {
	inputs := []extract.PageFeatures{
		goodFeatures(),
		features(extract.NoTitle, extract.NoDescription, 0, 0, 0),
		extract.Extract(""),
	}
	universal := Universal()
	for _, f := range inputs {
		res := Score(f)
		tail := res.Recommendations[len(res.Recommendations)-len(universal):]
		if !reflect.DeepEqual(tail, universal) {
			t.Fatalf("expected universal tail, got %+v", tail)
		}
		for _, rec := range res.Recommendations[:len(res.Recommendations)-len(universal)] {
			if rec.Priority != High {
				t.Fatalf("expected conditional recommendation to be High, got %+v", rec)
			}
		}
	}
	if len(universal) != 7 {
		t.Fatalf("expected 7 universal recommendations, got %d", len(universal))
	}
	wantPriorities := []Priority{Medium, Medium, Medium, Medium, Low, Low, Low}
	for i, p := range wantPriorities {
		if universal[i].Priority != p {
			t.Fatalf("universal %d: expected %s, got %s", i, p, universal[i].Priority)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	html := `<title>A page</title><meta name="description" content="desc"><h1>x</h1><a href="/">home</a>`
	first := Score(extract.Extract(html))
	second := Score(extract.Extract(html))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results")
	}
	if first.Score < 0 || first.Score > 100 {
		t.Fatalf("score out of range: %d", first.Score)
	}
}

func TestUniversalReturnsCopy(t *testing.T) {
	u := Universal()
	u[0].Text = "mutated"
	if Universal()[0].Text == "mutated" {
		t.Fatalf("expected Universal to return a copy")
	}
}

func TestIssueSeverity(t *testing.T) {
	cases := map[Issue]string{
		"Critical: x": SeverityCritical,
		"Warning: y":  SeverityWarning,
		"Info: z":     SeverityInfo,
		"unprefixed":  SeverityInfo,
	}
	for issue, want := range cases {
		if got := issue.Severity(); got != want {
			t.Fatalf("%q: expected %s, got %s", issue, want, got)
		}
	}
}
