package scoring

import "seo-backend/internal/extract"

const (
	maxScore = 100
	minScore = 0
)

// checks run in reporting order: title, description, headings, images, links.
var checks = []func(extract.PageFeatures) finding{
	checkTitle,
	checkDescription,
	checkHeadings,
	checkImages,
	checkLinks,
}

// Score rates page features. It is pure: the same features always produce the same Result.
// Conditional recommendations come first, followed by the universal ones.
func Score(f extract.PageFeatures) Result {
	score := maxScore
	issues := make([]Issue, 0, len(checks))
	recs := make([]Recommendation, 0, len(checks)+len(universalRecommendations))

	for _, check := range checks {
		found := check(f)
		score -= found.penalty
		issues = append(issues, found.issues...)
		if found.recommendation != nil {
			recs = append(recs, *found.recommendation)
		}
	}
	recs = append(recs, universalRecommendations...)

	return Result{
		Score:           clamp(score),
		Issues:          issues,
		Recommendations: recs,
	}
}

// Universal returns a copy of the recommendations emitted for every page.
func Universal() []Recommendation {
	return append([]Recommendation(nil), universalRecommendations...)
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
