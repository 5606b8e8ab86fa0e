package scoring

import "strings"

// Priority ranks a recommendation.
type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

// Recommendation is a deterministic suggestion derived from page features.
type Recommendation struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
}

// Issue is a human-readable finding whose severity is carried by its prefix.
type Issue string

// Severity values parsed from an Issue prefix.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

const (
	criticalPrefix = "Critical: "
	warningPrefix  = "Warning: "
	infoPrefix     = "Info: "
)

// Severity returns critical, warning or info based on the issue prefix.
func (i Issue) Severity() string {
	switch {
	case strings.HasPrefix(string(i), criticalPrefix):
		return SeverityCritical
	case strings.HasPrefix(string(i), warningPrefix):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Result is the output of Score.
type Result struct {
	Score           int              `json:"score"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
}

// finding is what a single field check contributes.
type finding struct {
	penalty        int
	issues         []Issue
	recommendation *Recommendation
}
