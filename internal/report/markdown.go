package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"seo-backend/internal/analyses"
	"seo-backend/internal/analyses/scoring"
)

// WriteMarkdown renders an analysis as a Markdown report.
func WriteMarkdown(w io.Writer, res analyses.Result, cached bool) error {
	md := markdown.NewMarkdown(w)

	writeHeader(md, res, cached)
	writeScoreAlert(md, res.Score)
	writeIssues(md, res.Issues)
	writeRecommendations(md, res.Recommendations)
	writeFeatures(md, res)

	if res.RetrievedContext != "" {
		md.H2("Knowledge Context")
		md.PlainText("")
		md.PlainText(res.RetrievedContext)
		md.PlainText("")
	}
	return md.Build()
}

func writeHeader(md *markdown.Markdown, res analyses.Result, cached bool) {
	md.H1("SEO Report")
	md.PlainText("")

	language := res.Language
	if language == "" {
		language = "unknown"
	}
	source := "fresh"
	if cached {
		source = "cache"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + res.URL + "`"},
			{"Score", strconv.Itoa(res.Score) + "/100"},
			{"Language", language},
			{"Analyzed", res.AnalyzedAt.Format("2006-01-02 15:04:05 MST")},
			{"Source", source},
		},
	})
	md.PlainText("")
}

func writeScoreAlert(md *markdown.Markdown, score int) {
	switch {
	case score < 50:
		md.Cautionf("Score %d/100. Several core on-page signals are missing.", score)
	case score < 80:
		md.Warningf("Score %d/100. Some on-page signals need work.", score)
	default:
		md.Tip(fmt.Sprintf("Score %d/100. The page covers the basics.", score))
	}
	md.PlainText("")
}

func writeIssues(md *markdown.Markdown, issues []scoring.Issue) {
	md.H2("Issues")
	md.PlainText("")
	if len(issues) == 0 {
		md.PlainText("No issues found.")
		md.PlainText("")
		return
	}
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{issue.Severity(), string(issue)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Issue"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeRecommendations(md *markdown.Markdown, recs []scoring.Recommendation) {
	md.H2("Recommendations")
	md.PlainText("")
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{string(rec.Priority), rec.Text})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Priority", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeFeatures(md *markdown.Markdown, res analyses.Result) {
	f := res.PageFeatures
	md.H2("Page Features")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Feature", "Value"},
		Rows: [][]string{
			{"Title", f.Title},
			{"Meta description", f.MetaDescription},
			{"Headings", strconv.Itoa(len(f.Headings))},
			{"Images", strconv.Itoa(len(f.Images))},
			{"Links", strconv.Itoa(len(f.Links))},
		},
	})
	md.PlainText("")
	if len(f.Headings) > 0 {
		md.H3("Headings")
		md.PlainText("")
		md.BulletList(f.Headings...)
		md.PlainText("")
	}
}
