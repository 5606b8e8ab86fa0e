package scoring

import (
	"fmt"
	"unicode/utf8"

	"seo-backend/internal/extract"
)

const (
	titleMin       = 30
	titleMax       = 60
	descriptionMin = 120
	descriptionMax = 160
	headingsMin    = 3
	imagesMax      = 20
	linksMin       = 3
)

const (
	penaltyMissing      = 20
	penaltyLength       = 10
	penaltyNoHeadings   = 15
	penaltyFewHeadings  = 5
	penaltyTooManyImage = 10
	penaltyFewLinks     = 10
)

// universalRecommendations are appended to every result in this order.
var universalRecommendations = []Recommendation{
	{ID: "UNIVERSAL_IMAGES", Text: "Add descriptive alt text to every image and serve compressed, properly sized files.", Priority: Medium},
	{ID: "UNIVERSAL_PAGE_SPEED", Text: "Improve page speed: minify CSS and JavaScript, enable caching and defer non-critical resources.", Priority: Medium},
	{ID: "UNIVERSAL_INTERNAL_LINKING", Text: "Link related pages together with descriptive anchor text to strengthen internal linking.", Priority: Medium},
	{ID: "UNIVERSAL_MOBILE", Text: "Make sure the page is mobile friendly with a responsive layout and readable tap targets.", Priority: Medium},
	{ID: "UNIVERSAL_HTTPS", Text: "Serve the site over HTTPS and redirect all HTTP traffic.", Priority: Low},
	{ID: "UNIVERSAL_SITEMAP", Text: "Publish an XML sitemap and submit it to search engines.", Priority: Low},
	{ID: "UNIVERSAL_STRUCTURED_DATA", Text: "Add structured data (schema.org JSON-LD) to qualify for rich results.", Priority: Low},
}

func checkTitle(f extract.PageFeatures) finding {
	if !f.HasTitle() {
		return finding{
			penalty: penaltyMissing,
			issues:  []Issue{criticalPrefix + "Missing title tag"},
			recommendation: &Recommendation{
				ID:       "TITLE_MISSING",
				Text:     fmt.Sprintf("Add a unique, descriptive title tag of %d-%d characters that includes the primary keyword.", titleMin, titleMax),
				Priority: High,
			},
		}
	}
	n := utf8.RuneCountInString(f.Title)
	switch {
	case n < titleMin:
		return finding{
			penalty: penaltyLength,
			issues:  []Issue{Issue(fmt.Sprintf("%sTitle too short (%d characters, recommended %d-%d)", warningPrefix, n, titleMin, titleMax))},
			recommendation: &Recommendation{
				ID:       "TITLE_LENGTH",
				Text:     fmt.Sprintf("Expand the title to %d-%d characters and lead with the primary keyword.", titleMin, titleMax),
				Priority: High,
			},
		}
	case n > titleMax:
		return finding{
			penalty: penaltyLength,
			issues:  []Issue{Issue(fmt.Sprintf("%sTitle too long (%d characters, recommended %d-%d)", warningPrefix, n, titleMin, titleMax))},
			recommendation: &Recommendation{
				ID:       "TITLE_LENGTH",
				Text:     fmt.Sprintf("Shorten the title to at most %d characters so it is not truncated in search results.", titleMax),
				Priority: High,
			},
		}
	}
	return finding{}
}

func checkDescription(f extract.PageFeatures) finding {
	if !f.HasDescription() {
		return finding{
			penalty: penaltyMissing,
			issues:  []Issue{criticalPrefix + "Missing meta description"},
			recommendation: &Recommendation{
				ID:       "DESCRIPTION_MISSING",
				Text:     fmt.Sprintf("Write a compelling meta description of %d-%d characters that summarizes the page.", descriptionMin, descriptionMax),
				Priority: High,
			},
		}
	}
	n := utf8.RuneCountInString(f.MetaDescription)
	switch {
	case n < descriptionMin:
		return finding{
			penalty: penaltyLength,
			issues:  []Issue{Issue(fmt.Sprintf("%sMeta description too short (%d characters, recommended %d-%d)", warningPrefix, n, descriptionMin, descriptionMax))},
			recommendation: &Recommendation{
				ID:       "DESCRIPTION_LENGTH",
				Text:     fmt.Sprintf("Expand the meta description to %d-%d characters with a clear call to action.", descriptionMin, descriptionMax),
				Priority: High,
			},
		}
	case n > descriptionMax:
		return finding{
			penalty: penaltyLength,
			issues:  []Issue{Issue(fmt.Sprintf("%sMeta description too long (%d characters, recommended %d-%d)", warningPrefix, n, descriptionMin, descriptionMax))},
			recommendation: &Recommendation{
				ID:       "DESCRIPTION_LENGTH",
				Text:     fmt.Sprintf("Trim the meta description to at most %d characters so it displays in full.", descriptionMax),
				Priority: High,
			},
		}
	}
	return finding{}
}

func checkHeadings(f extract.PageFeatures) finding {
	n := len(f.Headings)
	switch {
	case n == 0:
		return finding{
			penalty: penaltyNoHeadings,
			issues:  []Issue{criticalPrefix + "No headings found (H1-H6)"},
			recommendation: &Recommendation{
				ID:       "HEADINGS_MISSING",
				Text:     "Add a single H1 describing the page and organize sections with H2-H6 headings.",
				Priority: High,
			},
		}
	case n < headingsMin:
		return finding{
			penalty: penaltyFewHeadings,
			issues:  []Issue{Issue(fmt.Sprintf("%sOnly %d heading(s) found; content structure is thin", warningPrefix, n))},
			recommendation: &Recommendation{
				ID:       "HEADINGS_STRUCTURE",
				Text:     "Break the content into more sections with descriptive H2 and H3 headings.",
				Priority: High,
			},
		}
	}
	return finding{}
}

func checkImages(f extract.PageFeatures) finding {
	n := len(f.Images)
	switch {
	case n == 0:
		return finding{issues: []Issue{infoPrefix + "No images found; relevant images with alt text can improve engagement"}}
	case n > imagesMax:
		return finding{
			penalty: penaltyTooManyImage,
			issues:  []Issue{Issue(fmt.Sprintf("%sToo many images (%d); this may slow down page load", warningPrefix, n))},
		}
	}
	return finding{}
}

func checkLinks(f extract.PageFeatures) finding {
	if n := len(f.Links); n < linksMin {
		return finding{
			penalty: penaltyFewLinks,
			issues:  []Issue{Issue(fmt.Sprintf("%sFew links found (%d); add relevant internal and external links", warningPrefix, n))},
		}
	}
	return finding{}
}
