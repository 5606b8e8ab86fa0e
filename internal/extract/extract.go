package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"
)

const (
	// NoTitle stands in for a missing or empty <title>.
	NoTitle = "No title found"
	// NoDescription stands in for a missing meta description.
	NoDescription = "No meta description"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// PageFeatures are the structural signals pulled out of one page.
type PageFeatures struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	Headings        []string `json:"headings"`
	Images          []string `json:"images"`
	Links           []string `json:"links"`
}

// HasTitle reports whether a real title was found.
func (f PageFeatures) HasTitle() bool { return f.Title != NoTitle }

// HasDescription reports whether a real meta description was found.
func (f PageFeatures) HasDescription() bool { return f.MetaDescription != NoDescription }

// Extract scans raw HTML for title, meta description, headings, image sources and link targets.
// It never fails: absent fields yield the sentinel strings or empty slices.
// Attribute values are returned as written; relative URLs are not resolved.
func Extract(html string) PageFeatures {
	out := PageFeatures{
		Title:           NoTitle,
		MetaDescription: NoDescription,
		Headings:        []string{},
		Images:          []string{},
		Links:           []string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		out.Title = title
	}

	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		if content := strings.TrimSpace(s.AttrOr("content", "")); content != "" {
			out.MetaDescription = content
		}
		return false
	})

	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		out.Headings = append(out.Headings, collapseSpace(s.Text()))
	})

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		out.Images = append(out.Images, src)
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		out.Links = append(out.Links, href)
	})

	return out
}

// DetectLanguage guesses the page language (ISO 639-3) from its visible text fields.
// It returns "" when the guess is unreliable.
func DetectLanguage(f PageFeatures) string {
	parts := make([]string, 0, len(f.Headings)+2)
	if f.HasTitle() {
		parts = append(parts, f.Title)
	}
	if f.HasDescription() {
		parts = append(parts, f.MetaDescription)
	}
	parts = append(parts, f.Headings...)
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6393()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
