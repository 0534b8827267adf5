package goquery

import (
	"encoding/json"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogimport"
)

// PageMeta is the page metadata the legacy site embeds as a splunkMeta
// script payload.
type PageMeta struct {
	Page struct {
		BlogCategory   string `json:"blogCategory"`
		BlogBylineDate string `json:"blogBylineDate"`
	} `json:"page"`
}

// Params carries the values preprocess collects for later stages. One is
// created per transform and discarded with it.
type Params struct {
	// OriginalURL is the page URL before the import proxy.
	OriginalURL string

	// Meta is the parsed embedded page metadata.
	Meta PageMeta

	// SocialLinks are the author's social profile URLs.
	SocialLinks []string

	// FragmentPath overrides the output path of experience fragments.
	FragmentPath string
}

var metaScript = regexp.MustCompile(`(?s)splunkMeta\s*=\s*(\{.*\})`)

// parsePageMeta decodes the first script assigning splunkMeta. A page
// without one yields zero metadata; an unparsable payload is an error.
func parsePageMeta(doc *goquery.Document) (PageMeta, error) {
	var meta PageMeta
	var payload string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := metaScript.FindStringSubmatch(s.Text()); m != nil {
			payload = m[1]
			return false
		}
		return true
	})
	if payload == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(payload), &meta); err != nil {
		return meta, blogimport.Errorf(blogimport.EINVALID, "parsing splunkMeta payload: %v", err)
	}
	return meta, nil
}

// socialLinks collects social profile URLs from icon anchors and from the
// author badge's icon list, in document order without duplicates.
func socialLinks(doc *goquery.Document) []string {
	var links []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	}
	doc.Find(`a[class*="socialIcon-"]`).Each(func(_ int, s *goquery.Selection) {
		add(attr(s, "href"))
	})
	doc.Find(".splunkBlogsAuthorBadge-socialIcons > div").Each(func(_ int, s *goquery.Selection) {
		add(text(s))
	})
	return links
}

// floatingPromoPath returns the fragment page path the floating promo card
// links to, or "" when the page has none.
func floatingPromoPath(doc *goquery.Document, locale string) string {
	a := doc.Find(".cmp-experiencefragment--floating-promo-card .main-content a:has(span)").First()
	href := attr(a, "href")
	if href == "" {
		return ""
	}
	return blogimport.FragmentPath(locale, href)
}
