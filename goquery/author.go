package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogimport"
	"github.com/microcosm-cc/bluemonday"
)

// Author page stages.
var (
	AuthorMetadataStage = NewStage("author-metadata", ".splunkBlogsAuthorBadge", authorMetadata)
	AuthorArticlesStage = NewStage("author-articles", "body", authorArticles)
)

var authorExclusions = []string{
	"body #panel-sharer-overlay",
	"body .skipMainContent",
	"body .globalcomponent-enabler-header",
	"body .globalcomponent-enabler-footer",
	"body .experience-fragment.experiencefragment",
	"body .latestblog",
	"body .d-done",
	"iframe",
	"noscript",
}

var authorStages = []Stage{
	AuthorMetadataStage,
	AuthorArticlesStage,
	LinksStage,
}

// bioPolicy strips scripts and event handlers from the author bio before it
// is inlined into the page.
var bioPolicy = bluemonday.UGCPolicy()

func authorMetadata(sc *StageContext, matches *goquery.Selection) error {
	badge := matches.First()

	name := text(badge.Find("h1.splunkBlogsAuthorBadge-authorName"))
	if name == "" {
		name = "Author"
	}

	var image Cell
	if img := badge.Find("img.splunkBlogsAuthorBadge-image-src").First(); img.Length() > 0 {
		image = img
	}

	var bio string
	if p := badge.Find("div.splunkBlogsAuthorBadge-authorDescription > p").First(); p.Length() > 0 {
		h, err := p.Html()
		if err != nil {
			return blogimport.Errorf(blogimport.EINVALID, "%s: reading author bio: %v", sc.URL, err)
		}
		bio = strings.TrimSpace(bioPolicy.Sanitize(h))
	}

	sc.Main.AppendNodes(MetadataBlock([]MetaEntry{
		{Key: "Template", Value: "Author"},
		{Key: "Author", Value: name},
		{Key: "Image", Value: image},
		{Key: "Social URLs", Value: strings.Join(sc.Params.SocialLinks, "\n")},
	}))
	if bio != "" {
		sc.Main.AppendHtml("<div>" + bio + "</div>")
	}
	badge.Remove()
	return nil
}

// authorArticles appends the paginated list of the author's articles.
func authorArticles(sc *StageContext, _ *goquery.Selection) error {
	u, err := url.Parse(sc.URL)
	if err != nil {
		return blogimport.Errorf(blogimport.EINVALID, "invalid page URL %q: %v", sc.URL, err)
	}
	authorURL := strings.TrimRight(sc.Config.EdgeURL, "/") + blogimport.LocalePath(u.Path)

	sc.Main.AppendNodes(BuildTable([][]Cell{
		{"Article List"},
		{"Display Mode", "Paginated"},
		{"Filter", "Author"},
		{"Author URL", newLink(authorURL, authorURL)},
		{"Limit", sc.Config.ArticleListLimit},
	}))
	return nil
}
