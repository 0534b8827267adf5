package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogimport"
)

// ArticleMetadataStage turns the article hero and author badge into the
// page's Metadata block. It runs first: later stages assume the hero and
// badge are gone.
var ArticleMetadataStage = NewStage("article-metadata", ".splunkBlogsArticle-header-Wrapper", articleMetadata)

var articleExclusions = []string{
	"body #panel-sharer-overlay",
	"body .skipMainContent",
	"body .globalcomponent-enabler-header",
	"body .globalcomponent-enabler-footer",
	"body .sub-nav",
	"body .latestblog",
	"body .d-done",
	"noscript",
}

var articleStages = []Stage{
	ArticleMetadataStage,
	KeyTakeawaysStage,
	EmbedsStage,
	TablesStage,
	CardsStage,
	PromoCardsStage,
	AccordionsStage,
	FormsStage,
	QuotesStage,
	ImageFloatStage,
	CenterTextStage,
	RelatedStage,
	SidebarStage,
	LinksStage,
}

func articleMetadata(sc *StageContext, matches *goquery.Selection) error {
	hero := matches.First()
	badge := sc.Main.Find("div.splunkBlogsAuthorBadge").First()

	authorLink := badge.Find(".splunkBlogsAuthorBadge-authorName a").First()
	authorURL := attr(authorLink, "href")
	if u, ok := blogimport.RewriteLink(authorURL, sc.Config.LegacyHost); ok {
		authorURL = u
	}

	var tags []string
	sc.Main.Find("div.splunkBlogsArticle-body-tagsTagsSection a").Each(func(_ int, a *goquery.Selection) {
		if t := text(a); t != "" {
			tags = append(tags, t)
		}
	})

	var image Cell
	if img := hero.Find(".splunkBlogsArticle-header-hero-imageContainer img").First(); img.Length() > 0 {
		image = img
	}

	block := MetadataBlock([]MetaEntry{
		{Key: "Title", Value: attr(sc.Doc.Find(`meta[property="og:title"]`), "content")},
		{Key: "Description", Value: attr(sc.Doc.Find(`meta[property="og:description"]`), "content")},
		{Key: "Image", Value: image},
		{Key: "Template", Value: "Article"},
		{Key: "Author", Value: text(authorLink)},
		{Key: "Author URL", Value: authorURL},
		{Key: "Tags", Value: strings.Join(tags, "\n")},
		{Key: "Category", Value: sc.Params.Meta.Page.BlogCategory},
		{Key: "Published", Value: sc.Params.Meta.Page.BlogBylineDate},
		{Key: "Read-Time", Value: text(sc.Main.Find("div.splunkBlogsArticle-header-readTime"))},
	})

	sc.Main.AppendNodes(block)
	hero.Remove()
	badge.Remove()
	return nil
}
