package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"
)

// FloatingPromoStage converts the floating promo card of an experience
// fragment page.
var FloatingPromoStage = NewStage("floating-promo", ".cmp-experiencefragment--floating-promo-card .main-content", floatingPromo)

// fragmentExclusions strip everything an article page shares with the
// fragment, leaving only the fragment content.
var fragmentExclusions = []string{
	"body #panel-sharer-overlay",
	"body .skipMainContent",
	"body .globalcomponent-enabler-header",
	"body .cmp-experiencefragment--sub-nav-blogs",
	"body .splunkBlogsArticle-body-header",
	"body .splunkBlogsArticle-header-Wrapper",
	"body .splunkBlogsArticle-body-content",
	"body .splunkBlogsArticle-body-author",
	"body .splunkBlogsArticle-body-sidebarExploreMoreSection",
	"body .latestblog",
	"body .splunkBlogsArticle-body-tags",
	"body .cmp-experiencefragment--disclaimer",
	"body .cmp-experiencefragment--about-splunk",
	"body .cmp-experiencefragment--subscribe-footer",
	"body .globalcomponent-enabler-footer",
	"body .d-done",
	"noscript",
	"iframe",
}

var fragmentStages = []Stage{
	FloatingPromoStage,
	LinksStage,
}

func floatingPromo(_ *StageContext, matches *goquery.Selection) error {
	card := matches.First()

	title := text(card.Find(".tabContent > p > span"))
	body := text(card.Find(".tabContent p:nth-of-type(2)"))
	pic := card.Find("picture").First()
	link := card.Find("a:has(span)").First()

	container := newElement(atom.Div)
	appendCell(container, pic)
	container.AppendChild(wrap(atom.B, title))
	container.AppendChild(wrap(atom.P, body))
	appendCell(container, link)

	replaceWithBlock(card.Get(0), [][]Cell{
		{"Floating Promo"},
		{container},
	})
	return nil
}
