package goquery

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogimport"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Content stages shared by the templates. Each replaces its matches with
// block tables in place.
var (
	KeyTakeawaysStage = NewStage("key-takeaways", ".splunkBlogsArticle-body-keyTakeaways", keyTakeaways)
	EmbedsStage       = NewStage("embeds", "iframe[src], video[src], audio[src], video source[src], audio source[src]", embeds)
	TablesStage       = NewStage("tables", ".cmp-table table", tables)
	CardsStage        = NewStage("cards", ".cmp-cards", cards)
	PromoCardsStage   = NewStage("promo-cards", ".cmp-promo-card", promoCards)
	AccordionsStage   = NewStage("accordions", ".cmp-accordion", accordions)
	FormsStage        = NewStage("forms", "form[id^='mktoForm_']", forms)
	QuotesStage       = NewStage("quotes", ".cmp-quote, blockquote", quotes)
	ImageFloatStage   = NewStage("image-float", "img.float-left, img.float-right, img[style*='float']", imageFloat)
	CenterTextStage   = NewStage("center-text", ".cmp-text.text-center, p[style*='text-align']", centerText)
	RelatedStage      = NewStage("related-articles", ".splunkBlogsArticle-body-relatedArticles", relatedArticles)
	SidebarStage      = NewStage("sidebar-fragments", ".splunkBlogsArticle-body-sidebar .cmp-experiencefragment", sidebarFragments)
	LinksStage        = NewStage("links", "a[href]", rewriteLinks)
)

func keyTakeaways(_ *StageContext, matches *goquery.Selection) error {
	outermost(matches, ".splunkBlogsArticle-body-keyTakeaways").Each(func(_ int, s *goquery.Selection) {
		replaceWithBlock(s.Get(0), [][]Cell{
			{"Key Takeaways"},
			{s.Contents()},
		})
	})
	return nil
}

// embeds replaces each iframe, video or audio element with a block linking
// its source, resolved against the page URL. A media element is replaced
// once, using its own src or else its first source child. Media from an
// unknown provider is named after the element.
func embeds(sc *StageContext, matches *goquery.Selection) error {
	base, _ := url.Parse(sc.URL)
	done := make(map[*html.Node]bool)
	matches.Each(func(_ int, s *goquery.Selection) {
		target := s
		if goquery.NodeName(s) == "source" {
			target = s.Closest("video, audio")
		}
		n := target.Get(0)
		if n == nil || done[n] {
			return
		}
		src := attr(s, "src")
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}
		if src == "" {
			return
		}
		if ref, err := url.Parse(src); err == nil && base != nil {
			src = base.ResolveReference(ref).String()
		}
		done[n] = true

		name := ClassifyEmbed(src)
		switch {
		case name != "Embed":
		case n.DataAtom == atom.Video:
			name = "Video"
		case n.DataAtom == atom.Audio:
			name = "Audio"
		}
		replaceWithBlock(n, [][]Cell{
			{name},
			{newLink(src, src)},
		})
	})
	return nil
}

// tables converts each table on its own. A table that cannot be converted
// is logged and left as it is; the rest of the page still transforms.
func tables(sc *StageContext, matches *goquery.Selection) error {
	matches.Each(func(i int, s *goquery.Selection) {
		cells, err := tableCells(s)
		if err != nil {
			sc.Logger.Warn("table left untransformed",
				"url", sc.URL,
				"table", i+1,
				"err", err,
			)
			return
		}
		replaceWithBlock(s.Get(0), cells)
	})
	return nil
}

var errNoRows = errors.New("table has no rows")

// tableCells reads a legacy table into block cells. Header rows are every
// row of a thead, or else a first row made only of th cells; header cells
// are wrapped in <strong>, body cells keep their markup. A caption becomes
// the row after the label. Columns whose body cells are all centered add a
// center-N token to the label.
func tableCells(t *goquery.Selection) ([][]Cell, error) {
	rows := t.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr").
		AddSelection(t.ChildrenFiltered("tr"))
	if rows.Length() == 0 {
		return nil, errNoRows
	}

	header := t.ChildrenFiltered("thead").ChildrenFiltered("tr")
	if header.Length() == 0 {
		first := rows.First()
		if first.Children().Length() > 0 && first.Children().Not("th").Length() == 0 {
			header = first
		}
	}
	body := rows.NotSelection(header)

	var tokens []string
	if header.Length() == 0 {
		tokens = append(tokens, "no header")
	}
	for _, col := range centeredColumns(body) {
		tokens = append(tokens, fmt.Sprintf("center-%d", col))
	}

	cells := [][]Cell{{blockLabel("Table", tokens)}}
	if caption := t.ChildrenFiltered("caption").First(); strings.TrimSpace(caption.Text()) != "" {
		cells = append(cells, []Cell{caption.Contents()})
	}
	header.Each(func(_ int, r *goquery.Selection) {
		var row []Cell
		r.ChildrenFiltered("th, td").Each(func(_ int, c *goquery.Selection) {
			strong := newElement(atom.Strong)
			moveChildren(strong, c.Get(0))
			row = append(row, strong)
		})
		if len(row) > 0 {
			cells = append(cells, row)
		}
	})
	body.Each(func(_ int, r *goquery.Selection) {
		var row []Cell
		r.ChildrenFiltered("th, td").Each(func(_ int, c *goquery.Selection) {
			row = append(row, c.Contents())
		})
		if len(row) > 0 {
			cells = append(cells, row)
		}
	})
	return cells, nil
}

// centeredColumns returns the 1-based indexes of columns where every body
// cell present is centered.
func centeredColumns(body *goquery.Selection) []int {
	var centered, seen []bool
	body.Each(func(_ int, r *goquery.Selection) {
		r.ChildrenFiltered("th, td").Each(func(j int, c *goquery.Selection) {
			for len(seen) <= j {
				seen = append(seen, false)
				centered = append(centered, true)
			}
			seen[j] = true
			centered[j] = centered[j] && (isCentered(c) || c.Children().Length() == 1 && isCentered(c.Children()))
		})
	})
	var cols []int
	for j := range seen {
		if seen[j] && centered[j] {
			cols = append(cols, j+1)
		}
	}
	return cols
}

// cards turns each outermost card grid into one Cards block with a row per
// card. A card without a title is malformed and fails the page.
func cards(sc *StageContext, matches *goquery.Selection) error {
	var err error
	outermost(matches, ".cmp-cards").EachWithBreak(func(i int, grid *goquery.Selection) bool {
		items := ownItems(grid, ".cmp-card", ".cmp-cards")
		if items.Length() == 0 {
			return true
		}
		items.EachWithBreak(func(j int, card *goquery.Selection) bool {
			if card.Find(".cmp-card__title").Length() == 0 {
				err = blogimport.Errorf(blogimport.EINVALID, "%s: card %d of grid %d has no title", sc.URL, j+1, i+1)
				return false
			}
			return true
		})
		if err != nil {
			return false
		}

		cells := [][]Cell{{"Cards"}}
		items.Each(func(_ int, card *goquery.Selection) {
			body := newElement(atom.Div)
			h := newElement(atom.H3)
			moveChildren(h, card.Find(".cmp-card__title").First().Get(0))
			body.AppendChild(h)
			if desc := card.Find(".cmp-card__description").First(); desc.Length() > 0 {
				p := newElement(atom.P)
				moveChildren(p, desc.Get(0))
				body.AppendChild(p)
			}
			if link := card.Find("a.cmp-card__link, a[href]").First(); link.Length() > 0 {
				appendCell(body, link)
			}

			row := []Cell{body}
			if img := card.Find(".cmp-card__image img, img").First(); img.Length() > 0 {
				row = []Cell{img, body}
			}
			cells = append(cells, row)
		})
		replaceWithBlock(grid.Get(0), cells)
		return true
	})
	return err
}

func promoCards(_ *StageContext, matches *goquery.Selection) error {
	outermost(matches, ".cmp-promo-card").Each(func(_ int, card *goquery.Selection) {
		label := PromoLabel(card)
		var row []Cell
		if pic := card.Find("picture, img").First(); pic.Length() > 0 {
			n := pic.Get(0)
			detach(n)
			row = append(row, n)
		}
		row = append(row, card.Contents())
		replaceWithBlock(card.Get(0), [][]Cell{{label}, row})
	})
	return nil
}

// accordions turns each outermost accordion into one block with a row per
// item. A nested accordion stays in the panel that holds it.
func accordions(_ *StageContext, matches *goquery.Selection) error {
	outermost(matches, ".cmp-accordion").Each(func(_ int, acc *goquery.Selection) {
		items := ownItems(acc, ".cmp-accordion__item", ".cmp-accordion")
		if items.Length() == 0 {
			return
		}
		cells := [][]Cell{{"Accordion"}}
		items.Each(func(_ int, item *goquery.Selection) {
			row := []Cell{text(item.Find(".cmp-accordion__title").First())}
			if panel := item.Find(".cmp-accordion__panel").First(); panel.Length() > 0 {
				row = append(row, panel.Contents())
			}
			cells = append(cells, row)
		})
		replaceWithBlock(acc.Get(0), cells)
	})
	return nil
}

func forms(_ *StageContext, matches *goquery.Selection) error {
	matches.Each(func(_ int, f *goquery.Selection) {
		id := strings.TrimPrefix(attr(f, "id"), "mktoForm_")
		replaceWithBlock(f.Get(0), [][]Cell{
			{"Form"},
			{"Form ID", id},
		})
	})
	return nil
}

func quotes(_ *StageContext, matches *goquery.Selection) error {
	outermost(matches, ".cmp-quote, blockquote").Each(func(_ int, q *goquery.Selection) {
		author := q.Find(".cmp-quote__author, cite, footer").First()
		name := text(author)
		author.Remove()

		cells := [][]Cell{{"Quote"}, {q.Contents()}}
		if name != "" {
			cells = append(cells, []Cell{name})
		}
		replaceWithBlock(q.Get(0), cells)
	})
	return nil
}

func imageFloat(_ *StageContext, matches *goquery.Selection) error {
	matches.Each(func(_ int, img *goquery.Selection) {
		side := ""
		switch {
		case img.HasClass("float-left"):
			side = "left"
		case img.HasClass("float-right"):
			side = "right"
		default:
			if m := floatStyle.FindStringSubmatch(attr(img, "style")); m != nil {
				side = strings.ToLower(m[1])
			}
		}
		if side == "" {
			return
		}
		replaceWithBlock(img.Get(0), [][]Cell{
			{blockLabel("Image", []string{"float " + side})},
			{img},
		})
	})
	return nil
}

func centerText(_ *StageContext, matches *goquery.Selection) error {
	matches.Each(func(_ int, s *goquery.Selection) {
		if !isCentered(s) {
			return
		}
		replaceWithBlock(s.Get(0), [][]Cell{
			{"Center Text"},
			{s.Contents()},
		})
	})
	return nil
}

func relatedArticles(sc *StageContext, matches *goquery.Selection) error {
	matches.Each(func(_ int, section *goquery.Selection) {
		links := section.Find("a[href]")
		if links.Length() == 0 {
			return
		}
		cells := [][]Cell{{"Related Articles"}}
		links.Each(func(_ int, a *goquery.Selection) {
			href, _ := blogimport.RewriteLink(attr(a, "href"), sc.Config.LegacyHost)
			title := text(a)
			if title == "" {
				title = href
			}
			cells = append(cells, []Cell{newLink(href, title)})
		})
		replaceWithBlock(section.Get(0), cells)
	})
	return nil
}

const fragmentClassPrefix = "cmp-experiencefragment--"

// sidebarFragments replaces each sidebar experience fragment with a link
// to the shared fragment page named by its modifier class.
func sidebarFragments(sc *StageContext, matches *goquery.Selection) error {
	matches.Each(func(_ int, xf *goquery.Selection) {
		name := ""
		for _, c := range strings.Fields(attr(xf, "class")) {
			if strings.HasPrefix(c, fragmentClassPrefix) {
				name = strings.TrimPrefix(c, fragmentClassPrefix)
				break
			}
		}
		if name == "" {
			return
		}
		href := strings.TrimRight(sc.Config.EdgeURL, "/") + "/" + sc.Config.Locale + "/blog/fragments/" + name
		replaceWithBlock(xf.Get(0), [][]Cell{
			{"Fragment"},
			{newLink(href, href)},
		})
	})
	return nil
}

func rewriteLinks(sc *StageContext, matches *goquery.Selection) error {
	matches.Each(func(_ int, a *goquery.Selection) {
		if href, ok := blogimport.RewriteLink(attr(a, "href"), sc.Config.LegacyHost); ok {
			a.SetAttr("href", href)
		}
	})
	return nil
}
