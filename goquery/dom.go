package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Remove deletes every element under root matching any of the selectors.
func Remove(root *goquery.Selection, selectors ...string) {
	for _, sel := range selectors {
		root.Find(sel).Remove()
	}
}

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func newText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// newLink builds <a href="href">text</a>.
func newLink(href, text string) *html.Node {
	a := newElement(atom.A, html.Attribute{Key: "href", Val: href})
	a.AppendChild(newText(text))
	return a
}

// wrap returns a new element of type a holding text.
func wrap(a atom.Atom, text string) *html.Node {
	n := newElement(a)
	n.AppendChild(newText(text))
	return n
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// moveChildren re-parents every child of src under dst.
func moveChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; c = src.FirstChild {
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

// text returns the trimmed text of the first element of s.
func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.First().Text())
}

// attr returns the trimmed attribute value of the first element of s.
func attr(s *goquery.Selection, name string) string {
	v, _ := s.First().Attr(name)
	return strings.TrimSpace(v)
}

// outermost drops matches nested inside another match of the same
// selector, so wrappers are converted once.
func outermost(matches *goquery.Selection, selector string) *goquery.Selection {
	return matches.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(selector).Length() == 0
	})
}

// ownItems returns the items below owner whose closest container matching
// selector is owner itself, leaving out items of nested containers.
func ownItems(owner *goquery.Selection, items, selector string) *goquery.Selection {
	return owner.Find(items).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest(selector).IsSelection(owner)
	})
}

var (
	centerStyle = regexp.MustCompile(`(?i)text-align\s*:\s*center`)
	floatStyle  = regexp.MustCompile(`(?i)float\s*:\s*(left|right)`)
)

// isCentered reports whether an element renders its text centered.
func isCentered(s *goquery.Selection) bool {
	if s.HasClass("text-center") || strings.EqualFold(attr(s, "align"), "center") {
		return true
	}
	return centerStyle.MatchString(attr(s, "style"))
}
