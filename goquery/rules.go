package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// providerRule maps source URL substrings to an embed block name.
type providerRule struct {
	Block   string
	Markers []string
}

// providerRules is checked top to bottom; the first rule with a marker
// contained in the lowercased source URL wins.
var providerRules = []providerRule{
	{Block: "Audio", Markers: []string{"soundcloud", "spotify", "podcasts.apple", "buzzsprout"}},
	{Block: "Slideshare", Markers: []string{"slideshare"}},
	{Block: "Vidyard", Markers: []string{"vidyard"}},
	{Block: "Video", Markers: []string{"youtube", "youtu.be", "vimeo", "brightcove", "wistia"}},
}

// ClassifyEmbed returns the block name for an embedded source URL:
// Audio, Slideshare, Vidyard, Video or Embed.
func ClassifyEmbed(src string) string {
	src = strings.ToLower(src)
	for _, r := range providerRules {
		for _, m := range r.Markers {
			if strings.Contains(src, m) {
				return r.Block
			}
		}
	}
	return "Embed"
}

// variantRule detects one promo card style from marker classes or an
// inline style on the card or any descendant.
type variantRule struct {
	Label   string
	Classes []string
	Style   *regexp.Regexp
}

// promoVariants is checked in order; the order fixes the label text.
var promoVariants = []variantRule{
	{Label: "gradient border", Classes: []string{"promo-card--gradient-border"}},
	{Label: "border", Classes: []string{"promo-card--border"}},
	{
		Label:   "gray",
		Classes: []string{"promo-card--gray"},
		Style:   regexp.MustCompile(`(?i)background(-color)?\s*:\s*(gr[ae]y|#f[0-9a-f]{2}\b|#f[0-9a-f]{5}\b)`),
	},
	{
		Label:   "shadow",
		Classes: []string{"promo-card--shadow"},
		Style:   regexp.MustCompile(`(?i)box-shadow\s*:`),
	},
}

// PromoVariants returns the variant labels that apply to a promo card,
// deduplicated, in rule order.
func PromoVariants(card *goquery.Selection) []string {
	scope := card.Find("*").AddBack()

	var labels []string
	seen := make(map[string]bool)
	for _, r := range promoVariants {
		if seen[r.Label] || !r.matches(scope) {
			continue
		}
		seen[r.Label] = true
		labels = append(labels, r.Label)
	}
	return labels
}

func (r variantRule) matches(scope *goquery.Selection) bool {
	found := false
	scope.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, c := range r.Classes {
			if s.HasClass(c) {
				found = true
				return false
			}
		}
		if r.Style != nil && r.Style.MatchString(attr(s, "style")) {
			found = true
			return false
		}
		return true
	})
	return found
}

// PromoLabel is the header label of a promo card block.
func PromoLabel(card *goquery.Selection) string {
	return blockLabel("Promo Card", PromoVariants(card))
}
