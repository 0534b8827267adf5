// Package htmltomarkdown renders transformed page content as Markdown for
// the document generator.
package htmltomarkdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/blogimport"
)

var _ blogimport.Converter = (*Converter)(nil)

// SectionBreak is the thematic break the document generator splits
// sections on.
const SectionBreak = "---"

// Converter wraps html-to-markdown. Block tables stay Markdown tables even
// when their cells hold several paragraphs, and lists carry no end marker
// comments.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHorizontalRule(SectionBreak),
				commonmark.WithBulletListMarker("-"),
				commonmark.WithListEndComment(false),
			),
			table.NewTablePlugin(
				table.WithNewlineBehavior(table.NewlineBehaviorPreserve),
				table.WithSpanCellBehavior(table.SpanBehaviorEmpty),
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
	return &Converter{conv: conv}
}

// Convert renders html as Markdown ending in exactly one newline.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", blogimport.Errorf(blogimport.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}
