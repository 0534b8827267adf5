// Package goquery implements the page transforms with goquery: the block
// table builder, the stage catalog and the per-template pipelines.
package goquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Cell is one block table cell. Supported values are string, int, bool,
// *html.Node, []*html.Node and *goquery.Selection. Nodes are moved into the
// cell, not cloned; clone first to keep the original in place.
type Cell any

// BuildTable renders cells as a block table. The first row names the block
// and must hold exactly one cell; it becomes a header cell spanning the
// widest body row. Callers must pass at least one row.
func BuildTable(cells [][]Cell) *html.Node {
	width := 1
	for _, row := range cells[1:] {
		width = max(width, len(row))
	}

	table := newElement(atom.Table)
	tbody := newElement(atom.Tbody)
	table.AppendChild(tbody)

	for i, row := range cells {
		tr := newElement(atom.Tr)
		tbody.AppendChild(tr)
		for _, value := range row {
			var cell *html.Node
			if i == 0 {
				cell = newElement(atom.Th)
				if width > 1 {
					cell.Attr = append(cell.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(width)})
				}
			} else {
				cell = newElement(atom.Td)
			}
			appendCell(cell, value)
			tr.AppendChild(cell)
		}
	}
	return table
}

func appendCell(cell *html.Node, value Cell) {
	switch v := value.(type) {
	case nil:
	case string:
		cell.AppendChild(newText(v))
	case *html.Node:
		if v != nil {
			detach(v)
			cell.AppendChild(v)
		}
	case []*html.Node:
		for _, n := range v {
			detach(n)
			cell.AppendChild(n)
		}
	case *goquery.Selection:
		if v != nil {
			// Copy first: detaching mutates sibling links the selection walks.
			for _, n := range append([]*html.Node(nil), v.Nodes...) {
				detach(n)
				cell.AppendChild(n)
			}
		}
	default:
		cell.AppendChild(newText(fmt.Sprint(v)))
	}
}

// blockLabel formats a block name with its variant tokens:
// "Promo Card (gradient border, shadow)".
func blockLabel(name string, variants []string) string {
	if len(variants) == 0 {
		return name
	}
	return name + " (" + strings.Join(variants, ", ") + ")"
}

// replaceWithBlock swaps n for the block built from cells. The position is
// captured before building, so n may itself be one of the cell values.
func replaceWithBlock(n *html.Node, cells [][]Cell) *html.Node {
	parent, next := n.Parent, n.NextSibling
	table := BuildTable(cells)
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	if parent != nil {
		parent.InsertBefore(table, next)
	}
	return table
}
