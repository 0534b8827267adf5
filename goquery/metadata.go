package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MetaEntry is one key/value row of a Metadata block.
type MetaEntry struct {
	Key   string
	Value Cell
}

// MetadataBlock renders entries, in order, as a "Metadata" block table.
// Entries with an empty value are skipped. Multi-line strings become one
// paragraph per line.
func MetadataBlock(entries []MetaEntry) *html.Node {
	cells := [][]Cell{{"Metadata"}}
	for _, e := range entries {
		v, ok := metaValue(e.Value)
		if !ok {
			continue
		}
		cells = append(cells, []Cell{e.Key, v})
	}
	return BuildTable(cells)
}

func metaValue(v Cell) (Cell, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, false
		}
		if !strings.Contains(t, "\n") {
			return t, true
		}
		var paras []*html.Node
		for _, line := range strings.Split(t, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paras = append(paras, wrap(atom.P, line))
			}
		}
		return paras, true
	case *html.Node:
		return t, t != nil
	case *goquery.Selection:
		return t, t != nil && t.Length() > 0
	}
	return v, true
}
