package goquery_test

import (
	"bytes"
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogimport/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, n))
	return buf.String()
}

func parse(t *testing.T, s string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestBuildTable(t *testing.T) {
	t.Parallel()

	t.Run("single column block", func(t *testing.T) {
		t.Parallel()

		table := goquery.BuildTable([][]goquery.Cell{
			{"Video"},
			{"https://youtu.be/x"},
		})

		sel := gq.NewDocumentFromNode(table).Selection
		rows := sel.Find("tr")
		require.Equal(t, 2, rows.Length())

		header := rows.Eq(0).Children()
		require.Equal(t, 1, header.Length())
		assert.Equal(t, "th", gq.NodeName(header))
		assert.Equal(t, "Video", header.Text())
		_, hasSpan := header.Attr("colspan")
		assert.False(t, hasSpan)

		body := rows.Eq(1).Children()
		require.Equal(t, 1, body.Length())
		assert.Equal(t, "td", gq.NodeName(body))
		assert.Equal(t, "https://youtu.be/x", body.Text())
	})

	t.Run("header spans the widest row", func(t *testing.T) {
		t.Parallel()

		table := goquery.BuildTable([][]goquery.Cell{
			{"Metadata"},
			{"Title", "Hello"},
			{"Limit", 9},
			{"Flag", true},
		})

		got := render(t, table)

		assert.Equal(t,
			`<table><tbody><tr><th colspan="2">Metadata</th></tr>`+
				`<tr><td>Title</td><td>Hello</td></tr>`+
				`<tr><td>Limit</td><td>9</td></tr>`+
				`<tr><td>Flag</td><td>true</td></tr></tbody></table>`,
			got)
	})

	t.Run("moves nodes into cells", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<body><div id="src"><img src="/a.png"><p>text</p></div></body>`)
		src := doc.Find("#src")

		table := goquery.BuildTable([][]goquery.Cell{
			{"Block"},
			{src.Contents()},
		})

		assert.Equal(t, 0, src.Children().Length())
		assert.Contains(t, render(t, table), `<td><img src="/a.png"/><p>text</p></td>`)
	})

	t.Run("nil cells stay empty", func(t *testing.T) {
		t.Parallel()

		table := goquery.BuildTable([][]goquery.Cell{{"Block"}, {nil, "x"}})

		assert.Contains(t, render(t, table), `<tr><td></td><td>x</td></tr>`)
	})
}

func TestMetadataBlock(t *testing.T) {
	t.Parallel()

	t.Run("skips empty values and splits lines", func(t *testing.T) {
		t.Parallel()

		table := goquery.MetadataBlock([]goquery.MetaEntry{
			{Key: "Title", Value: "Hello"},
			{Key: "Description", Value: "  "},
			{Key: "Image", Value: nil},
			{Key: "Tags", Value: "Security\nObservability"},
		})

		got := render(t, table)

		assert.Equal(t,
			`<table><tbody><tr><th colspan="2">Metadata</th></tr>`+
				`<tr><td>Title</td><td>Hello</td></tr>`+
				`<tr><td>Tags</td><td><p>Security</p><p>Observability</p></td></tr></tbody></table>`,
			got)
	})

	t.Run("empty selection is skipped", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<body></body>`)

		table := goquery.MetadataBlock([]goquery.MetaEntry{
			{Key: "Image", Value: doc.Find("img")},
			{Key: "Template", Value: "Article"},
		})

		assert.NotContains(t, render(t, table), "Image")
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<body><div class="a">x</div><p>keep</p><span id="b">y</span><noscript>z</noscript></body>`)

	goquery.Remove(doc.Selection, ".a", "#b", "noscript", ".missing")

	got, err := doc.Find("body").Html()
	require.NoError(t, err)
	assert.Equal(t, `<p>keep</p>`, got)
}

func gqFromNode(n *html.Node) *gq.Selection {
	return gq.NewDocumentFromNode(n).Selection
}
