package blogimport

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms transformed page content into Markdown for the
	// document generator. Block tables become Markdown tables.
	Convert(html string) (string, error)
}
