package blogimport

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

// Template identifies which legacy page layout a source page uses.
type Template string

// Supported page templates.
const (
	TemplateArticle  Template = "article"
	TemplateAuthor   Template = "author"
	TemplateFragment Template = "fragment"
)

// Templates lists every supported template.
func Templates() []Template {
	return []Template{TemplateArticle, TemplateAuthor, TemplateFragment}
}

// ParseTemplate returns the template with the given name.
func ParseTemplate(name string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Templates() {
		if t == known {
			return t, nil
		}
	}
	return "", Errorf(EINVALID, "unknown template %q", name)
}

// Source is one page handed to a Transformer.
type Source struct {
	// URL is the page's source URL. Output paths derive from it.
	URL string

	// OriginalURL is the page URL before any import proxy rewrote it.
	OriginalURL string

	// HTML is the page markup.
	HTML string

	// Waiter, when set, is a live page the transform can wait on before
	// taking its snapshot. Nil means HTML is final.
	Waiter Waiter
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "source URL required")
	}
	if s.HTML == "" && s.Waiter == nil {
		return Errorf(EINVALID, "source HTML required for %s", s.URL)
	}
	return nil
}

// Record is one unit of a transform result: either the page's main content
// or an asset to copy.
type Record struct {
	// Content is the transformed main content root. Nil for assets.
	Content *html.Node

	// Source is the absolute URL an asset is fetched from. Empty for content.
	Source string

	// Path is where the record is stored in the output tree.
	Path string
}

// IsAsset reports whether the record describes an asset.
func (r *Record) IsAsset() bool {
	return r.Content == nil
}

// Transformer converts one source page into records. The main content
// record comes first, followed by assets in document order.
type Transformer interface {
	Transform(ctx context.Context, src *Source) ([]*Record, error)
}
