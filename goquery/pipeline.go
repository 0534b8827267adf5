package goquery

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogimport"
)

var _ blogimport.Transformer = (*Pipeline)(nil)

// Pipeline transforms pages of one template. It holds no per-page state
// and is safe for concurrent use.
type Pipeline struct {
	template   blogimport.Template
	exclusions []string
	stages     []Stage
	config     *blogimport.Config
	logger     *slog.Logger
}

// NewPipeline returns the pipeline for template t.
func NewPipeline(t blogimport.Template, cfg *blogimport.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = blogimport.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pipeline{template: t, config: cfg, logger: logger}
	switch t {
	case blogimport.TemplateArticle:
		p.exclusions, p.stages = articleExclusions, articleStages
	case blogimport.TemplateAuthor:
		p.exclusions, p.stages = authorExclusions, authorStages
	case blogimport.TemplateFragment:
		p.exclusions, p.stages = fragmentExclusions, fragmentStages
	default:
		return nil, blogimport.Errorf(blogimport.EINVALID, "unknown template %q", t)
	}
	return p, nil
}

// Template returns the template the pipeline handles.
func (p *Pipeline) Template() blogimport.Template {
	return p.template
}

// StageNames returns the stage names in the order they run.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Transform runs the pipeline over src. The first record is the main
// content; image assets follow in document order.
func (p *Pipeline) Transform(ctx context.Context, src *blogimport.Source) ([]*blogimport.Record, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	raw, err := p.wait(ctx, src)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "%s: parsing document: %v", src.URL, err)
	}

	params, err := p.preprocess(doc, src)
	if err != nil {
		return nil, err
	}

	Remove(doc.Selection, p.exclusions...)

	sc := &StageContext{
		Doc:    doc,
		Main:   doc.Find("body").First(),
		URL:    src.URL,
		Params: params,
		Config: p.config,
		Logger: p.logger,
	}
	for _, stage := range p.stages {
		ran, err := stage.Apply(sc)
		if err != nil {
			return nil, err
		}
		if ran {
			p.logger.Debug("stage applied", "url", src.URL, "stage", stage.Name)
		}
	}

	path, err := p.documentPath(src, params)
	if err != nil {
		return nil, err
	}
	main := sc.Main.Get(0)
	if main == nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "%s: document has no body", src.URL)
	}

	records := []*blogimport.Record{{Content: main, Path: path}}
	assets, err := p.collectAssets(sc.Main, src.URL)
	if err != nil {
		return nil, err
	}
	return append(records, assets...), nil
}

// wait returns the markup to transform, blocking until the template's wait
// selector is present when one is configured.
func (p *Pipeline) wait(ctx context.Context, src *blogimport.Source) (string, error) {
	selector := p.config.WaitSelector(p.template)
	if selector == "" {
		if src.HTML != "" {
			return src.HTML, nil
		}
		selector = "body"
	}

	waiter := src.Waiter
	if waiter == nil {
		waiter = NewDocumentWaiter(src.HTML, p.config.PollInterval)
	}

	wctx, cancel := context.WithTimeout(ctx, p.config.WaitTimeout)
	defer cancel()

	raw, err := waiter.WaitFor(wctx, selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", blogimport.Errorf(blogimport.ETIMEOUT, "%s: timed out after %s waiting for %q", src.URL, p.config.WaitTimeout, selector)
		}
		return "", err
	}
	return raw, nil
}

func (p *Pipeline) preprocess(doc *goquery.Document, src *blogimport.Source) (*Params, error) {
	meta, err := parsePageMeta(doc)
	if err != nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "%s: %s", src.URL, blogimport.ErrorMessage(err))
	}
	params := &Params{
		OriginalURL: src.OriginalURL,
		Meta:        meta,
		SocialLinks: socialLinks(doc),
	}
	if p.template == blogimport.TemplateFragment {
		params.FragmentPath = floatingPromoPath(doc, p.config.Locale)
	}
	return params, nil
}

func (p *Pipeline) documentPath(src *blogimport.Source, params *Params) (string, error) {
	if p.template == blogimport.TemplateFragment && params.FragmentPath != "" {
		return params.FragmentPath, nil
	}
	return blogimport.DocumentPath(src.URL)
}

// collectAssets records every remaining image and points its src at the
// published host. Images served by video providers are recorded but keep
// their src.
func (p *Pipeline) collectAssets(main *goquery.Selection, pageURL string) ([]*blogimport.Record, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	var assets []*blogimport.Record
	main.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		raw := strings.TrimSpace(attr(img, "src"))
		if raw == "" {
			return
		}
		u, err := base.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			p.logger.Debug("skipping image", "url", pageURL, "src", raw)
			return
		}
		if strings.EqualFold(u.Host, p.config.ProxyHost) {
			u.Scheme = "https"
			u.Host = p.config.LegacyHost
		}
		assets = append(assets, &blogimport.Record{Source: u.String(), Path: u.Path})
		if !p.config.IsVideoHost(u.Host) {
			img.SetAttr("src", p.config.PublishedURL(u.Path))
		}
	})
	return assets, nil
}
