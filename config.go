package blogimport

import (
	"net/url"
	"strings"
	"time"
)

// Default configuration values for the legacy blog.
const (
	DefaultLegacyHost       = "www.splunk.com"
	DefaultPublishedHost    = "https://www.splunk.com"
	DefaultEdgeURL          = "https://main--blog--splunk-wm.aem.page"
	DefaultProxyHost        = "localhost:3001"
	DefaultLocale           = "en-us"
	DefaultWaitTimeout      = 10 * time.Second
	DefaultArticleListLimit = 9
)

// DefaultVideoHosts are third-party video hosts whose images are left in
// place and never copied.
var DefaultVideoHosts = []string{
	"ytimg.com",
	"youtube.com",
	"vimeocdn.com",
	"vimeo.com",
	"vidyard.com",
	"brightcove",
}

// Config holds the settings shared by every template transform.
type Config struct {
	// LegacyHost is the host legacy pages and links live on.
	LegacyHost string `yaml:"legacy_host"`

	// PublishedHost prefixes rewritten image URLs.
	PublishedHost string `yaml:"published_host"`

	// EdgeURL is the base of the migrated site; fragment and author list
	// links point there.
	EdgeURL string `yaml:"edge_url"`

	// ProxyHost is the host the import proxy serves pages from. Asset URLs
	// on it are mapped back to LegacyHost.
	ProxyHost string `yaml:"proxy_host"`

	// Locale is the migrated locale path segment.
	Locale string `yaml:"locale"`

	// WaitTimeout bounds the preprocess wait for a template's wait selector.
	WaitTimeout time.Duration `yaml:"wait_timeout"`

	// PollInterval is how often the wait re-checks the page.
	PollInterval time.Duration `yaml:"poll_interval"`

	// WaitSelectors maps a template to the selector that must be present
	// before the page is transformed. Templates without one don't wait.
	WaitSelectors map[Template]string `yaml:"wait_selectors"`

	// VideoHosts lists host substrings of third-party video providers.
	VideoHosts []string `yaml:"video_hosts"`

	// ArticleListLimit is the page size of the author article list.
	ArticleListLimit int `yaml:"article_list_limit"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LegacyHost == "" {
		c.LegacyHost = DefaultLegacyHost
	}
	if c.PublishedHost == "" {
		c.PublishedHost = DefaultPublishedHost
	}
	if c.EdgeURL == "" {
		c.EdgeURL = DefaultEdgeURL
	}
	if c.ProxyHost == "" {
		c.ProxyHost = DefaultProxyHost
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.VideoHosts == nil {
		c.VideoHosts = append([]string(nil), DefaultVideoHosts...)
	}
	if c.ArticleListLimit <= 0 {
		c.ArticleListLimit = DefaultArticleListLimit
	}
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"published_host": c.PublishedHost, "edge_url": c.EdgeURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Errorf(EINVALID, "%s must be an absolute URL, got %q", name, raw)
		}
	}
	for t := range c.WaitSelectors {
		if _, err := ParseTemplate(string(t)); err != nil {
			return err
		}
	}
	return nil
}

// WaitSelector returns the selector template pages wait for, if any.
func (c *Config) WaitSelector(t Template) string {
	return c.WaitSelectors[t]
}

// IsVideoHost reports whether host belongs to a third-party video provider.
func (c *Config) IsVideoHost(host string) bool {
	host = strings.ToLower(host)
	for _, v := range c.VideoHosts {
		if v != "" && strings.Contains(host, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

// PublishedURL returns the absolute published location of an asset path.
func (c *Config) PublishedURL(assetPath string) string {
	return strings.TrimRight(c.PublishedHost, "/") + assetPath
}
