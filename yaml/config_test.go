package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.ParseConfig([]byte(`
published_host: https://cdn.example.com
locale: de-de
wait_timeout: 3s
poll_interval: 250ms
wait_selectors:
  article: .splunkBlogsArticle-body-content
  author: .splunkBlogsAuthorBadge
video_hosts: [youtube.com]
article_list_limit: 12
`))

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com", cfg.PublishedHost)
		assert.Equal(t, "de-de", cfg.Locale)
		assert.Equal(t, 3*time.Second, cfg.WaitTimeout)
		assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
		assert.Equal(t, ".splunkBlogsArticle-body-content", cfg.WaitSelector(blogimport.TemplateArticle))
		assert.Equal(t, ".splunkBlogsAuthorBadge", cfg.WaitSelector(blogimport.TemplateAuthor))
		assert.Empty(t, cfg.WaitSelector(blogimport.TemplateFragment))
		assert.Equal(t, []string{"youtube.com"}, cfg.VideoHosts)
		assert.Equal(t, 12, cfg.ArticleListLimit)

		// untouched keys keep defaults
		assert.Equal(t, blogimport.DefaultLegacyHost, cfg.LegacyHost)
		assert.Equal(t, blogimport.DefaultEdgeURL, cfg.EdgeURL)
	})

	t.Run("empty document is the default config", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.ParseConfig(nil)

		require.NoError(t, err)
		assert.Equal(t, blogimport.DefaultConfig(), cfg)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseConfig([]byte("legacy_hots: www.example.com\n"))

		require.Error(t, err)
		assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(err))
	})

	t.Run("rejects unknown templates", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseConfig([]byte("wait_selectors:\n  landing: body\n"))

		assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(err))
	})

	t.Run("rejects relative published host", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseConfig([]byte("published_host: /assets\n"))

		assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(err))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "blogimport.yaml")
		require.NoError(t, os.WriteFile(path, []byte("legacy_host: legacy.example.com\n"), 0644))

		cfg, err := yaml.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "legacy.example.com", cfg.LegacyHost)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Equal(t, blogimport.ENOTFOUND, blogimport.ErrorCode(err))
	})
}
