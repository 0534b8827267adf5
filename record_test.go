package blogimport_test

import (
	"testing"

	"github.com/fwojciec/blogimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	got, err := blogimport.ParseTemplate(" Author ")
	require.NoError(t, err)
	assert.Equal(t, blogimport.TemplateAuthor, got)

	_, err = blogimport.ParseTemplate("landing")
	require.Error(t, err)
	assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(err))
}

func TestSource_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()
		src := &blogimport.Source{HTML: "<html></html>"}
		assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(src.Validate()))
	})

	t.Run("requires HTML without a waiter", func(t *testing.T) {
		t.Parallel()
		src := &blogimport.Source{URL: "https://www.splunk.com/en_us/blog/a.html"}
		assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(src.Validate()))
	})

	t.Run("valid source", func(t *testing.T) {
		t.Parallel()
		src := &blogimport.Source{URL: "https://www.splunk.com/en_us/blog/a.html", HTML: "<html></html>"}
		assert.NoError(t, src.Validate())
	})
}

func TestRecord_IsAsset(t *testing.T) {
	t.Parallel()

	assert.True(t, (&blogimport.Record{Source: "https://x/a.png", Path: "/a.png"}).IsAsset())
}
