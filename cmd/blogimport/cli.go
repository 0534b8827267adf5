package main

import (
	"context"
	"io"

	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/batch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Sitemaps blogimport.SitemapService
	Importer *batch.Importer
	Store    blogimport.RecordStore
}

// ImportCmd imports a set of pages into the output store.
type ImportCmd struct {
	URLs    []string
	Sitemap bool
	Preview bool
	Filter  *blogimport.URLFilter
}
