// Package blogimport migrates legacy blog pages (articles, author pages and
// experience fragments) into block-table documents for a downstream
// document generator.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, htmltomarkdown/).
package blogimport
