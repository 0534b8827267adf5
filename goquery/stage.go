package goquery

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/blogimport"
)

// StageContext is what every stage of one transform shares.
type StageContext struct {
	Doc    *goquery.Document
	Main   *goquery.Selection
	URL    string
	Params *Params
	Config *blogimport.Config
	Logger *slog.Logger
}

// StageFunc runs a stage over a non-empty set of matches.
type StageFunc func(sc *StageContext, matches *goquery.Selection) error

// Stage is one selector-scoped extraction step. The pipeline evaluates
// Selector against the current tree and skips the stage when nothing
// matches, so Run never sees an empty selection.
type Stage struct {
	Name     string
	Selector string
	Run      StageFunc

	matcher cascadia.Selector
}

// NewStage compiles selector and returns the stage.
// It panics if the selector is invalid; stages are declared at init.
func NewStage(name, selector string, run StageFunc) Stage {
	return Stage{
		Name:     name,
		Selector: selector,
		Run:      run,
		matcher:  cascadia.MustCompile(selector),
	}
}

// Match returns the elements of the document the stage applies to.
func (s Stage) Match(doc *goquery.Document) *goquery.Selection {
	return doc.FindMatcher(s.matcher)
}

// Apply runs the stage if its selector matches. It reports whether the
// stage ran.
func (s Stage) Apply(sc *StageContext) (bool, error) {
	matches := s.Match(sc.Doc)
	if matches.Length() == 0 {
		return false, nil
	}
	return true, s.Run(sc, matches)
}
