package mock

import "github.com/fwojciec/blogimport"

var _ blogimport.Converter = (*Converter)(nil)

// Converter is a mock implementation of blogimport.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
