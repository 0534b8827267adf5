package mock

import (
	"context"

	"github.com/fwojciec/blogimport"
)

var _ blogimport.Transformer = (*Transformer)(nil)

// Transformer is a mock implementation of blogimport.Transformer.
type Transformer struct {
	TransformFn func(ctx context.Context, src *blogimport.Source) ([]*blogimport.Record, error)
}

func (t *Transformer) Transform(ctx context.Context, src *blogimport.Source) ([]*blogimport.Record, error) {
	return t.TransformFn(ctx, src)
}
