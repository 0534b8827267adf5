package mock

import (
	"context"

	"github.com/fwojciec/blogimport"
)

var _ blogimport.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of blogimport.RecordStore.
type RecordStore struct {
	SaveDocumentFn func(ctx context.Context, path string, markdown string) error
	SaveAssetFn    func(ctx context.Context, path string, data []byte) error
	CommitFn       func() error
	AbortFn        func() error
}

func (s *RecordStore) SaveDocument(ctx context.Context, path string, markdown string) error {
	return s.SaveDocumentFn(ctx, path, markdown)
}

func (s *RecordStore) SaveAsset(ctx context.Context, path string, data []byte) error {
	return s.SaveAssetFn(ctx, path, data)
}

func (s *RecordStore) Commit() error {
	return s.CommitFn()
}

func (s *RecordStore) Abort() error {
	return s.AbortFn()
}
