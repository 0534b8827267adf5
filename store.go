package blogimport

import "context"

// RecordStore persists transform output with atomic semantics.
// Saves write to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type RecordStore interface {
	// SaveDocument stores converted main content at path.
	SaveDocument(ctx context.Context, path string, markdown string) error

	// SaveAsset stores asset bytes at path.
	SaveAsset(ctx context.Context, path string, data []byte) error

	Commit() error
	Abort() error
}
