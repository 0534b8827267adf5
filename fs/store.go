// Package fs stores import output on the local file system.
package fs

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/blogimport"
)

// Ensure FileStore implements blogimport.RecordStore at compile time.
var _ blogimport.RecordStore = (*FileStore)(nil)

// FileStore implements blogimport.RecordStore with atomic update semantics.
// Records are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// SaveDocument writes markdown to <path>.md.
func (s *FileStore) SaveDocument(ctx context.Context, p string, markdown string) error {
	rel, err := localPath(p)
	if err != nil {
		return err
	}
	return s.write(ctx, rel+".md", []byte(markdown))
}

// SaveAsset writes data to path unchanged.
func (s *FileStore) SaveAsset(ctx context.Context, p string, data []byte) error {
	rel, err := localPath(p)
	if err != nil {
		return err
	}
	return s.write(ctx, rel, data)
}

func (s *FileStore) write(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := filepath.Join(s.tempDir(), rel)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

// localPath maps a record path to a relative file path inside the output
// directory. Paths escaping it are rejected.
func localPath(p string) (string, error) {
	if strings.Contains(p, "..") {
		for _, seg := range strings.Split(p, "/") {
			if seg == ".." {
				return "", blogimport.Errorf(blogimport.EINVALID, "path traversal in record path %q", p)
			}
		}
	}
	rel := strings.TrimPrefix(path.Clean("/"+p), "/")
	if rel == "" || rel == "." {
		return "", blogimport.Errorf(blogimport.EINVALID, "empty record path %q", p)
	}
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", blogimport.Errorf(blogimport.EINVALID, "path traversal in record path %q", p)
	}
	return rel, nil
}

func (s *FileStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// An import that saved nothing still produces an empty output directory.
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
