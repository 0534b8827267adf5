package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Import Output
// The store writes to a temp directory and swaps it in on Commit

func TestFileStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewFileStore(base, "import")

	// When I save a document
	err := store.SaveDocument(context.Background(), "/en-us/blog/security/post", "# Post")

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory (not final)
	_, err = os.Stat(filepath.Join(base, "import.tmp", "en-us", "blog", "security", "post.md"))
	require.NoError(t, err, "file should exist in temp directory")

	// And the final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "import"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestFileStore_CommitMovesDocumentsAndAssets(t *testing.T) {
	t.Parallel()

	// Given a store with a document and an asset
	base := t.TempDir()
	store := fs.NewFileStore(base, "import")
	require.NoError(t, store.SaveDocument(context.Background(), "/en-us/blog/a", "# A"))
	require.NoError(t, store.SaveAsset(context.Background(), "/content/dam/a.png", []byte{0x89, 'P', 'N', 'G'}))

	// When I commit
	err := store.Commit()

	// Then both records are in the final directory
	require.NoError(t, err)
	doc, err := os.ReadFile(filepath.Join(base, "import", "en-us", "blog", "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "# A", string(doc))
	img, err := os.ReadFile(filepath.Join(base, "import", "content", "dam", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img)

	// And the temp directory is gone
	_, err = os.Stat(filepath.Join(base, "import.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestFileStore_CommitReplacesPreviousImport(t *testing.T) {
	t.Parallel()

	// Given an earlier import on disk
	base := t.TempDir()
	stale := filepath.Join(base, "import", "stale.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	// When a new import commits
	store := fs.NewFileStore(base, "import")
	require.NoError(t, store.SaveDocument(context.Background(), "/fresh", "new"))
	require.NoError(t, store.Commit())

	// Then only the new output remains
	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "import", "fresh.md"))
	require.NoError(t, err)
}

func TestFileStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with saved records
	base := t.TempDir()
	store := fs.NewFileStore(base, "import")
	require.NoError(t, store.SaveDocument(context.Background(), "/a", "# A"))

	// When I abort
	err := store.Abort()

	// Then the temp directory is cleaned up and nothing was published
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "import.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "import"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestFileStore_RejectsUnsafePaths(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"/../../etc/passwd", "../outside", "/", ""} {
		t.Run(p, func(t *testing.T) {
			t.Parallel()

			store := fs.NewFileStore(t.TempDir(), "import")

			err := store.SaveAsset(context.Background(), p, []byte("x"))

			require.Error(t, err)
			assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(err))
		})
	}
}

func TestFileStore_SaveHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir(), "import")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SaveDocument(ctx, "/a", "# A")

	require.ErrorIs(t, err, context.Canceled)
}
