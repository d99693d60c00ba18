package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSymlinkTo checks that path is a symlink whose text is target
func AssertSymlinkTo(t *testing.T, path, target string) {
	t.Helper()

	info, err := os.Lstat(path)
	require.NoError(t, err, "expected symlink at %s", path)
	require.True(t, info.Mode()&os.ModeSymlink != 0, "%s should be a symlink, mode %v", path, info.Mode())

	got, err := os.Readlink(path)
	require.NoError(t, err)
	assert.Equal(t, target, got, "symlink %s points at the wrong place", path)
}

// AssertNotExists checks that nothing (not even a dangling link) is at path
func AssertNotExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist (err=%v)", path, err)
}

// AssertRegularDir checks that path is a real directory, not a link
func AssertRegularDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Lstat(path)
	require.NoError(t, err, "expected directory at %s", path)
	assert.True(t, info.IsDir(), "%s should be a regular directory, mode %v", path, info.Mode())
}

// AssertFileContent checks a file's content
func AssertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	assert.Equal(t, want, string(data), "content of %s", path)
}

// ReadTree returns relative path -> content for every regular file under dir
func ReadTree(t *testing.T, dir string) map[string]string {
	t.Helper()

	tree := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	require.NoError(t, err, "walking %s", dir)
	return tree
}

// AssertTree checks that dir holds exactly the given files
func AssertTree(t *testing.T, dir string, want map[string]string) {
	t.Helper()
	assert.Equal(t, want, ReadTree(t, dir), "tree under %s", dir)
}
