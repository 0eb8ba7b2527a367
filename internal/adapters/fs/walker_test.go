package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/b3rserker/gridmaven/internal/adapters/fs"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), domain.DirPerm))
		require.NoError(t, os.WriteFile(p, []byte(f), domain.PrivateFilePerm))
	}
}

func walk(root string, ignores []string) []string {
	var out []string
	for p := range fs.NewWalker().WalkFiles(root, ignores) {
		rel, _ := filepath.Rel(root, p)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestWalker_WalkFiles(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "file1.txt", "dir1/file2.txt", "dir2/file3.txt")

	assert.Equal(t, []string{"dir1/file2.txt", "dir2/file3.txt", "file1.txt"}, walk(tmpDir, nil))
}

func TestWalker_WalkFiles_SkipsVCSAndState(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, ".git/config", ".jj/store", ".gridmaven/state/run.json", "src/Main.java")

	assert.Equal(t, []string{"src/Main.java"}, walk(tmpDir, nil))
}

func TestWalker_WalkFiles_WithIgnores(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir,
		"module.yaml",
		"target/app.jar",
		"core/module.yaml",
		"core/target/core.jar",
		"tools/core/module.yaml",
		"notes.tmp",
	)

	got := walk(tmpDir, []string{"target", "*.tmp", "./core"})
	assert.Equal(t, []string{"module.yaml", "tools/core/module.yaml"}, got)
}

func TestWalker_WalkFiles_SkipsSymlinks(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "real.txt")
	require.NoError(t, os.Symlink("real.txt", filepath.Join(tmpDir, "link.txt")))

	assert.Equal(t, []string{"real.txt"}, walk(tmpDir, nil))
}

func TestWalker_WalkFiles_StopsEarly(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a", "b", "c")

	var seen []string
	for p := range fs.NewWalker().WalkFiles(tmpDir, nil) {
		seen = append(seen, filepath.Base(p))
		if len(seen) == 2 {
			break
		}
	}
	assert.True(t, slices.Equal([]string{"a", "b"}, seen))
}

func TestWalker_WalkFiles_EmptyDirectory(t *testing.T) {
	t.Parallel()
	assert.Empty(t, walk(t.TempDir(), nil))
}
