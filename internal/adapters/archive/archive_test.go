package archive_test

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/b3rserker/gridmaven/internal/adapters/archive"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), domain.DirPerm))
		require.NoError(t, os.WriteFile(p, []byte(content), domain.FilePerm))
	}
}

func readFiles(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." {
				out[rel+"/"] = ""
			}
			return nil
		}
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()
	xr, err := xz.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(xr)
	var names []string
	for {
		hdr, err := tr.Next()
		if err != nil {
			break
		}
		names = append(names, hdr.Name)
	}
	return names
}

func TestWriteTree_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		dirs  []string
		want  map[string]string
	}{
		{
			name:  "single file",
			files: map[string]string{"module.yaml": "artifact: a\n"},
			want:  map[string]string{"module.yaml": "artifact: a\n"},
		},
		{
			name: "nested",
			files: map[string]string{
				"module.yaml":                 "group: g\n",
				"src/main/App.java":           "class App {}",
				"src/test/resources/data.txt": "",
			},
			want: map[string]string{
				"module.yaml":                 "group: g\n",
				"src/":                        "",
				"src/main/":                   "",
				"src/main/App.java":           "class App {}",
				"src/test/":                   "",
				"src/test/resources/":         "",
				"src/test/resources/data.txt": "",
			},
		},
		{
			name: "empty dir",
			dirs: []string{"empty"},
			want: map[string]string{"empty/": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := t.TempDir()
			writeFiles(t, src, tt.files)
			for _, d := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(src, d), domain.DirPerm))
			}

			var buf bytes.Buffer
			require.NoError(t, archive.WriteTree(&buf, src))

			dest := filepath.Join(t.TempDir(), "out", "nested")
			require.NoError(t, archive.Extract(&buf, dest))

			assert.Equal(t, tt.want, readFiles(t, dest))
		})
	}
}

func TestWriteTree_DirectoriesFirst(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"a.txt":     "a",
		"b/c.txt":   "c",
		"b/d/e.txt": "e",
	})

	var buf bytes.Buffer
	require.NoError(t, archive.WriteTree(&buf, src))

	assert.Equal(t, []string{"b/", "b/d/", "a.txt", "b/c.txt", "b/d/e.txt"}, entryNames(t, buf.Bytes()))
}

func TestWriteTree_Exclude(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"module.yaml":             "x",
		".gridmaven/state/x.json": "{}",
		"target/app.jar":          "bin",
	})

	var buf bytes.Buffer
	require.NoError(t, archive.WriteTree(&buf, src, domain.StateDirName, "target"))

	assert.Equal(t, []string{"module.yaml"}, entryNames(t, buf.Bytes()))
}

func TestWriteTree_SkipsSymlinks(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{"real.txt": "r"})
	require.NoError(t, os.Symlink("real.txt", filepath.Join(src, "link.txt")))

	var buf bytes.Buffer
	require.NoError(t, archive.WriteTree(&buf, src))

	assert.Equal(t, []string{"real.txt"}, entryNames(t, buf.Bytes()))
}

func TestWriteFile_UsesBaseName(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{"deep/dir/module.yaml": "artifact: a\n"})

	var buf bytes.Buffer
	require.NoError(t, archive.WriteFile(&buf, filepath.Join(src, "deep/dir/module.yaml")))

	dest := t.TempDir()
	require.NoError(t, archive.Extract(&buf, dest))
	assert.Equal(t, map[string]string{"module.yaml": "artifact: a\n"}, readFiles(t, dest))
}

func TestWriteTree_Missing(t *testing.T) {
	t.Parallel()

	err := archive.WriteTree(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExtract_Corrupt(t *testing.T) {
	t.Parallel()

	err := archive.Extract(bytes.NewReader([]byte("not an xz stream")), t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrCorruptArchive), "got %v", err)
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"../evil.txt", "a/../../evil.txt", "/etc/evil"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			xw, err := xz.NewWriter(&buf)
			require.NoError(t, err)
			tw := tar.NewWriter(xw)
			require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: 1, Typeflag: tar.TypeReg}))
			_, err = tw.Write([]byte("x"))
			require.NoError(t, err)
			require.NoError(t, tw.Close())
			require.NoError(t, xw.Close())

			dest := t.TempDir()
			err = archive.Extract(&buf, dest)
			assert.True(t, errors.Is(err, domain.ErrCorruptArchive), "got %v", err)
			assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.txt"))
		})
	}
}
