package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is what the loader reads gridmaven.yaml and env files through.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// OSFS reads the host file system.
type OSFS struct{}

// Stat implements FileSystem.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- the loader only reads gridmaven.yaml and its env file
	return os.ReadFile(path)
}

// Mounted serves an fs.FS, typically an fstest.MapFS, as if it were mounted at
// Dir. Absolute paths outside Dir do not exist.
type Mounted struct {
	Dir string
	FS  fs.FS
}

// Mount returns fsys mounted at dir.
func Mount(dir string, fsys fs.FS) Mounted {
	return Mounted{Dir: filepath.Clean(dir), FS: fsys}
}

// Stat implements FileSystem.
func (m Mounted) Stat(path string) (fs.FileInfo, error) {
	name, err := m.name("stat", path)
	if err != nil {
		return nil, err
	}
	return fs.Stat(m.FS, name)
}

// ReadFile implements FileSystem.
func (m Mounted) ReadFile(path string) ([]byte, error) {
	name, err := m.name("open", path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(m.FS, name)
}

func (m Mounted) name(op, path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}
	rel, err := filepath.Rel(m.Dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	return filepath.ToSlash(rel), nil
}
