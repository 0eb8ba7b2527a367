// Package artifacts moves source trees and build outputs through the blob store.
package artifacts

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sync/atomic"

	"github.com/b3rserker/gridmaven/internal/adapters/archive"
	"github.com/b3rserker/gridmaven/internal/adapters/blobstore"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store implements ports.ArtifactStore on top of a ports.BlobStore.
type Store struct {
	blobs   ports.BlobStore
	logger  ports.Logger
	exclude []string
}

// New creates a Store. Directories named in exclude are never archived.
func New(blobs ports.BlobStore, logger ports.Logger, exclude ...string) *Store {
	return &Store{blobs: blobs, logger: logger, exclude: exclude}
}

// Open creates a Store talking HTTP to the blob store at endpoint.
func Open(endpoint string, logger ports.Logger) *Store {
	return New(blobstore.NewClient(endpoint, nil), logger, domain.StateDirName)
}

// PutTree archives localPath and replaces whatever is stored at key.
func (s *Store) PutTree(ctx context.Context, localPath, key string) error {
	if _, err := os.Stat(localPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrSourceNotFound, ""), "path", localPath)
		}
		return zerr.With(errors.Join(domain.ErrArchiveFailed, err), "path", localPath)
	}
	return s.put(ctx, key, func(w io.Writer) error {
		return archive.WriteTree(w, localPath, s.exclude...)
	})
}

// PutFile archives a single file under its base name and stores it at key.
func (s *Store) PutFile(ctx context.Context, file, key string) error {
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrSourceNotFound, ""), "path", file)
		}
		return zerr.With(errors.Join(domain.ErrArchiveFailed, err), "path", file)
	}
	return s.put(ctx, key, func(w io.Writer) error {
		return archive.WriteFile(w, file)
	})
}

// put deletes the previous blob and streams a fresh archive through a pipe.
// The pipe is always closed so the upload never waits on a dead writer.
func (s *Store) put(ctx context.Context, key string, fill func(io.Writer) error) error {
	if err := s.blobs.Delete(ctx, key); err != nil {
		return zerr.With(err, "key", key)
	}
	if err := s.blobs.Mkdir(ctx, path.Dir(key)); err != nil {
		return zerr.With(err, "key", key)
	}

	pr, pw := io.Pipe()
	var uploaded atomic.Bool
	archived := make(chan error, 1)
	go func() {
		err := fill(pw)
		failed := err
		if uploaded.Load() {
			// The upload ended first; the writer only saw the closed pipe.
			failed = nil
		}
		_ = pw.CloseWithError(err)
		archived <- failed
	}()

	putErr := s.blobs.Put(ctx, key, pr)
	uploaded.Store(true)
	_ = pr.CloseWithError(errUploadDone)

	if err := <-archived; err != nil {
		return zerr.With(err, "key", key)
	}
	if putErr != nil {
		return zerr.With(putErr, "key", key)
	}
	return nil
}

var errUploadDone = errors.New("upload finished")

// GetTree expands the archive at key below destPath.
// A corrupt archive also matches ErrSourceNotFound so callers can treat it as missing.
func (s *Store) GetTree(ctx context.Context, key, destPath string) error {
	rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		return zerr.With(err, "key", key)
	}
	defer func() { _ = rc.Close() }()

	if err := archive.Extract(rc, destPath); err != nil {
		if errors.Is(err, domain.ErrCorruptArchive) {
			s.logger.Warn("corrupt archive in store", "key", key)
			return zerr.With(errors.Join(domain.ErrSourceNotFound, err), "key", key)
		}
		return zerr.With(err, "key", key)
	}
	return nil
}

// Exists reports whether a blob is stored at key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	entries, err := s.blobs.List(ctx, path.Dir(key))
	if errors.Is(err, domain.ErrSourceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	want := path.Clean("/" + key)
	for _, e := range entries {
		if path.Clean("/"+e.Path) == want && !e.IsDir {
			return true, nil
		}
	}
	return false, nil
}

// EnsureNamespace creates prefix if it does not exist yet.
func (s *Store) EnsureNamespace(ctx context.Context, prefix string) error {
	return s.blobs.Mkdir(ctx, prefix)
}
