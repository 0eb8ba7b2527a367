package ports

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -source=blob_store.go -destination=mocks/mock_blob_store.go -package=mocks

// BlobInfo describes one entry of a blob store listing.
type BlobInfo struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	IsDir   bool      `json:"is_dir"`
	ModTime time.Time `json:"mod_time"`
}

// BlobStore is the five operation protocol of the shared artifact store.
// Paths are slash separated and absolute within the store.
type BlobStore interface {
	// Put writes the content of r at path, replacing any existing blob.
	Put(ctx context.Context, path string, r io.Reader) error
	// Get opens the blob at path. The caller closes the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// List returns the entries directly below prefix.
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
	// Delete removes the blob or directory at path. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
	// Mkdir creates the directory at path and its parents.
	Mkdir(ctx context.Context, path string) error
}

// ArtifactStore moves source trees and build outputs through a BlobStore as archives.
type ArtifactStore interface {
	// PutTree archives the directory at localPath and stores it at key, replacing any previous content.
	PutTree(ctx context.Context, localPath, key string) error
	// PutFile archives the single file at path under its base name and stores it at key.
	PutFile(ctx context.Context, path, key string) error
	// GetTree expands the archive stored at key below destPath.
	GetTree(ctx context.Context, key, destPath string) error
	// Exists reports whether a blob is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
	// EnsureNamespace creates the directory prefix if it does not exist.
	EnsureNamespace(ctx context.Context, prefix string) error
}
