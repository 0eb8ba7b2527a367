package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

var _ ports.SourceHasher = (*Hasher)(nil)

// Hasher fingerprints source trees with XXHash.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// HashTree hashes the relative path and content of every file below dir.
// The digest does not depend on where dir is located.
func (h *Hasher) HashTree(dir string, exclude []string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", dir)
	}

	hasher := xxhash.New()
	if !info.IsDir() {
		if err := h.hashFile(dir, filepath.Base(dir), hasher); err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", hasher.Sum64()), nil
	}

	for path := range h.walker.WalkFiles(dir, exclude) {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
		}
		if err := h.hashFile(path, filepath.ToSlash(rel), hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashFile(path, name string, mainHasher io.Writer) error {
	_, _ = io.WriteString(mainHasher, name)
	_, _ = mainHasher.Write([]byte{0})

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
