// Package archive streams directory trees as xz-compressed tar archives.
package archive

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/ulikunitz/xz"
	"go.trai.ch/zerr"
)

// WriteTree archives every directory and regular file below root into w.
// Directories come first, then files, each under its slash separated path
// relative to root. Directories whose base name is in exclude are skipped.
func WriteTree(w io.Writer, root string, exclude ...string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return WriteFile(w, root)
	}

	var dirs, files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if d.IsDir() {
			if slices.Contains(exclude, d.Name()) {
				return filepath.SkipDir
			}
			dirs = append(dirs, p)
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}

	return write(w, func(tw *tar.Writer) error {
		for _, p := range slices.Concat(dirs, files) {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			if err := addEntry(tw, p, filepath.ToSlash(rel)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFile archives the single file at p under its base name.
func WriteFile(w io.Writer, p string) error {
	return write(w, func(tw *tar.Writer) error {
		return addEntry(tw, p, filepath.Base(p))
	})
}

func write(w io.Writer, fill func(*tar.Writer) error) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}
	tw := tar.NewWriter(xw)

	if err := fill(tw); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}
	if err := tw.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}
	if err := xw.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}
	return nil
}

func addEntry(tw *tar.Writer, p, name string) error {
	info, err := os.Lstat(p)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Uname, hdr.Gname = "", ""
	if info.IsDir() {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	// #nosec G304 -- p was produced by walking the archived tree
	f, err := os.Open(p)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "file", p)
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(tw, f)
	return err
}

// Extract expands an archive written by WriteTree or WriteFile below dest.
// Symlinks and other special entries are skipped. Decoding failures and
// entries that would land outside dest are reported as ErrCorruptArchive.
func Extract(r io.Reader, dest string) error {
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return err
	}

	xr, err := xz.NewReader(r)
	if err != nil {
		return corrupt(err)
	}
	tr := tar.NewReader(xr)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return corrupt(err)
		}

		target, err := entryPath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		}
	}
}

func extractFile(tr *tar.Reader, target string, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}

	// #nosec G304 -- target is checked to stay below the destination
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o200)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, tr); err != nil {
		_ = out.Close()
		return corrupt(err)
	}
	return out.Close()
}

// entryPath maps a tar entry name to a path below dest.
func entryPath(dest, name string) (string, error) {
	clean := path.Clean("/" + strings.TrimPrefix(name, "./"))
	if name == "" || path.IsAbs(name) || strings.Contains("/"+name+"/", "/../") {
		return "", zerr.With(corrupt(errEscapingEntry), "entry", name)
	}
	return filepath.Join(dest, filepath.FromSlash(clean)), nil
}

var errEscapingEntry = errors.New("archive entry escapes destination")

func corrupt(err error) error {
	return errors.Join(domain.ErrCorruptArchive, err)
}
