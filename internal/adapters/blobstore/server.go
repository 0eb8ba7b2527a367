package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

// Server serves the blob protocol from a local directory.
// Writes go to a temporary file that is renamed into place, so readers see
// either the previous or the new blob.
type Server struct {
	root   string
	logger ports.Logger
	mux    *http.ServeMux
}

// NewServer creates a server rooted at dir.
func NewServer(dir string, logger ports.Logger) *Server {
	s := &Server{root: dir, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("PUT "+APIPrefix+"/{path...}", s.handlePut)
	s.mux.HandleFunc("GET "+APIPrefix+"/{path...}", s.handleGet)
	s.mux.HandleFunc("DELETE "+APIPrefix+"/{path...}", s.handleDelete)
	s.mux.HandleFunc("POST "+APIPrefix+"/{path...}", s.handlePost)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve accepts connections on lis until ctx is done.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create store directory"), "dir", s.root)
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// resolve maps a request path to a location below the store root.
func (s *Server) resolve(r *http.Request) (string, string) {
	p := path.Clean("/" + r.PathValue("path"))
	return p, filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	p, target := s.resolve(r)
	if p == "/" {
		http.Error(w, "cannot write the store root", http.StatusBadRequest)
		return
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		http.Error(w, "path is a directory", http.StatusConflict)
		return
	}

	if err := writeAtomic(target, r.Body); err != nil {
		s.fail(w, p, err)
		return
	}
	s.logger.Debug("blob stored", "path", p)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get(queryList) != "" {
		s.handleList(w, r)
		return
	}

	p, target := s.resolve(r)
	// #nosec G304 -- target is cleaned and rooted at the store directory
	f, err := os.Open(target)
	if err != nil {
		s.fail(w, p, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		s.fail(w, p, err)
		return
	}
	if info.IsDir() {
		http.Error(w, "path is a directory", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	p, target := s.resolve(r)
	entries, err := os.ReadDir(target)
	if err != nil {
		s.fail(w, p, err)
		return
	}

	out := make([]ports.BlobInfo, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		bi := ports.BlobInfo{
			Path:    path.Join(p, e.Name()),
			IsDir:   e.IsDir(),
			ModTime: info.ModTime().UTC(),
		}
		if !e.IsDir() {
			bi.Size = info.Size()
		}
		out = append(out, bi)
	}
	slices.SortFunc(out, func(a, b ports.BlobInfo) int { return strings.Compare(a.Path, b.Path) })

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Debug("list response aborted", "path", p, "error", err)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, target := s.resolve(r)
	if p == "/" {
		http.Error(w, "cannot delete the store root", http.StatusBadRequest)
		return
	}
	if err := os.RemoveAll(target); err != nil {
		s.fail(w, p, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get(queryOp) != opMkdir {
		http.Error(w, "unsupported operation", http.StatusBadRequest)
		return
	}
	p, target := s.resolve(r)
	if err := os.MkdirAll(target, domain.DirPerm); err != nil {
		s.fail(w, p, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, p string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.logger.Error(zerr.With(err, "path", p))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

const tempPrefix = ".blob-"

// writeAtomic writes r to a temporary file next to target, syncs it and renames it into place.
func writeAtomic(target string, r io.Reader) (err error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
