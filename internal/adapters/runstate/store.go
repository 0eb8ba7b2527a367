// Package runstate persists the state a run hands to the next one: the
// unbuilt module ledger, the run counter, module records, the last published
// build of each module and its outcome history.
package runstate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	ledgerFile  = "ledger.json"
	counterFile = "run.json"
	recordsFile = "records.json"
	buildsDir   = "builds"
	historyDir  = "history"
)

var _ ports.RunStateStore = (*Store)(nil)

// Store implements ports.RunStateStore with one JSON file per concern.
// Every write replaces its file atomically, and read-modify-write sequences
// are serialized by a process local mutex.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store keeping its files in dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Open creates a Store in the default state directory of a reactor root.
func Open(root string) *Store {
	return NewStore(filepath.Join(root, domain.DefaultStatePath()))
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

type counter struct {
	Last int `json:"last"`
}

// Ledger returns the persisted ledger, or an empty one.
func (s *Store) Ledger() (*domain.UnbuiltModuleLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLedger()
}

// UpdateLedger applies fn to the persisted ledger and writes it back.
// Nothing is written when fn fails.
func (s *Store) UpdateLedger(fn func(l *domain.UnbuiltModuleLedger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.readLedger()
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return s.write(filepath.Join(s.dir, ledgerFile), l)
}

func (s *Store) readLedger() (*domain.UnbuiltModuleLedger, error) {
	l := domain.NewLedger()
	if _, err := s.read(filepath.Join(s.dir, ledgerFile), l); err != nil {
		return nil, err
	}
	if l.Modules == nil {
		l.Modules = map[string]struct{}{}
	}
	return l, nil
}

// NextRunNumber increments and returns the run counter. The first run is 1.
func (s *Store) NextRunNumber() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c counter
	path := filepath.Join(s.dir, counterFile)
	if _, err := s.read(path, &c); err != nil {
		return 0, err
	}
	c.Last++
	if err := s.write(path, c); err != nil {
		return 0, err
	}
	return c.Last, nil
}

// Records returns the module records of the previous run.
func (s *Store) Records() ([]domain.ModuleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []domain.ModuleRecord
	if _, err := s.read(filepath.Join(s.dir, recordsFile), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// PutRecords replaces the module records.
func (s *Store) PutRecords(records []domain.ModuleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(filepath.Join(s.dir, recordsFile), records)
}

// BuildInfo returns the last published build of a module, or nil if there is none.
func (s *Store) BuildInfo(module string) (*domain.BuildInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var info domain.BuildInfo
	found, err := s.read(s.moduleFile(buildsDir, module), &info)
	if err != nil || !found {
		return nil, err
	}
	return &info, nil
}

// PutBuildInfo stores the last published build of a module.
func (s *Store) PutBuildInfo(info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.moduleFile(buildsDir, info.Module), info)
}

// AppendHistory appends one outcome to a module's history, keeping the last domain.HistoryLimit entries.
func (s *Store) AppendHistory(module string, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.moduleFile(historyDir, module)
	var entries []domain.HistoryEntry
	if _, err := s.read(path, &entries); err != nil {
		return err
	}
	return s.write(path, domain.AppendHistory(entries, entry))
}

// History returns the recorded outcomes of a module, oldest first.
func (s *Store) History(module string) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []domain.HistoryEntry
	if _, err := s.read(s.moduleFile(historyDir, module), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// moduleFile hashes the module id so any id maps to a safe file name.
func (s *Store) moduleFile(kind, module string) string {
	hash := sha256.Sum256([]byte(module))
	return filepath.Join(s.dir, kind, hex.EncodeToString(hash[:])+".json")
}

// read decodes the file at path into target. A missing file leaves target untouched.
func (s *Store) read(path string, target any) (bool, error) {
	// #nosec G304 -- path is built from the state directory and hashed names
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "file", path)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "file", path)
	}
	return true, nil
}

// write replaces the file at path with the JSON form of v.
func (s *Store) write(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	data = append(data, '\n')

	if err := writeFileAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "file", path)
	}
	return nil
}
