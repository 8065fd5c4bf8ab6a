package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/crmboard/internal/filelock"
)

const fileMode = 0o600

// ErrCorrupt is returned when the store file exists but cannot be parsed.
var ErrCorrupt = errors.New("corrupt store file")

// FileStore keeps all keys in a single YAML mapping file. Every call reads
// the file fresh, so changes made by other processes are observed, and every
// write happens under an advisory lock and is replaced atomically.
//
// A write over a corrupt file moves it aside to <path>.bak and starts from
// an empty mapping.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store backed by the file at path. The file is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, logger: slog.New(slog.DiscardHandler)}
}

// WithLogger sets the logger used to report a corrupt file being replaced.
func (s *FileStore) WithLogger(logger *slog.Logger) *FileStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, bool, error) {
	entries, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// Set implements Store.
func (s *FileStore) Set(key, value string) error {
	return filelock.With(s.path, func() error {
		entries, err := s.readForWrite()
		if err != nil {
			return err
		}
		entries[key] = value
		return s.write(entries)
	})
}

// Delete implements Store. Deleting an absent key is not an error.
func (s *FileStore) Delete(key string) error {
	return filelock.With(s.path, func() error {
		entries, err := s.readForWrite()
		if err != nil {
			return err
		}
		if _, ok := entries[key]; !ok {
			return nil
		}
		delete(entries, key)
		return s.write(entries)
	})
}

// Keys returns the stored keys in sorted order.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // store path from trusted board dir
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}

	entries := map[string]string{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing store %s: %w: %w", s.path, ErrCorrupt, err)
	}
	return entries, nil
}

// readForWrite is read for callers holding the lock. A corrupt file is
// renamed to BackupPath and replaced by an empty mapping.
func (s *FileStore) readForWrite() (map[string]string, error) {
	entries, err := s.read()
	if !errors.Is(err, ErrCorrupt) {
		return entries, err
	}
	if renameErr := os.Rename(s.path, s.BackupPath()); renameErr != nil {
		return nil, fmt.Errorf("moving corrupt store aside: %w", renameErr)
	}
	s.logger.Warn("replacing corrupt store file", "path", s.path, "backup", s.BackupPath(), "error", err)
	return map[string]string{}, nil
}

// BackupPath is where a corrupt store file is moved before being replaced.
func (s *FileStore) BackupPath() string {
	return s.path + ".bak"
}

func (s *FileStore) write(entries map[string]string) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".storage-*")
	if err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), fileMode); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}
