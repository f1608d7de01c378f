package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/clearmark/ip-registry-backend/interfaces"
)

// FileStore persists the registry document as a single JSON file at a
// configurable path. Saves go through a temp file and an atomic rename so a
// concurrent reader never observes a torn document.
type FileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed. The file itself is created lazily on first Load.
func NewFileStore(path string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	return &FileStore{
		path: path,
		log:  log,
	}, nil
}

// Load reads the registry document. A missing file is initialized to the
// empty document and returned; an existing but undecodable file is fatal and
// is never reset.
func (s *FileStore) Load() (*interfaces.Store, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		store := interfaces.NewStore()
		if err := s.Save(store); err != nil {
			return nil, fmt.Errorf("failed to initialize registry document: %w", err)
		}
		s.log.Info("Initialized empty registry document", slog.String("path", s.path))
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry document: %w", err)
	}

	var store interfaces.Store
	if err := json.Unmarshal(raw, &store); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrCorruptStore, err)
	}
	if store.LastID < 0 {
		return nil, fmt.Errorf("%w: negative lastId %d", interfaces.ErrCorruptStore, store.LastID)
	}
	if store.Records == nil {
		store.Records = []interfaces.Record{}
	}

	return &store, nil
}

// Save overwrites the durable document with store. The write is
// all-or-nothing: the new content is written to a temp file in the same
// directory and renamed over the old one.
func (s *FileStore) Save(store *interfaces.Store) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".registry-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write registry document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace registry document: %w", err)
	}

	s.log.Debug("Saved registry document",
		slog.String("path", s.path),
		slog.Int("records", len(store.Records)),
		slog.Int64("lastId", store.LastID))

	return nil
}

// Path returns the durable location of the document.
func (s *FileStore) Path() string {
	return s.path
}
