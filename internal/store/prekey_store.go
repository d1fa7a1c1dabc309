package store

import (
	"path/filepath"
	"sync"

	"sealwire/internal/domain"
)

const preKeysFilename = "prekeys.json"

// FilePreKeyStore persists one-time pre-key pairs to disk.
type FilePreKeyStore struct {
	dir string
	mu  sync.Mutex
}

// NewFilePreKeyStore returns a FilePreKeyStore rooted at dir.
func NewFilePreKeyStore(dir string) *FilePreKeyStore {
	return &FilePreKeyStore{dir: dir}
}

// LoadPreKey retrieves a pre-key by id.
func (s *FilePreKeyStore) LoadPreKey(id uint32) (domain.PreKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return domain.PreKeyRecord{}, err
	}
	rec, ok := m[id]
	if !ok {
		return domain.PreKeyRecord{}, domain.ErrInvalidKeyID
	}
	return rec, nil
}

// StorePreKey stores a pre-key record by id.
func (s *FilePreKeyStore) StorePreKey(id uint32, rec domain.PreKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return err
	}
	m[id] = rec
	return writeJSON(filepath.Join(s.dir, preKeysFilename), m, 0o600)
}

// RemovePreKey deletes a pre-key record. Removing an absent id is a no-op.
func (s *FilePreKeyStore) RemovePreKey(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return nil
	}
	delete(m, id)
	return writeJSON(filepath.Join(s.dir, preKeysFilename), m, 0o600)
}

// ContainsPreKey reports presence without consuming.
func (s *FilePreKeyStore) ContainsPreKey(id uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return false, err
	}
	_, ok := m[id]
	return ok, nil
}

// ListPreKeys returns the remaining pre-key records for bundle assembly.
func (s *FilePreKeyStore) ListPreKeys() ([]domain.PreKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]domain.PreKeyRecord, 0, len(m))
	for _, rec := range m {
		out = append(out, rec)
	}
	return out, nil
}

func (s *FilePreKeyStore) read() (map[uint32]domain.PreKeyRecord, error) {
	m := map[uint32]domain.PreKeyRecord{}
	if err := readJSON(filepath.Join(s.dir, preKeysFilename), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Compile-time assertion that FilePreKeyStore implements domain.PreKeyStore.
var _ domain.PreKeyStore = (*FilePreKeyStore)(nil)
