package store

import (
	"path/filepath"
	"sync"

	"sealwire/internal/domain"
)

const (
	signedPreKeysFilename = "signed_prekeys.json"
	preKeyMetaFilename    = "prekey_meta.json"
)

type preKeyMeta struct {
	CurrentSignedPreKeyID uint32 `json:"current_signed_pre_key_id"`
}

// FileSignedPreKeyStore persists signed pre-key pairs to disk.
type FileSignedPreKeyStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileSignedPreKeyStore returns a FileSignedPreKeyStore rooted at dir.
func NewFileSignedPreKeyStore(dir string) *FileSignedPreKeyStore {
	return &FileSignedPreKeyStore{dir: dir}
}

// LoadSignedPreKey retrieves a signed pre-key by id.
func (s *FileSignedPreKeyStore) LoadSignedPreKey(id uint32) (domain.SignedPreKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return domain.SignedPreKeyRecord{}, err
	}
	rec, ok := m[id]
	if !ok {
		return domain.SignedPreKeyRecord{}, domain.ErrInvalidKeyID
	}
	return rec, nil
}

// StoreSignedPreKey stores a signed pre-key record by id.
func (s *FileSignedPreKeyStore) StoreSignedPreKey(id uint32, rec domain.SignedPreKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return err
	}
	m[id] = rec
	return writeJSON(filepath.Join(s.dir, signedPreKeysFilename), m, 0o600)
}

// SetCurrentSignedPreKeyID records which signed pre-key id is current.
func (s *FileSignedPreKeyStore) SetCurrentSignedPreKeyID(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := preKeyMeta{CurrentSignedPreKeyID: id}
	return writeJSON(filepath.Join(s.dir, preKeyMetaFilename), meta, 0o600)
}

// CurrentSignedPreKeyID returns the recorded current signed pre-key id.
func (s *FileSignedPreKeyStore) CurrentSignedPreKeyID() (uint32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta preKeyMeta
	if err := readJSON(filepath.Join(s.dir, preKeyMetaFilename), &meta); err != nil {
		return 0, false, err
	}
	if meta.CurrentSignedPreKeyID == 0 {
		return 0, false, nil
	}
	return meta.CurrentSignedPreKeyID, true, nil
}

func (s *FileSignedPreKeyStore) read() (map[uint32]domain.SignedPreKeyRecord, error) {
	m := map[uint32]domain.SignedPreKeyRecord{}
	if err := readJSON(filepath.Join(s.dir, signedPreKeysFilename), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Compile-time assertion that FileSignedPreKeyStore implements domain.SignedPreKeyStore.
var _ domain.SignedPreKeyStore = (*FileSignedPreKeyStore)(nil)
