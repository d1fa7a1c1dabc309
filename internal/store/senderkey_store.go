package store

import (
	"path/filepath"
	"sync"

	"sealwire/internal/domain"
)

const senderKeysFilename = "sender_keys.json"

// FileSenderKeyStore persists group sender-key records to disk, keyed by
// (group, sender device).
type FileSenderKeyStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileSenderKeyStore returns a FileSenderKeyStore rooted at dir.
func NewFileSenderKeyStore(dir string) *FileSenderKeyStore {
	return &FileSenderKeyStore{dir: dir}
}

// LoadSenderKey retrieves the sender-key record for name.
func (s *FileSenderKeyStore) LoadSenderKey(name domain.SenderKeyName) (domain.SenderKeyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, senderKeysFilename)
	m := map[string]domain.SenderKeyRecord{}
	if err := readJSON(path, &m); err != nil {
		return domain.SenderKeyRecord{}, false, err
	}
	rec, ok := m[name.String()]
	return rec, ok, nil
}

// StoreSenderKey writes the sender-key record for name.
func (s *FileSenderKeyStore) StoreSenderKey(name domain.SenderKeyName, rec domain.SenderKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, senderKeysFilename)
	m := map[string]domain.SenderKeyRecord{}
	_ = readJSON(path, &m)
	m[name.String()] = rec
	return writeJSON(path, m, 0o600)
}

// Compile-time assertion that FileSenderKeyStore implements domain.SenderKeyStore.
var _ domain.SenderKeyStore = (*FileSenderKeyStore)(nil)
