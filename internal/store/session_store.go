package store

import (
	"path/filepath"
	"sync"

	"sealwire/internal/domain"
)

const sessionsFilename = "sessions.json"

// FileSessionStore persists session records to disk, keyed by peer address.
type FileSessionStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileSessionStore returns a FileSessionStore rooted at dir.
func NewFileSessionStore(dir string) *FileSessionStore {
	return &FileSessionStore{dir: dir}
}

// LoadSession retrieves the session record for addr.
func (s *FileSessionStore) LoadSession(addr domain.ProtocolAddress) (domain.SessionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFilename)
	m := map[string]domain.SessionRecord{}
	if err := readJSON(path, &m); err != nil {
		return domain.SessionRecord{}, false, err
	}
	rec, ok := m[addr.String()]
	return rec, ok, nil
}

// StoreSession writes the session record for addr.
func (s *FileSessionStore) StoreSession(addr domain.ProtocolAddress, rec domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFilename)
	m := map[string]domain.SessionRecord{}
	_ = readJSON(path, &m)
	m[addr.String()] = rec
	return writeJSON(path, m, 0o600)
}

// Compile-time assertion that FileSessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*FileSessionStore)(nil)
