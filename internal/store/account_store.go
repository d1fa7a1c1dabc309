package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"sealwire/internal/domain"
)

const accountsFilename = "accounts.json"

// FileAccountStore persists per-relay account profiles to disk.
type FileAccountStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileAccountStore returns a FileAccountStore rooted at dir.
func NewFileAccountStore(dir string) *FileAccountStore {
	return &FileAccountStore{dir: dir}
}

// SaveAccountProfile stores or updates the given profile.
func (s *FileAccountStore) SaveAccountProfile(profile domain.AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountsFilename)
	profiles := map[string]domain.AccountProfile{}
	_ = readJSON(path, &profiles)
	profiles[accountKey(profile.RelayURL, profile.Name)] = profile
	return writeJSON(path, profiles, 0o600)
}

// LoadAccountProfile retrieves a profile for (relayURL, name).
func (s *FileAccountStore) LoadAccountProfile(relayURL, name string) (domain.AccountProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountsFilename)
	profiles := map[string]domain.AccountProfile{}
	if err := readJSON(path, &profiles); err != nil {
		return domain.AccountProfile{}, false, err
	}
	profile, ok := profiles[accountKey(relayURL, name)]
	return profile, ok, nil
}

func accountKey(relayURL, name string) string {
	return fmt.Sprintf("%s|%s", relayURL, name)
}
