package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"sealwire/internal/domain"
)

const (
	identityFilename = "identity.json.enc"
	pinsFilename     = "identity_pins.json"
)

// identityFile is the plaintext layout inside the encrypted identity blob.
type identityFile struct {
	KeyPair        domain.IdentityKeyPair `json:"key_pair"`
	RegistrationID uint32                 `json:"registration_id"`
}

// FileIdentityStore persists the local identity key pair, encrypted under a
// passphrase, and the identity keys pinned for remote addresses.
type FileIdentityStore struct {
	dir        string
	passphrase string

	mu     sync.Mutex
	cached *identityFile
}

// NewFileIdentityStore returns a FileIdentityStore rooted at dir.
func NewFileIdentityStore(dir, passphrase string) *FileIdentityStore {
	return &FileIdentityStore{dir: dir, passphrase: passphrase}
}

// Initialize writes a freshly generated identity to disk. It refuses to
// overwrite an existing identity.
func (s *FileIdentityStore) Initialize(pair domain.IdentityKeyPair, registrationID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, identityFilename)
	if _, err := os.Stat(path); err == nil {
		return os.ErrExist
	}

	raw, err := json.Marshal(identityFile{KeyPair: pair, RegistrationID: registrationID})
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	ct, err := sealBlob(s.passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	if err := writeFile(path, ct, 0o600); err != nil {
		return err
	}
	s.cached = &identityFile{KeyPair: pair, RegistrationID: registrationID}
	return nil
}

// GetIdentityKeyPair decrypts and returns the local identity.
func (s *FileIdentityStore) GetIdentityKeyPair() (domain.IdentityKeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.load()
	if err != nil {
		return domain.IdentityKeyPair{}, err
	}
	return id.KeyPair, nil
}

// GetLocalRegistrationID returns the registration id generated at init.
func (s *FileIdentityStore) GetLocalRegistrationID() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.load()
	if err != nil {
		return 0, err
	}
	return id.RegistrationID, nil
}

// SaveIdentity pins key for addr, returning true when it replaced a
// different previously pinned key.
func (s *FileIdentityStore) SaveIdentity(addr domain.ProtocolAddress, key domain.X25519Public) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, pinsFilename)
	pins := map[string]domain.X25519Public{}
	if err := readJSON(path, &pins); err != nil {
		return false, err
	}

	prev, had := pins[addr.String()]
	if had && prev == key {
		return false, nil
	}
	pins[addr.String()] = key
	if err := writeJSON(path, pins, 0o600); err != nil {
		return false, err
	}
	return had, nil
}

// GetIdentity returns the pinned key for addr, with ok false when the
// address has never been seen.
func (s *FileIdentityStore) GetIdentity(addr domain.ProtocolAddress) (domain.X25519Public, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, pinsFilename)
	pins := map[string]domain.X25519Public{}
	if err := readJSON(path, &pins); err != nil {
		return domain.X25519Public{}, false, err
	}
	key, ok := pins[addr.String()]
	return key, ok, nil
}

// IsTrustedIdentity trusts a key when the address is unknown or the key
// matches the pin. The direction is accepted so policies can diverge later;
// both directions currently share the trust-on-first-use rule.
func (s *FileIdentityStore) IsTrustedIdentity(
	addr domain.ProtocolAddress,
	key domain.X25519Public,
	_ domain.Direction,
) (bool, error) {
	pinned, ok, err := s.GetIdentity(addr)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return pinned == key, nil
}

// load decrypts the identity file, caching the result.
func (s *FileIdentityStore) load() (*identityFile, error) {
	if s.cached != nil {
		return s.cached, nil
	}
	b, err := os.ReadFile(filepath.Join(s.dir, identityFilename))
	if err != nil {
		return nil, err
	}
	pt, err := openBlob(s.passphrase, b)
	if err != nil {
		return nil, err
	}
	var id identityFile
	if err := json.Unmarshal(pt, &id); err != nil {
		return nil, err
	}
	s.cached = &id
	return s.cached, nil
}

// Compile-time assertion that FileIdentityStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*FileIdentityStore)(nil)
