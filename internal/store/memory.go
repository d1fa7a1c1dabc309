package store

import (
	"sync"

	"sealwire/internal/domain"
)

// MemoryIdentityStore holds identity state in process memory.
type MemoryIdentityStore struct {
	mu             sync.Mutex
	keyPair        domain.IdentityKeyPair
	registrationID uint32
	pins           map[string]domain.X25519Public
}

// NewMemoryIdentityStore returns a MemoryIdentityStore for the given identity.
func NewMemoryIdentityStore(pair domain.IdentityKeyPair, registrationID uint32) *MemoryIdentityStore {
	return &MemoryIdentityStore{
		keyPair:        pair,
		registrationID: registrationID,
		pins:           make(map[string]domain.X25519Public),
	}
}

// Initialize replaces the held identity. It mirrors the file store's
// initialisation so services can treat both uniformly.
func (s *MemoryIdentityStore) Initialize(pair domain.IdentityKeyPair, registrationID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyPair = pair
	s.registrationID = registrationID
	return nil
}

// GetIdentityKeyPair returns the local identity.
func (s *MemoryIdentityStore) GetIdentityKeyPair() (domain.IdentityKeyPair, error) {
	return s.keyPair, nil
}

// GetLocalRegistrationID returns the local registration id.
func (s *MemoryIdentityStore) GetLocalRegistrationID() (uint32, error) {
	return s.registrationID, nil
}

// SaveIdentity pins key for addr, returning true when it replaced a
// different previously pinned key.
func (s *MemoryIdentityStore) SaveIdentity(addr domain.ProtocolAddress, key domain.X25519Public) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.pins[addr.String()]
	s.pins[addr.String()] = key
	return had && prev != key, nil
}

// GetIdentity returns the pinned key for addr.
func (s *MemoryIdentityStore) GetIdentity(addr domain.ProtocolAddress) (domain.X25519Public, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.pins[addr.String()]
	return key, ok, nil
}

// IsTrustedIdentity applies the same trust-on-first-use rule as the file store.
func (s *MemoryIdentityStore) IsTrustedIdentity(
	addr domain.ProtocolAddress,
	key domain.X25519Public,
	_ domain.Direction,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pinned, ok := s.pins[addr.String()]
	if !ok {
		return true, nil
	}
	return pinned == key, nil
}

// MemoryPreKeyStore holds one-time pre-keys in process memory.
type MemoryPreKeyStore struct {
	mu   sync.Mutex
	recs map[uint32]domain.PreKeyRecord
}

// NewMemoryPreKeyStore returns an empty MemoryPreKeyStore.
func NewMemoryPreKeyStore() *MemoryPreKeyStore {
	return &MemoryPreKeyStore{recs: make(map[uint32]domain.PreKeyRecord)}
}

// LoadPreKey retrieves a pre-key by id.
func (s *MemoryPreKeyStore) LoadPreKey(id uint32) (domain.PreKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return domain.PreKeyRecord{}, domain.ErrInvalidKeyID
	}
	return rec, nil
}

// StorePreKey stores a pre-key record by id.
func (s *MemoryPreKeyStore) StorePreKey(id uint32, rec domain.PreKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs[id] = rec
	return nil
}

// RemovePreKey deletes a pre-key record.
func (s *MemoryPreKeyStore) RemovePreKey(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.recs, id)
	return nil
}

// ContainsPreKey reports presence without consuming.
func (s *MemoryPreKeyStore) ContainsPreKey(id uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.recs[id]
	return ok, nil
}

// ListPreKeys returns the remaining pre-key records.
func (s *MemoryPreKeyStore) ListPreKeys() ([]domain.PreKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PreKeyRecord, 0, len(s.recs))
	for _, rec := range s.recs {
		out = append(out, rec)
	}
	return out, nil
}

// MemorySignedPreKeyStore holds signed pre-keys in process memory.
type MemorySignedPreKeyStore struct {
	mu      sync.Mutex
	recs    map[uint32]domain.SignedPreKeyRecord
	current uint32
}

// NewMemorySignedPreKeyStore returns an empty MemorySignedPreKeyStore.
func NewMemorySignedPreKeyStore() *MemorySignedPreKeyStore {
	return &MemorySignedPreKeyStore{recs: make(map[uint32]domain.SignedPreKeyRecord)}
}

// LoadSignedPreKey retrieves a signed pre-key by id.
func (s *MemorySignedPreKeyStore) LoadSignedPreKey(id uint32) (domain.SignedPreKeyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return domain.SignedPreKeyRecord{}, domain.ErrInvalidKeyID
	}
	return rec, nil
}

// StoreSignedPreKey stores a signed pre-key record by id.
func (s *MemorySignedPreKeyStore) StoreSignedPreKey(id uint32, rec domain.SignedPreKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs[id] = rec
	return nil
}

// SetCurrentSignedPreKeyID records which signed pre-key id is current.
func (s *MemorySignedPreKeyStore) SetCurrentSignedPreKeyID(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = id
	return nil
}

// CurrentSignedPreKeyID returns the recorded current signed pre-key id.
func (s *MemorySignedPreKeyStore) CurrentSignedPreKeyID() (uint32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current, s.current != 0, nil
}

// MemorySessionStore holds session records in process memory.
type MemorySessionStore struct {
	mu   sync.Mutex
	recs map[string]domain.SessionRecord
}

// NewMemorySessionStore returns an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{recs: make(map[string]domain.SessionRecord)}
}

// LoadSession retrieves the session record for addr.
func (s *MemorySessionStore) LoadSession(addr domain.ProtocolAddress) (domain.SessionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[addr.String()]
	return rec, ok, nil
}

// StoreSession writes the session record for addr.
func (s *MemorySessionStore) StoreSession(addr domain.ProtocolAddress, rec domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs[addr.String()] = rec
	return nil
}

// MemorySenderKeyStore holds sender-key records in process memory.
type MemorySenderKeyStore struct {
	mu   sync.Mutex
	recs map[string]domain.SenderKeyRecord
}

// NewMemorySenderKeyStore returns an empty MemorySenderKeyStore.
func NewMemorySenderKeyStore() *MemorySenderKeyStore {
	return &MemorySenderKeyStore{recs: make(map[string]domain.SenderKeyRecord)}
}

// LoadSenderKey retrieves the sender-key record for name.
func (s *MemorySenderKeyStore) LoadSenderKey(name domain.SenderKeyName) (domain.SenderKeyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[name.String()]
	return rec, ok, nil
}

// StoreSenderKey writes the sender-key record for name.
func (s *MemorySenderKeyStore) StoreSenderKey(name domain.SenderKeyName, rec domain.SenderKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs[name.String()] = rec
	return nil
}

// Compile-time assertions that the memory stores implement the domain interfaces.
var (
	_ domain.IdentityStore     = (*MemoryIdentityStore)(nil)
	_ domain.PreKeyStore       = (*MemoryPreKeyStore)(nil)
	_ domain.SignedPreKeyStore = (*MemorySignedPreKeyStore)(nil)
	_ domain.SessionStore      = (*MemorySessionStore)(nil)
	_ domain.SenderKeyStore    = (*MemorySenderKeyStore)(nil)
)
