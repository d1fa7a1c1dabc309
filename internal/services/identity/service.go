package identity

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"unicode"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12

	// Registration ids are 14-bit, nonzero.
	maxRegistrationID = 0x3FFF
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Store is the identity persistence the service needs: the domain store
// plus one-time initialisation of a freshly generated identity.
type Store interface {
	domain.IdentityStore
	Initialize(pair domain.IdentityKeyPair, registrationID uint32) error
}

// Service manages identity key creation and access using a backing store.
//
// The identity contains:
//   - X25519 key pair for Diffie-Hellman (X3DH and Double Ratchet).
//   - Ed25519 key pair for signing (signed pre-keys, sender keys).
type Service struct {
	store      Store
	passphrase string
}

// New returns an identity service backed by the given store. The
// passphrase is checked against the strength policy when generating.
func New(s Store, passphrase string) *Service {
	return &Service{store: s, passphrase: passphrase}
}

// Generate creates a new identity, saves it encrypted with the passphrase,
// and returns the key pair plus a short fingerprint of the X25519 public key.
func (s *Service) Generate() (domain.IdentityKeyPair, domain.Fingerprint, error) {
	if !isSecurePassphrase(s.passphrase) {
		return domain.IdentityKeyPair{}, "", ErrWeakPassphrase
	}

	dhPriv, dhPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.IdentityKeyPair{}, "", err
	}
	sigPriv, sigPub, err := crypto.GenerateEd25519()
	if err != nil {
		return domain.IdentityKeyPair{}, "", err
	}

	regID, err := newRegistrationID()
	if err != nil {
		return domain.IdentityKeyPair{}, "", err
	}

	pair := domain.IdentityKeyPair{
		DHPub:   dhPub,
		DHPriv:  dhPriv,
		SigPub:  sigPub,
		SigPriv: sigPriv,
	}
	if err := s.store.Initialize(pair, regID); err != nil {
		return domain.IdentityKeyPair{}, "", err
	}
	return pair, domain.Fingerprint(crypto.Fingerprint(pair.DHPub.Slice())), nil
}

// Load decrypts and returns the local identity.
func (s *Service) Load() (domain.IdentityKeyPair, error) {
	return s.store.GetIdentityKeyPair()
}

// Fingerprint returns a short fingerprint of the local X25519 public key.
func (s *Service) Fingerprint() (domain.Fingerprint, error) {
	pair, err := s.store.GetIdentityKeyPair()
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint(pair.DHPub.Slice())), nil
}

// newRegistrationID draws a uniform nonzero 14-bit id.
func newRegistrationID() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:])%maxRegistrationID + 1, nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
