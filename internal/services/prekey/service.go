package prekey

import (
	"errors"
	"time"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
)

// ErrNoSignedPreKey is returned when a bundle is requested before any
// signed pre-key has been generated.
var ErrNoSignedPreKey = errors.New("no signed pre-key available")

// PreKeys is the one-time pre-key persistence the service needs: the
// domain store plus enumeration for bundle assembly.
type PreKeys interface {
	domain.PreKeyStore
	ListPreKeys() ([]domain.PreKeyRecord, error)
}

// SignedPreKeys is the signed pre-key persistence the service needs:
// the domain store plus tracking of the current id.
type SignedPreKeys interface {
	domain.SignedPreKeyStore
	SetCurrentSignedPreKeyID(id uint32) error
	CurrentSignedPreKeyID() (uint32, bool, error)
}

// Service manages pre-key pairs and builds the registration bundle.
type Service struct {
	identities domain.IdentityStore
	preKeys    PreKeys
	signed     SignedPreKeys
	deviceID   uint32
}

// New returns a pre-key service over the given stores.
func New(identities domain.IdentityStore, preKeys PreKeys, signed SignedPreKeys, deviceID uint32) *Service {
	return &Service{identities: identities, preKeys: preKeys, signed: signed, deviceID: deviceID}
}

// GeneratePreKeys creates a fresh signed pre-key, marks it current, and
// generates count one-time pre-keys. It returns the resulting bundle.
func (s *Service) GeneratePreKeys(count int) (domain.RegistrationBundle, error) {
	pair, err := s.identities.GetIdentityKeyPair()
	if err != nil {
		return domain.RegistrationBundle{}, err
	}

	// Signed pre-key: next id after the current one.
	spkID := uint32(1)
	if cur, ok, err := s.signed.CurrentSignedPreKeyID(); err != nil {
		return domain.RegistrationBundle{}, err
	} else if ok {
		spkID = cur + 1
	}
	spkPriv, spkPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.RegistrationBundle{}, err
	}
	rec := domain.SignedPreKeyRecord{
		ID:         spkID,
		Priv:       spkPriv,
		Pub:        spkPub,
		Signature:  crypto.SignEd25519(pair.SigPriv, spkPub.Slice()),
		CreatedUTC: time.Now().Unix(),
	}
	if err := s.signed.StoreSignedPreKey(spkID, rec); err != nil {
		return domain.RegistrationBundle{}, err
	}
	if err := s.signed.SetCurrentSignedPreKeyID(spkID); err != nil {
		return domain.RegistrationBundle{}, err
	}

	// One-time pre-keys: ids continue after the highest stored one.
	nextID, err := s.nextPreKeyID()
	if err != nil {
		return domain.RegistrationBundle{}, err
	}
	for i := 0; i < count; i++ {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			return domain.RegistrationBundle{}, err
		}
		id := nextID + uint32(i)
		if err := s.preKeys.StorePreKey(id, domain.PreKeyRecord{ID: id, Priv: priv, Pub: pub}); err != nil {
			return domain.RegistrationBundle{}, err
		}
	}

	return s.CurrentBundle()
}

// CurrentBundle assembles the bundle from the current signed pre-key
// and the remaining one-time pre-keys.
func (s *Service) CurrentBundle() (domain.RegistrationBundle, error) {
	pair, err := s.identities.GetIdentityKeyPair()
	if err != nil {
		return domain.RegistrationBundle{}, err
	}
	regID, err := s.identities.GetLocalRegistrationID()
	if err != nil {
		return domain.RegistrationBundle{}, err
	}

	spkID, ok, err := s.signed.CurrentSignedPreKeyID()
	if err != nil {
		return domain.RegistrationBundle{}, err
	}
	if !ok {
		return domain.RegistrationBundle{}, ErrNoSignedPreKey
	}
	spk, err := s.signed.LoadSignedPreKey(spkID)
	if err != nil {
		return domain.RegistrationBundle{}, err
	}

	recs, err := s.preKeys.ListPreKeys()
	if err != nil {
		return domain.RegistrationBundle{}, err
	}
	oneTime := make([]domain.OneTimePreKey, 0, len(recs))
	for _, r := range recs {
		oneTime = append(oneTime, domain.OneTimePreKey{ID: r.ID, Pub: r.Pub})
	}

	return domain.RegistrationBundle{
		RegistrationID:        regID,
		DeviceID:              s.deviceID,
		IdentityKey:           pair.PublicKey(),
		SignedPreKeyID:        spk.ID,
		SignedPreKey:          spk.Pub,
		SignedPreKeySignature: spk.Signature,
		OneTimePreKeys:        oneTime,
	}, nil
}

func (s *Service) nextPreKeyID() (uint32, error) {
	recs, err := s.preKeys.ListPreKeys()
	if err != nil {
		return 0, err
	}
	var max uint32
	for _, r := range recs {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1, nil
}

// Compile-time assertion that Service implements domain.PreKeyService.
var _ domain.PreKeyService = (*Service)(nil)
