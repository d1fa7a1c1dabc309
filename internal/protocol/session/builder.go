package session

import (
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/protocol/ratchet"
	"sealwire/internal/protocol/x3dh"
	"sealwire/internal/util/memzero"
)

// Builder establishes sessions as the handshake initiator.
//
// Process a fetched pre-key bundle once per peer; the resulting state
// is prepended to the peer's session record and the first outbound
// messages will carry the handshake until the peer replies.
type Builder struct {
	identities domain.IdentityStore
	sessions   domain.SessionStore
}

// NewBuilder constructs a Builder over the given stores.
func NewBuilder(identities domain.IdentityStore, sessions domain.SessionStore) *Builder {
	return &Builder{identities: identities, sessions: sessions}
}

// ProcessBundle verifies the bundle, runs X3DH as the initiator, and
// stores the new session state.
//
// Contract:
//   - The signed pre-key signature must verify against the bundle's
//     identity signing key; otherwise ErrInvalidSignature.
//   - The bundle identity must be trusted for sending to addr;
//     otherwise ErrUntrustedIdentity.
//   - The one-time pre-key is optional; its absence is a valid,
//     distinct handshake.
func (b *Builder) ProcessBundle(addr domain.ProtocolAddress, bundle domain.PreKeyBundle) error {
	trusted, err := b.identities.IsTrustedIdentity(addr, bundle.IdentityKey.DH, domain.Sending)
	if err != nil {
		return err
	}
	if !trusted {
		return fmt.Errorf("%w: %s presented a conflicting identity key", domain.ErrUntrustedIdentity, addr)
	}

	if !x3dh.VerifySignedPreKey(bundle.IdentityKey.Sig, bundle.SignedPreKey, bundle.SignedPreKeySignature) {
		return fmt.Errorf("%w: signed pre-key %d", domain.ErrInvalidSignature, bundle.SignedPreKeyID)
	}

	ourIdentity, err := b.identities.GetIdentityKeyPair()
	if err != nil {
		return err
	}
	localRegistrationID, err := b.identities.GetLocalRegistrationID()
	if err != nil {
		return err
	}

	basePriv, basePub, err := crypto.GenerateX25519()
	if err != nil {
		return err
	}

	secrets, err := x3dh.InitiatorSecrets(
		ourIdentity.DHPriv,
		basePriv,
		bundle.IdentityKey.DH,
		bundle.SignedPreKey,
		bundle.PreKey,
	)
	if err != nil {
		return err
	}

	st, err := ratchet.InitializeAlice(secrets, ourIdentity.DHPub, bundle.IdentityKey.DH, bundle.SignedPreKey)
	memzero.Zero(secrets)
	if err != nil {
		return err
	}

	st.AliceBaseKey = basePub
	st.LocalRegistrationID = localRegistrationID
	st.RemoteRegistrationID = bundle.RegistrationID
	st.Pending = &domain.PendingPreKey{
		PreKeyID:       bundle.PreKeyID,
		SignedPreKeyID: bundle.SignedPreKeyID,
		BaseKey:        basePub,
	}

	rec, _, err := b.sessions.LoadSession(addr)
	if err != nil {
		return err
	}
	prependState(&rec, st)
	if err := b.sessions.StoreSession(addr, rec); err != nil {
		return err
	}
	_, err = b.identities.SaveIdentity(addr, bundle.IdentityKey.DH)
	return err
}
