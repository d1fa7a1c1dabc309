package interfaces

import domaintypes "sealwire/internal/domain/types"

// IdentityStore holds the local identity material and the identities
// pinned for remote addresses.
type IdentityStore interface {
	GetIdentityKeyPair() (domaintypes.IdentityKeyPair, error)
	GetLocalRegistrationID() (uint32, error)

	// SaveIdentity pins the DH half of an identity for the address,
	// returning true when it replaced a different previously pinned key.
	SaveIdentity(addr domaintypes.ProtocolAddress, key domaintypes.X25519Public) (bool, error)

	// GetIdentity returns the pinned key, with ok false when the
	// address has never been seen.
	GetIdentity(addr domaintypes.ProtocolAddress) (domaintypes.X25519Public, bool, error)

	// IsTrustedIdentity applies the trust policy for the direction.
	// An unknown address is trusted (trust on first use).
	IsTrustedIdentity(
		addr domaintypes.ProtocolAddress,
		key domaintypes.X25519Public,
		direction domaintypes.Direction,
	) (bool, error)
}

// PreKeyStore manages one-time pre-key records by numeric id.
type PreKeyStore interface {
	// LoadPreKey fails with domain.ErrInvalidKeyID when absent.
	LoadPreKey(id uint32) (domaintypes.PreKeyRecord, error)
	StorePreKey(id uint32, rec domaintypes.PreKeyRecord) error
	RemovePreKey(id uint32) error
	// ContainsPreKey reports presence without consuming.
	ContainsPreKey(id uint32) (bool, error)
}

// SignedPreKeyStore manages signed pre-key records by numeric id.
type SignedPreKeyStore interface {
	// LoadSignedPreKey fails with domain.ErrInvalidKeyID when absent.
	LoadSignedPreKey(id uint32) (domaintypes.SignedPreKeyRecord, error)
	StoreSignedPreKey(id uint32, rec domaintypes.SignedPreKeyRecord) error
}

// SessionStore persists session records by peer address. Absence is a
// valid "no session yet" result, not an error.
type SessionStore interface {
	LoadSession(addr domaintypes.ProtocolAddress) (domaintypes.SessionRecord, bool, error)
	StoreSession(addr domaintypes.ProtocolAddress, rec domaintypes.SessionRecord) error
}

// SenderKeyStore persists sender-key records by (group, sender device).
type SenderKeyStore interface {
	LoadSenderKey(name domaintypes.SenderKeyName) (domaintypes.SenderKeyRecord, bool, error)
	StoreSenderKey(name domaintypes.SenderKeyName, rec domaintypes.SenderKeyRecord) error
}
