package types

// PreKeyRecord is a stored one-time pre-key pair, keyed by numeric id.
type PreKeyRecord struct {
	ID   uint32        `json:"id"`
	Priv X25519Private `json:"priv"`
	Pub  X25519Public  `json:"pub"`
}

// SignedPreKeyRecord is a stored signed pre-key pair. The signature is
// by the identity's Ed25519 key over the public key bytes.
type SignedPreKeyRecord struct {
	ID         uint32        `json:"id"`
	Priv       X25519Private `json:"priv"`
	Pub        X25519Public  `json:"pub"`
	Signature  []byte        `json:"signature"`
	CreatedUTC int64         `json:"created_utc"`
}

// OneTimePreKey is the public half of a one-time pre-key as uploaded
// to the relay.
type OneTimePreKey struct {
	ID  uint32       `json:"id"`
	Pub X25519Public `json:"pub"`
}

// RegistrationBundle is everything a device publishes to the relay: the
// identity key, the current signed pre-key, and a batch of one-time
// pre-keys. The relay hands out one OneTimePreKey per bundle fetch
// until the batch runs dry.
type RegistrationBundle struct {
	RegistrationID uint32 `json:"registration_id"`
	DeviceID       uint32 `json:"device_id"`

	IdentityKey IdentityKey `json:"identity_key"`

	SignedPreKeyID        uint32       `json:"signed_pre_key_id"`
	SignedPreKey          X25519Public `json:"signed_pre_key"`
	SignedPreKeySignature []byte       `json:"signed_pre_key_signature"`

	OneTimePreKeys []OneTimePreKey `json:"one_time_pre_keys"`
}

// PreKeyBundle is the public key material fetched for a peer before the
// first message. Consumed once by the session builder. PreKeyID and
// PreKey are nil when the peer has run out of one-time pre-keys; that
// is a valid, weaker handshake.
type PreKeyBundle struct {
	RegistrationID uint32 `json:"registration_id"`
	DeviceID       uint32 `json:"device_id"`

	IdentityKey IdentityKey `json:"identity_key"`

	SignedPreKeyID        uint32       `json:"signed_pre_key_id"`
	SignedPreKey          X25519Public `json:"signed_pre_key"`
	SignedPreKeySignature []byte       `json:"signed_pre_key_signature"`

	PreKeyID *uint32       `json:"pre_key_id,omitempty"`
	PreKey   *X25519Public `json:"pre_key,omitempty"`
}
