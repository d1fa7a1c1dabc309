package types

// IdentityKey is the public half of an identity: the X25519 key used
// for Diffie-Hellman plus the Ed25519 key used for signatures.
type IdentityKey struct {
	DH  X25519Public  `json:"dh"`
	Sig Ed25519Public `json:"sig"`
}

// IdentityKeyPair is the long-term key material for a device. Immutable
// once generated.
type IdentityKeyPair struct {
	DHPub   X25519Public   `json:"dh_pub"`
	DHPriv  X25519Private  `json:"dh_priv"`
	SigPub  Ed25519Public  `json:"sig_pub"`
	SigPriv Ed25519Private `json:"sig_priv"`
}

// PublicKey returns the public half of the pair.
func (kp IdentityKeyPair) PublicKey() IdentityKey {
	return IdentityKey{DH: kp.DHPub, Sig: kp.SigPub}
}
