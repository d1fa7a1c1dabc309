package types

// ServerCertificate binds a server signing key to a key id, signed by
// the deployment's trust root. Immutable once constructed; validity is
// re-checked on every use.
type ServerCertificate struct {
	KeyID     uint32        `json:"key_id"`
	Key       Ed25519Public `json:"key"`
	Signature []byte        `json:"signature"`
}

// SenderCertificate attests, under a server certificate, that a sender
// address holds an identity key, until an expiration instant. The
// expiration is compared against a caller-supplied timestamp, never
// against a wall clock read inside the engine.
type SenderCertificate struct {
	Sender     string       `json:"sender"`
	DeviceID   uint32       `json:"device_id"`
	Identity   X25519Public `json:"identity"`
	Expiration uint64       `json:"expiration"`

	Signer    ServerCertificate `json:"signer"`
	Signature []byte            `json:"signature"`
}

// Address returns the certified sender address.
func (c SenderCertificate) Address() ProtocolAddress {
	return ProtocolAddress{Name: c.Sender, DeviceID: c.DeviceID}
}
