package types

// AccountProfile records a device's registration with a relay: where it
// registered and the sender certificate the relay issued. The certificate
// is kept in serialized form so it can be attached to sealed envelopes
// without re-encoding.
type AccountProfile struct {
	Name     string `json:"name"`
	DeviceID uint32 `json:"device_id"`
	RelayURL string `json:"relay_url"`

	SenderCertificate []byte `json:"sender_certificate,omitempty"`
	TrustRoot         []byte `json:"trust_root,omitempty"`
}
