package types

import "fmt"

// ProtocolAddress names one device of one account. It is the key under
// which sessions and remote identities are stored.
type ProtocolAddress struct {
	Name     string `json:"name"`
	DeviceID uint32 `json:"device_id"`
}

// NewAddress builds a ProtocolAddress.
func NewAddress(name string, deviceID uint32) ProtocolAddress {
	return ProtocolAddress{Name: name, DeviceID: deviceID}
}

// String returns "name.deviceID", the canonical store-key form.
func (a ProtocolAddress) String() string {
	return fmt.Sprintf("%s.%d", a.Name, a.DeviceID)
}

// GroupID identifies a group conversation.
type GroupID string

// String returns the string form of the group identifier.
func (g GroupID) String() string { return string(g) }

// SenderKeyName keys a sender-key record: one ratchet per
// (group, sender device).
type SenderKeyName struct {
	GroupID GroupID         `json:"group_id"`
	Sender  ProtocolAddress `json:"sender"`
}

// String returns the canonical store-key form.
func (n SenderKeyName) String() string {
	return fmt.Sprintf("%s::%s", n.GroupID, n.Sender)
}

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Direction distinguishes identity-trust decisions made while sending
// from those made while receiving, so trust-on-first-use policies can
// be asymmetric.
type Direction int

const (
	// Sending means we are about to encrypt to this identity.
	Sending Direction = iota
	// Receiving means this identity authenticated an inbound message.
	Receiving
)
