package interfaces

import (
	"context"

	domaintypes "sealwire/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects the local identity.
type IdentityService interface {
	Generate() (domaintypes.IdentityKeyPair, domaintypes.Fingerprint, error)
	Load() (domaintypes.IdentityKeyPair, error)
	Fingerprint() (domaintypes.Fingerprint, error)
}

// PreKeyService generates pre-keys and assembles registration bundles.
type PreKeyService interface {
	GeneratePreKeys(count int) (domaintypes.RegistrationBundle, error)
	CurrentBundle() (domaintypes.RegistrationBundle, error)
}

// SessionService establishes sessions from fetched bundles.
type SessionService interface {
	InitiateSession(ctx context.Context, peer domaintypes.ProtocolAddress) error
	HasSession(peer domaintypes.ProtocolAddress) (bool, error)
}

// MessageService encrypts, sends, fetches, and decrypts 1:1 messages,
// sealed-sender wrapped end to end.
type MessageService interface {
	Send(ctx context.Context, to domaintypes.ProtocolAddress, plaintext []byte) error
	Receive(ctx context.Context, limit int) ([]domaintypes.DecryptedMessage, error)
}

// GroupService manages sender-key distribution and group traffic.
type GroupService interface {
	CreateGroup(ctx context.Context, members []domaintypes.ProtocolAddress) (domaintypes.GroupID, error)
	Invite(ctx context.Context, group domaintypes.GroupID, members []domaintypes.ProtocolAddress) error
	Send(ctx context.Context, group domaintypes.GroupID, plaintext []byte) error
	Receive(ctx context.Context, group domaintypes.GroupID, limit int) ([]domaintypes.DecryptedMessage, error)
}
