package interfaces

import (
	"context"

	domaintypes "sealwire/internal/domain/types"
)

// RelayClient is the delivery-service boundary. The relay never sees a
// sender name on 1:1 traffic; envelopes are sealed.
type RelayClient interface {
	// Register publishes our bundle and returns the sender certificate
	// issued for it.
	Register(ctx context.Context, name string, bundle domaintypes.RegistrationBundle) (domaintypes.SenderCertificate, error)

	FetchBundle(ctx context.Context, peer domaintypes.ProtocolAddress) (domaintypes.PreKeyBundle, error)

	// TrustRoot returns the relay's certificate trust root public key.
	TrustRoot(ctx context.Context) (domaintypes.Ed25519Public, error)

	SendEnvelope(ctx context.Context, env domaintypes.Envelope) error
	FetchEnvelopes(ctx context.Context, name string, limit int) ([]domaintypes.Envelope, error)
	AckEnvelopes(ctx context.Context, name string, count int) error

	SendGroupEnvelope(ctx context.Context, env domaintypes.GroupEnvelope) error
	FetchGroupEnvelopes(ctx context.Context, group domaintypes.GroupID, name string, limit int) ([]domaintypes.GroupEnvelope, error)
	AckGroupEnvelopes(ctx context.Context, group domaintypes.GroupID, name string, count int) error
}
