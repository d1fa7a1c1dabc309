package session

import (
	"context"
	"fmt"

	"sealwire/internal/domain"
	protosession "sealwire/internal/protocol/session"
)

// Service performs the handshake against fetched bundles and tracks
// which peers have sessions.
type Service struct {
	builder  *protosession.Builder
	sessions domain.SessionStore
	relay    domain.RelayClient
}

// New constructs a session service with the given builder, store, and
// relay client.
func New(builder *protosession.Builder, sessions domain.SessionStore, relay domain.RelayClient) *Service {
	return &Service{builder: builder, sessions: sessions, relay: relay}
}

// InitiateSession fetches the peer's pre-key bundle from the relay and
// runs the initiator handshake. The first message sent afterwards
// carries the handshake to the peer.
func (s *Service) InitiateSession(ctx context.Context, peer domain.ProtocolAddress) error {
	bundle, err := s.relay.FetchBundle(ctx, peer)
	if err != nil {
		return fmt.Errorf("fetch bundle for %q: %w", peer, err)
	}
	if err := s.builder.ProcessBundle(peer, bundle); err != nil {
		return fmt.Errorf("process bundle for %q: %w", peer, err)
	}
	return nil
}

// HasSession reports whether an active session exists for peer.
func (s *Service) HasSession(peer domain.ProtocolAddress) (bool, error) {
	rec, found, err := s.sessions.LoadSession(peer)
	if err != nil {
		return false, err
	}
	return found && rec.Current() != nil, nil
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
