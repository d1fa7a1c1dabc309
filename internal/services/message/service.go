package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sealwire/internal/domain"
	"sealwire/internal/protocol/sealed"
	protosession "sealwire/internal/protocol/session"
)

var (
	// ErrNoSession indicates there is no stored session with the peer.
	ErrNoSession = errors.New("no session with peer; run start-session first")

	// ErrNotRegistered indicates no sender certificate is available yet.
	ErrNotRegistered = errors.New("not registered with the relay")
)

// Credentials supplies the sender certificate and trust root obtained
// at registration. Loaded lazily so the service can be wired before
// the device has registered.
type Credentials func() (domain.SenderCertificate, domain.Ed25519Public, error)

// DistributionHandler consumes sender-key distribution payloads that
// arrive over the 1:1 channel.
type DistributionHandler interface {
	HandleDistribution(sender domain.ProtocolAddress, payload []byte) error
}

// Service sends and receives messages over the relay.
type Service struct {
	identities    domain.IdentityStore
	sessions      domain.SessionStore
	preKeys       domain.PreKeyStore
	signedPreKeys domain.SignedPreKeyStore
	relay         domain.RelayClient
	creds         Credentials
	log           *zap.Logger

	distributions DistributionHandler
}

// New constructs a message service with the given stores, relay client,
// and credential source.
func New(
	identities domain.IdentityStore,
	sessions domain.SessionStore,
	preKeys domain.PreKeyStore,
	signedPreKeys domain.SignedPreKeyStore,
	relay domain.RelayClient,
	creds Credentials,
	log *zap.Logger,
) *Service {
	return &Service{
		identities:    identities,
		sessions:      sessions,
		preKeys:       preKeys,
		signedPreKeys: signedPreKeys,
		relay:         relay,
		creds:         creds,
		log:           log,
	}
}

// AttachDistributionHandler routes inbound sender-key distributions to
// h. Wired after construction because the group service sends its
// distributions through this service.
func (s *Service) AttachDistributionHandler(h DistributionHandler) {
	s.distributions = h
}

// Send encrypts plaintext for the peer and posts it sealed.
func (s *Service) Send(ctx context.Context, to domain.ProtocolAddress, plaintext []byte) error {
	return s.send(ctx, to, plaintext, false)
}

// SendDistribution delivers a sender-key distribution payload over the
// peer's 1:1 session, tagged so the receiving side routes it to the
// group layer instead of the user.
func (s *Service) SendDistribution(ctx context.Context, to domain.ProtocolAddress, payload []byte) error {
	return s.send(ctx, to, payload, true)
}

func (s *Service) send(ctx context.Context, to domain.ProtocolAddress, plaintext []byte, distribution bool) error {
	cert, _, err := s.creds()
	if err != nil {
		return err
	}

	rec, found, err := s.sessions.LoadSession(to)
	if err != nil {
		return err
	}
	if !found || rec.Current() == nil {
		return ErrNoSession
	}
	recipientIdentity := rec.Current().RemoteIdentity

	cipher := protosession.NewCipher(to, s.identities, s.sessions, s.preKeys, s.signedPreKeys)
	msgType, body, err := cipher.Encrypt(plaintext)
	if err != nil {
		return err
	}

	sealedType := msgType
	if distribution {
		// The session message type still rides along as the first byte
		// so the receiver knows how to open the inner message.
		body = append([]byte{byte(msgType)}, body...)
		sealedType = domain.SenderKeyDistributionType
	}

	sealedBytes, err := sealed.Encrypt(cert, recipientIdentity, sealedType, body)
	if err != nil {
		return err
	}

	env := domain.Envelope{
		To:        to.Name,
		Sealed:    sealedBytes,
		Timestamp: time.Now().Unix(),
	}
	if err := s.relay.SendEnvelope(ctx, env); err != nil {
		return err
	}
	s.log.Debug("sent envelope",
		zap.String("to", to.String()),
		zap.Uint8("type", uint8(sealedType)),
		zap.Int("size", len(sealedBytes)),
	)
	return nil
}

// Receive fetches queued envelopes, unseals and decrypts them in
// order, and acks only what was processed. Distribution payloads are
// routed to the group layer and do not appear in the result.
func (s *Service) Receive(ctx context.Context, limit int) ([]domain.DecryptedMessage, error) {
	cert, trustRoot, err := s.creds()
	if err != nil {
		return nil, err
	}
	ourPair, err := s.identities.GetIdentityKeyPair()
	if err != nil {
		return nil, err
	}

	envs, err := s.relay.FetchEnvelopes(ctx, cert.Sender, limit)
	if err != nil {
		return nil, err
	}

	// Certificates are validated against our clock. The envelope
	// timestamp is sender-supplied and must not gate expiry.
	now := uint64(time.Now().Unix())

	out := make([]domain.DecryptedMessage, 0, len(envs))
	processed := 0
	for i, env := range envs {
		senderCert, msgType, inner, err := sealed.Decrypt(
			ourPair, trustRoot, now, env.Sealed,
		)
		if err != nil {
			s.log.Warn("unseal failed, envelope stays queued", zap.Error(err))
			return out, fmt.Errorf("unseal envelope: %w", err)
		}
		sender := senderCert.Address()

		plain, distribution, err := s.open(sender, msgType, inner)
		if err != nil {
			return out, fmt.Errorf("decrypt from %q: %w", sender, err)
		}

		if distribution {
			if s.distributions == nil {
				return out, errors.New("no distribution handler attached")
			}
			if err := s.distributions.HandleDistribution(sender, plain); err != nil {
				return out, fmt.Errorf("process distribution from %q: %w", sender, err)
			}
		} else {
			out = append(out, domain.DecryptedMessage{
				From:      sender,
				Plaintext: plain,
				Timestamp: env.Timestamp,
			})
		}
		processed = i + 1
	}

	// Ack only what we processed successfully.
	if processed > 0 {
		if err := s.relay.AckEnvelopes(ctx, cert.Sender, processed); err != nil {
			return out, fmt.Errorf("ack %d envelopes: %w", processed, err)
		}
	}
	s.log.Debug("received envelopes", zap.Int("processed", processed))
	return out, nil
}

// open decrypts the inner message on the sender's session, reporting
// whether the plaintext is a distribution payload.
func (s *Service) open(
	sender domain.ProtocolAddress,
	msgType domain.CiphertextType,
	inner []byte,
) ([]byte, bool, error) {
	cipher := protosession.NewCipher(sender, s.identities, s.sessions, s.preKeys, s.signedPreKeys)

	switch msgType {
	case domain.WhisperType, domain.PreKeyType:
		plain, err := cipher.Decrypt(msgType, inner)
		return plain, false, err
	case domain.SenderKeyDistributionType:
		if len(inner) < 1 {
			return nil, false, fmt.Errorf("%w: empty distribution", domain.ErrInvalidMessage)
		}
		plain, err := cipher.Decrypt(domain.CiphertextType(inner[0]), inner[1:])
		return plain, true, err
	case domain.SenderKeyType:
		return nil, false, fmt.Errorf("%w: sender-key message on 1:1 channel", domain.ErrInvalidMessage)
	default:
		return nil, false, fmt.Errorf("%w: unknown type %d", domain.ErrInvalidMessage, msgType)
	}
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
