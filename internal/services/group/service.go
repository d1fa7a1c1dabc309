package group

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sealwire/internal/domain"
	protogroup "sealwire/internal/protocol/group"
	"sealwire/internal/wire"
)

// DistributionSender delivers a distribution payload to one member
// over the 1:1 channel. Implemented by the message service.
type DistributionSender interface {
	SendDistribution(ctx context.Context, to domain.ProtocolAddress, payload []byte) error
}

// distributionPayload is the plaintext carried inside a 1:1 message
// when a sender key is distributed.
type distributionPayload struct {
	GroupID      string `json:"group_id"`
	Distribution []byte `json:"distribution"`
}

// Service manages sender-key state and group traffic for one device.
type Service struct {
	self   domain.ProtocolAddress
	cipher *protogroup.Cipher
	relay  domain.RelayClient
	sender DistributionSender
	log    *zap.Logger
}

// New constructs a group service for the local address.
func New(
	self domain.ProtocolAddress,
	cipher *protogroup.Cipher,
	relay domain.RelayClient,
	sender DistributionSender,
	log *zap.Logger,
) *Service {
	return &Service{self: self, cipher: cipher, relay: relay, sender: sender, log: log}
}

// CreateGroup mints a group id and hands our sender key to every
// member. Members need an established session first.
func (s *Service) CreateGroup(ctx context.Context, members []domain.ProtocolAddress) (domain.GroupID, error) {
	gid := domain.GroupID(uuid.NewString())

	if err := s.distribute(ctx, gid, members); err != nil {
		return "", err
	}
	s.log.Info("created group",
		zap.String("group", gid.String()),
		zap.Int("members", len(members)),
	)
	return gid, nil
}

// Invite hands our sender key for an existing group to additional
// members. They can read traffic sent from this chain position on.
func (s *Service) Invite(ctx context.Context, group domain.GroupID, members []domain.ProtocolAddress) error {
	return s.distribute(ctx, group, members)
}

func (s *Service) distribute(ctx context.Context, gid domain.GroupID, members []domain.ProtocolAddress) error {
	own := domain.SenderKeyName{GroupID: gid, Sender: s.self}
	dist, err := s.cipher.CreateDistribution(own)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(distributionPayload{
		GroupID:      gid.String(),
		Distribution: wire.EncodeSenderKeyDistribution(dist),
	})
	if err != nil {
		return err
	}

	for _, member := range members {
		if member == s.self {
			continue
		}
		if err := s.sender.SendDistribution(ctx, member, payload); err != nil {
			return fmt.Errorf("distribute to %q: %w", member, err)
		}
	}
	return nil
}

// HandleDistribution seeds a receiving sender-key state from a payload
// that arrived over the 1:1 channel.
func (s *Service) HandleDistribution(sender domain.ProtocolAddress, payload []byte) error {
	var p distributionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("%w: distribution payload: %v", domain.ErrInvalidMessage, err)
	}
	dist, err := wire.DecodeSenderKeyDistribution(p.Distribution)
	if err != nil {
		return err
	}
	name := domain.SenderKeyName{GroupID: domain.GroupID(p.GroupID), Sender: sender}
	if err := s.cipher.ProcessDistribution(name, dist); err != nil {
		return err
	}
	s.log.Debug("processed sender key distribution",
		zap.String("group", p.GroupID),
		zap.String("sender", sender.String()),
	)
	return nil
}

// Send encrypts plaintext on our group chain and posts it to the
// group feed.
func (s *Service) Send(ctx context.Context, group domain.GroupID, plaintext []byte) error {
	own := domain.SenderKeyName{GroupID: group, Sender: s.self}
	ct, err := s.cipher.Encrypt(own, plaintext)
	if err != nil {
		return err
	}
	env := domain.GroupEnvelope{
		GroupID:   group,
		From:      s.self,
		Type:      domain.SenderKeyType,
		Body:      ct,
		Timestamp: time.Now().Unix(),
	}
	return s.relay.SendGroupEnvelope(ctx, env)
}

// Receive fetches queued group envelopes, decrypts them on the
// respective sender chains, and acks what was processed. Our own
// echoes and envelopes we cannot read are skipped.
func (s *Service) Receive(ctx context.Context, group domain.GroupID, limit int) ([]domain.DecryptedMessage, error) {
	envs, err := s.relay.FetchGroupEnvelopes(ctx, group, s.self.Name, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DecryptedMessage, 0, len(envs))
	processed := 0
	for i, env := range envs {
		if env.From == s.self {
			processed = i + 1
			continue
		}
		if env.Type != domain.SenderKeyType {
			return out, fmt.Errorf("%w: group envelope type %d", domain.ErrInvalidMessage, env.Type)
		}

		name := domain.SenderKeyName{GroupID: group, Sender: env.From}
		plain, err := s.cipher.Decrypt(name, env.Body)
		if err != nil {
			// Sent before we joined, already seen, or damaged. Either
			// way it is unreadable; drop it so the feed keeps moving.
			s.log.Warn("dropping group envelope",
				zap.String("group", group.String()),
				zap.String("from", env.From.String()),
				zap.Error(err),
			)
			processed = i + 1
			continue
		}
		out = append(out, domain.DecryptedMessage{
			From:      env.From,
			Plaintext: plain,
			Timestamp: env.Timestamp,
		})
		processed = i + 1
	}

	if processed > 0 {
		if err := s.relay.AckGroupEnvelopes(ctx, group, s.self.Name, processed); err != nil {
			return out, fmt.Errorf("ack %d group envelopes: %w", processed, err)
		}
	}
	return out, nil
}

// Compile-time assertion that Service implements domain.GroupService.
var _ domain.GroupService = (*Service)(nil)
