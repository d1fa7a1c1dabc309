package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/protocol/sealed"
	"sealwire/internal/services/message"
	"sealwire/internal/store"
	"sealwire/internal/wire"
)

// fakeRelay serves a fixed envelope queue; the embedded interface
// panics on anything Receive should not touch.
type fakeRelay struct {
	domain.RelayClient
	envs  []domain.Envelope
	acked int
}

func (f *fakeRelay) FetchEnvelopes(_ context.Context, _ string, _ int) ([]domain.Envelope, error) {
	return f.envs, nil
}

func (f *fakeRelay) AckEnvelopes(_ context.Context, _ string, count int) error {
	f.acked += count
	return nil
}

func makeIdentity(t *testing.T) domain.IdentityKeyPair {
	t.Helper()
	dhPriv, dhPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	sigPriv, sigPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	return domain.IdentityKeyPair{DHPub: dhPub, DHPriv: dhPriv, SigPub: sigPub, SigPriv: sigPriv}
}

// receiveFixture wires a message service for "bob" against a relay
// holding one envelope sealed by "alice" under the given certificate
// expiration. The envelope timestamp is back-dated far before the
// expiration.
func receiveFixture(t *testing.T, aliceExpiration uint64) (*message.Service, *fakeRelay) {
	t.Helper()

	trustPriv, trustPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	serverPriv, serverPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	serverCert := sealed.SignServerCertificate(1, serverPub, trustPriv)

	bob := makeIdentity(t)
	bobCert := sealed.SignSenderCertificate(
		domain.NewAddress("bob", 1), bob.DHPub,
		uint64(time.Now().Add(time.Hour).Unix()), serverCert, serverPriv,
	)

	alice := makeIdentity(t)
	aliceCert := sealed.SignSenderCertificate(
		domain.NewAddress("alice", 1), alice.DHPub,
		aliceExpiration, serverCert, serverPriv,
	)

	var macKey [32]byte
	inner := wire.NewSignalMessage(alice.DHPub, 0, 0, []byte("x"), alice.DHPub, bob.DHPub, macKey)
	sealedBytes, err := sealed.Encrypt(aliceCert, bob.DHPub, domain.WhisperType, inner.Serialized)
	require.NoError(t, err)

	relay := &fakeRelay{envs: []domain.Envelope{{To: "bob", Sealed: sealedBytes, Timestamp: 500}}}
	creds := func() (domain.SenderCertificate, domain.Ed25519Public, error) {
		return bobCert, trustPub, nil
	}
	svc := message.New(
		store.NewMemoryIdentityStore(bob, 1),
		store.NewMemorySessionStore(),
		store.NewMemoryPreKeyStore(),
		store.NewMemorySignedPreKeyStore(),
		relay, creds, zap.NewNop(),
	)
	return svc, relay
}

func TestReceive_ExpiredCertificateRejected(t *testing.T) {
	// Certificate expired decades ago; the envelope timestamp claims to
	// predate the expiration. Validation runs on our clock, so the
	// back-dating must not help.
	svc, relay := receiveFixture(t, 1000)

	got, err := svc.Receive(context.Background(), 10)
	require.ErrorIs(t, err, domain.ErrInvalidCertificate)
	require.Empty(t, got)
	require.Zero(t, relay.acked)
}

func TestReceive_ValidCertificatePassesExpiryCheck(t *testing.T) {
	// Same back-dated envelope under a live certificate: the failure
	// moves past certificate validation to the missing session.
	svc, _ := receiveFixture(t, uint64(time.Now().Add(time.Hour).Unix()))

	_, err := svc.Receive(context.Background(), 10)
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrInvalidCertificate)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}
