package sealed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/protocol/sealed"
)

type fixture struct {
	trustRoot  domain.Ed25519Public
	senderCert domain.SenderCertificate
	recipient  domain.IdentityKeyPair
}

// newFixture builds a full certificate chain and a recipient identity.
// The sender certificate expires at the given instant.
func newFixture(t *testing.T, expiration uint64) fixture {
	t.Helper()

	trustPriv, trustPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	serverPriv, serverPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	serverCert := sealed.SignServerCertificate(1, serverPub, trustPriv)

	_, senderDHPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	senderCert := sealed.SignSenderCertificate(
		domain.NewAddress("alice", 1), senderDHPub, expiration, serverCert, serverPriv,
	)

	recDHPriv, recDHPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	recSigPriv, recSigPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)

	return fixture{
		trustRoot:  trustPub,
		senderCert: senderCert,
		recipient: domain.IdentityKeyPair{
			DHPub:   recDHPub,
			DHPriv:  recDHPriv,
			SigPub:  recSigPub,
			SigPriv: recSigPriv,
		},
	}
}

func TestSealed_RoundTrip(t *testing.T) {
	f := newFixture(t, 2000)

	env, err := sealed.Encrypt(f.senderCert, f.recipient.DHPub, domain.WhisperType, []byte("inner bytes"))
	require.NoError(t, err)

	cert, msgType, inner, err := sealed.Decrypt(f.recipient, f.trustRoot, 1500, env)
	require.NoError(t, err)
	require.Equal(t, domain.WhisperType, msgType)
	require.Equal(t, []byte("inner bytes"), inner)
	require.Equal(t, domain.NewAddress("alice", 1), cert.Address())
}

func TestSealed_CertificateExpiry(t *testing.T) {
	f := newFixture(t, 1000)

	env, err := sealed.Encrypt(f.senderCert, f.recipient.DHPub, domain.WhisperType, []byte("x"))
	require.NoError(t, err)

	// Strictly after expiration fails; at and before it succeeds.
	_, _, _, err = sealed.Decrypt(f.recipient, f.trustRoot, 1001, env)
	require.ErrorIs(t, err, domain.ErrInvalidCertificate)

	_, _, _, err = sealed.Decrypt(f.recipient, f.trustRoot, 1000, env)
	require.NoError(t, err)
	_, _, _, err = sealed.Decrypt(f.recipient, f.trustRoot, 999, env)
	require.NoError(t, err)
}

func TestSealed_TamperedEnvelope(t *testing.T) {
	f := newFixture(t, 2000)

	env, err := sealed.Encrypt(f.senderCert, f.recipient.DHPub, domain.WhisperType, []byte("x"))
	require.NoError(t, err)

	tampered := append([]byte(nil), env...)
	tampered[40] ^= 0x01
	_, _, _, err = sealed.Decrypt(f.recipient, f.trustRoot, 1500, tampered)
	require.ErrorIs(t, err, domain.ErrInvalidMac)
}

func TestSealed_WrongTrustRoot(t *testing.T) {
	f := newFixture(t, 2000)
	_, otherRoot, err := crypto.GenerateEd25519()
	require.NoError(t, err)

	env, err := sealed.Encrypt(f.senderCert, f.recipient.DHPub, domain.WhisperType, []byte("x"))
	require.NoError(t, err)

	_, _, _, err = sealed.Decrypt(f.recipient, otherRoot, 1500, env)
	require.ErrorIs(t, err, domain.ErrInvalidCertificate)
}

func TestSealed_WrongRecipientCannotOpen(t *testing.T) {
	f := newFixture(t, 2000)
	other := newFixture(t, 2000)

	env, err := sealed.Encrypt(f.senderCert, f.recipient.DHPub, domain.WhisperType, []byte("x"))
	require.NoError(t, err)

	_, _, _, err = sealed.Decrypt(other.recipient, f.trustRoot, 1500, env)
	require.ErrorIs(t, err, domain.ErrInvalidMac)
}

func TestValidateSenderCertificate_BadServerSignature(t *testing.T) {
	f := newFixture(t, 2000)

	cert := f.senderCert
	cert.Signer.Signature = append([]byte(nil), cert.Signer.Signature...)
	cert.Signer.Signature[0] ^= 0x01

	err := sealed.ValidateSenderCertificate(cert, f.trustRoot, 1500)
	require.ErrorIs(t, err, domain.ErrInvalidCertificate)
}

func TestValidateSenderCertificate_BadSenderSignature(t *testing.T) {
	f := newFixture(t, 2000)

	cert := f.senderCert
	cert.DeviceID = 9 // claim a different device than certified

	err := sealed.ValidateSenderCertificate(cert, f.trustRoot, 1500)
	require.ErrorIs(t, err, domain.ErrInvalidCertificate)
}
