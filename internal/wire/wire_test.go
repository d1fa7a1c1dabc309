package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/wire"
)

func x25519Pair(t *testing.T) (domain.X25519Private, domain.X25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	return priv, pub
}

func ed25519Pair(t *testing.T) (domain.Ed25519Private, domain.Ed25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	return priv, pub
}

func TestSignalMessage_RoundTripAndMAC(t *testing.T) {
	_, ratchetPub := x25519Pair(t)
	_, senderID := x25519Pair(t)
	_, receiverID := x25519Pair(t)
	var macKey [32]byte
	macKey[0] = 0x42

	msg := wire.NewSignalMessage(ratchetPub, 7, 3, []byte("ciphertext"), senderID, receiverID, macKey)

	decoded, err := wire.DecodeSignalMessage(msg.Serialized)
	require.NoError(t, err)
	require.Equal(t, uint8(wire.CurrentVersion), decoded.Version)
	require.Equal(t, ratchetPub, decoded.RatchetPub)
	require.Equal(t, uint32(7), decoded.Counter)
	require.Equal(t, uint32(3), decoded.PreviousCounter)
	require.Equal(t, []byte("ciphertext"), decoded.Ciphertext)

	require.True(t, wire.VerifySignalMAC(decoded, senderID, receiverID, macKey))
	require.False(t, wire.VerifySignalMAC(decoded, receiverID, senderID, macKey))

	tampered := append([]byte(nil), msg.Serialized...)
	tampered[40] ^= 0x01
	decoded, err = wire.DecodeSignalMessage(tampered)
	require.NoError(t, err)
	require.False(t, wire.VerifySignalMAC(decoded, senderID, receiverID, macKey))
}

func TestSignalMessage_Truncated(t *testing.T) {
	_, ratchetPub := x25519Pair(t)
	_, id := x25519Pair(t)
	var macKey [32]byte

	msg := wire.NewSignalMessage(ratchetPub, 0, 0, []byte("x"), id, id, macKey)
	for _, n := range []int{0, 1, 12, 52} {
		_, err := wire.DecodeSignalMessage(msg.Serialized[:n])
		require.ErrorIs(t, err, domain.ErrInvalidMessage, "prefix of %d bytes", n)
	}
}

func TestSignalMessage_BadVersion(t *testing.T) {
	_, ratchetPub := x25519Pair(t)
	_, id := x25519Pair(t)
	var macKey [32]byte

	msg := wire.NewSignalMessage(ratchetPub, 0, 0, []byte("x"), id, id, macKey)
	buf := append([]byte(nil), msg.Serialized...)
	buf[0] = 2<<4 | 2
	_, err := wire.DecodeSignalMessage(buf)
	require.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestPreKeySignalMessage_RoundTrip(t *testing.T) {
	_, ratchetPub := x25519Pair(t)
	_, baseKey := x25519Pair(t)
	_, identityKey := x25519Pair(t)
	var macKey [32]byte
	inner := wire.NewSignalMessage(ratchetPub, 0, 0, []byte("hello"), identityKey, identityKey, macKey)

	preKeyID := uint32(12)
	msg := wire.NewPreKeySignalMessage(0x1234, &preKeyID, 5, baseKey, identityKey, inner)

	decoded, err := wire.DecodePreKeySignalMessage(msg.Serialized)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1234), decoded.RegistrationID)
	require.NotNil(t, decoded.PreKeyID)
	require.Equal(t, uint32(12), *decoded.PreKeyID)
	require.Equal(t, uint32(5), decoded.SignedPreKeyID)
	require.Equal(t, baseKey, decoded.BaseKey)
	require.Equal(t, identityKey, decoded.IdentityKey)
	require.Equal(t, inner.Serialized, decoded.Message.Serialized)
	require.Equal(t, []byte("hello"), decoded.Message.Ciphertext)
}

func TestPreKeySignalMessage_NoOneTimePreKey(t *testing.T) {
	_, ratchetPub := x25519Pair(t)
	_, baseKey := x25519Pair(t)
	_, identityKey := x25519Pair(t)
	var macKey [32]byte
	inner := wire.NewSignalMessage(ratchetPub, 0, 0, []byte("hello"), identityKey, identityKey, macKey)

	msg := wire.NewPreKeySignalMessage(1, nil, 5, baseKey, identityKey, inner)

	decoded, err := wire.DecodePreKeySignalMessage(msg.Serialized)
	require.NoError(t, err)
	require.Nil(t, decoded.PreKeyID)
	require.Equal(t, uint32(5), decoded.SignedPreKeyID)
}

func TestPreKeySignalMessage_BadFlag(t *testing.T) {
	_, ratchetPub := x25519Pair(t)
	_, baseKey := x25519Pair(t)
	_, identityKey := x25519Pair(t)
	var macKey [32]byte
	inner := wire.NewSignalMessage(ratchetPub, 0, 0, []byte("x"), identityKey, identityKey, macKey)

	msg := wire.NewPreKeySignalMessage(1, nil, 5, baseKey, identityKey, inner)
	buf := append([]byte(nil), msg.Serialized...)
	buf[5] = 0x7f
	_, err := wire.DecodePreKeySignalMessage(buf)
	require.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestSenderKeyMessage_RoundTripAndSignature(t *testing.T) {
	sigPriv, sigPub := ed25519Pair(t)

	msg := wire.NewSenderKeyMessage(99, 4, []byte("group ciphertext"), sigPriv)

	decoded, err := wire.DecodeSenderKeyMessage(msg.Serialized)
	require.NoError(t, err)
	require.Equal(t, uint32(99), decoded.KeyID)
	require.Equal(t, uint32(4), decoded.Iteration)
	require.Equal(t, []byte("group ciphertext"), decoded.Ciphertext)
	require.True(t, wire.VerifySenderKeySignature(decoded, sigPub))

	_, otherPub := ed25519Pair(t)
	require.False(t, wire.VerifySenderKeySignature(decoded, otherPub))

	tampered := append([]byte(nil), msg.Serialized...)
	tampered[13] ^= 0x01
	decoded, err = wire.DecodeSenderKeyMessage(tampered)
	require.NoError(t, err)
	require.False(t, wire.VerifySenderKeySignature(decoded, sigPub))
}

func TestSenderKeyMessage_Truncated(t *testing.T) {
	sigPriv, _ := ed25519Pair(t)
	msg := wire.NewSenderKeyMessage(1, 0, []byte("x"), sigPriv)
	_, err := wire.DecodeSenderKeyMessage(msg.Serialized[:8])
	require.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestSenderKeyDistribution_RoundTrip(t *testing.T) {
	_, sigPub := ed25519Pair(t)
	d := domain.SenderKeyDistributionMessage{
		Version:   wire.CurrentVersion,
		KeyID:     0xDEAD,
		Iteration: 17,
		SigPub:    sigPub,
	}
	copy(d.ChainSeed[:], []byte("0123456789abcdef0123456789abcdef"))

	decoded, err := wire.DecodeSenderKeyDistribution(wire.EncodeSenderKeyDistribution(d))
	require.NoError(t, err)
	require.Equal(t, d, decoded)

	_, err = wire.DecodeSenderKeyDistribution(wire.EncodeSenderKeyDistribution(d)[:20])
	require.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestCertificates_RoundTrip(t *testing.T) {
	trustPriv, _ := ed25519Pair(t)
	_, serverPub := ed25519Pair(t)

	server := domain.ServerCertificate{KeyID: 3, Key: serverPub}
	server.Signature = crypto.SignEd25519(trustPriv, wire.ServerCertificateSignedBytes(server))

	decodedServer, err := wire.DecodeServerCertificate(wire.EncodeServerCertificate(server))
	require.NoError(t, err)
	require.Equal(t, server, decodedServer)

	_, senderID := x25519Pair(t)
	sender := domain.SenderCertificate{
		Sender:     "alice",
		DeviceID:   2,
		Identity:   senderID,
		Expiration: 1_700_000_000_000,
		Signer:     server,
	}
	sender.Signature = crypto.SignEd25519(trustPriv, wire.SenderCertificateSignedBytes(sender))

	decodedSender, err := wire.DecodeSenderCertificate(wire.EncodeSenderCertificate(sender))
	require.NoError(t, err)
	require.Equal(t, sender, decodedSender)
	require.Equal(t, domain.NewAddress("alice", 2), decodedSender.Address())
}

func TestUnidentifiedSenderMessage_RoundTrip(t *testing.T) {
	_, ephPub := x25519Pair(t)
	m := domain.UnidentifiedSenderMessage{
		Version:      wire.SealedVersion,
		EphemeralPub: ephPub,
		Ciphertext:   []byte("sealed bytes"),
		MAC:          []byte("0123456789"),
	}

	decoded, err := wire.DecodeUnidentifiedSenderMessage(wire.EncodeUnidentifiedSenderMessage(m))
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

func TestUnidentifiedSenderMessage_Errors(t *testing.T) {
	_, err := wire.DecodeUnidentifiedSenderMessage(make([]byte, 10))
	require.ErrorIs(t, err, domain.ErrInvalidMessage)

	buf := make([]byte, 1+32+wire.SealedMacSize)
	buf[0] = 9 << 4
	_, err = wire.DecodeUnidentifiedSenderMessage(buf)
	require.ErrorIs(t, err, domain.ErrInvalidMessage)
}

func TestSealedContent_RoundTrip(t *testing.T) {
	trustPriv, _ := ed25519Pair(t)
	_, serverPub := ed25519Pair(t)
	server := domain.ServerCertificate{KeyID: 1, Key: serverPub}
	server.Signature = crypto.SignEd25519(trustPriv, wire.ServerCertificateSignedBytes(server))

	_, senderID := x25519Pair(t)
	cert := domain.SenderCertificate{
		Sender:   "bob",
		DeviceID: 1,
		Identity: senderID,
		Signer:   server,
	}
	cert.Signature = crypto.SignEd25519(trustPriv, wire.SenderCertificateSignedBytes(cert))

	content := wire.EncodeSealedContent(cert, domain.PreKeyType, []byte("inner"))
	decodedCert, msgType, inner, err := wire.DecodeSealedContent(content)
	require.NoError(t, err)
	require.Equal(t, cert, decodedCert)
	require.Equal(t, domain.PreKeyType, msgType)
	require.Equal(t, []byte("inner"), inner)
}

func TestSealedContent_UnknownMessageType(t *testing.T) {
	trustPriv, _ := ed25519Pair(t)
	_, serverPub := ed25519Pair(t)
	server := domain.ServerCertificate{KeyID: 1, Key: serverPub}
	server.Signature = crypto.SignEd25519(trustPriv, wire.ServerCertificateSignedBytes(server))

	_, senderID := x25519Pair(t)
	cert := domain.SenderCertificate{Sender: "bob", DeviceID: 1, Identity: senderID, Signer: server}
	cert.Signature = crypto.SignEd25519(trustPriv, wire.SenderCertificateSignedBytes(cert))

	content := wire.EncodeSealedContent(cert, domain.CiphertextType(42), []byte("inner"))
	_, _, _, err := wire.DecodeSealedContent(content)
	require.ErrorIs(t, err, domain.ErrInvalidMessage)
}
