package wire

import (
	"fmt"

	"sealwire/internal/domain"
)

// EncodeUnidentifiedSenderMessage serializes a sealed-sender envelope:
// version byte, ephemeral key, ciphertext, MAC.
func EncodeUnidentifiedSenderMessage(m domain.UnidentifiedSenderMessage) []byte {
	var w writer
	w.byte(m.Version<<4 | SealedVersion)
	w.raw(m.EphemeralPub[:])
	w.raw(m.Ciphertext)
	w.raw(m.MAC)
	return w.buf
}

// UnidentifiedMACBytes returns the prefix of a serialized envelope the
// MAC is computed over (everything before the MAC itself).
func UnidentifiedMACBytes(serialized []byte) []byte {
	return serialized[:len(serialized)-SealedMacSize]
}

// DecodeUnidentifiedSenderMessage parses a sealed-sender envelope.
func DecodeUnidentifiedSenderMessage(buf []byte) (domain.UnidentifiedSenderMessage, error) {
	var m domain.UnidentifiedSenderMessage
	if len(buf) < 1+32+SealedMacSize {
		return m, fmt.Errorf("%w: short sealed message", domain.ErrInvalidMessage)
	}
	if v := buf[0] >> 4; v != SealedVersion {
		return m, fmt.Errorf("%w: unsupported sealed version %d", domain.ErrInvalidMessage, v)
	}
	m.Version = buf[0] >> 4
	r := newReader(buf[1:])
	r.fixed(m.EphemeralPub[:], "ephemeral key")
	m.Ciphertext = r.rest(SealedMacSize, "ciphertext")
	m.MAC = r.rest(0, "mac")
	if err := r.done(); err != nil {
		return m, err
	}
	return m, nil
}

// EncodeSealedContent serializes the plaintext structure inside the
// sealed envelope: {sender certificate, message type, inner message}.
func EncodeSealedContent(
	cert domain.SenderCertificate,
	msgType domain.CiphertextType,
	inner []byte,
) []byte {
	var w writer
	w.framed(EncodeSenderCertificate(cert))
	w.byte(byte(msgType))
	w.framed(inner)
	return w.buf
}

// DecodeSealedContent parses the decrypted sealed payload.
func DecodeSealedContent(buf []byte) (domain.SenderCertificate, domain.CiphertextType, []byte, error) {
	r := newReader(buf)
	certBytes := r.framed("certificate")
	t := domain.CiphertextType(r.byte("message type"))
	inner := r.framed("inner message")
	if err := r.done(); err != nil {
		return domain.SenderCertificate{}, 0, nil, err
	}
	switch t {
	case domain.WhisperType, domain.PreKeyType, domain.SenderKeyType, domain.SenderKeyDistributionType:
	default:
		return domain.SenderCertificate{}, 0, nil,
			fmt.Errorf("%w: unknown message type %d", domain.ErrInvalidMessage, t)
	}
	cert, err := DecodeSenderCertificate(certBytes)
	if err != nil {
		return domain.SenderCertificate{}, 0, nil, err
	}
	return cert, t, inner, nil
}
