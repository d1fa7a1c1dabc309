package sealed

import (
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/util/memzero"
	"sealwire/internal/wire"
)

// The CTR counter starts at zero; the cipher key is unique per
// envelope (fresh ephemeral DH), so a fixed IV is sound here.
var zeroIV [16]byte

// Encrypt seals {sender certificate, message type, inner ciphertext}
// to the recipient's identity key under a fresh ephemeral agreement.
func Encrypt(
	cert domain.SenderCertificate,
	recipientIdentity domain.X25519Public,
	msgType domain.CiphertextType,
	inner []byte,
) ([]byte, error) {
	ephPriv, ephPub, err := crypto.GenerateX25519()
	if err != nil {
		return nil, err
	}
	dh, err := crypto.DH(ephPriv, recipientIdentity)
	if err != nil {
		return nil, fmt.Errorf("%w: sealed agreement: %v", domain.ErrInvalidKey, err)
	}
	cipherKey, macKey := crypto.DeriveSealedKeys(dh, recipientIdentity, ephPub)
	defer memzero.Zero(cipherKey[:])
	defer memzero.Zero(macKey[:])

	content := wire.EncodeSealedContent(cert, msgType, inner)
	ciphertext := crypto.EncryptCTR(cipherKey, zeroIV, content)
	memzero.Zero(content)

	msg := domain.UnidentifiedSenderMessage{
		Version:      wire.SealedVersion,
		EphemeralPub: ephPub,
		Ciphertext:   ciphertext,
	}
	unmaced := wire.EncodeUnidentifiedSenderMessage(msg)
	msg.MAC = crypto.TruncatedMAC(macKey[:], wire.SealedMacSize, unmaced)
	return wire.EncodeUnidentifiedSenderMessage(msg), nil
}

// Decrypt opens a sealed envelope with the recipient's identity
// private key, validates the embedded certificate chain against the
// trust root and timestamp, and returns the certificate together with
// the still-encrypted inner message. The sender's address becomes
// visible to the caller only through the validated certificate.
func Decrypt(
	ourIdentity domain.IdentityKeyPair,
	trustRoot domain.Ed25519Public,
	timestamp uint64,
	serialized []byte,
) (domain.SenderCertificate, domain.CiphertextType, []byte, error) {
	msg, err := wire.DecodeUnidentifiedSenderMessage(serialized)
	if err != nil {
		return domain.SenderCertificate{}, 0, nil, err
	}

	dh, err := crypto.DH(ourIdentity.DHPriv, msg.EphemeralPub)
	if err != nil {
		return domain.SenderCertificate{}, 0, nil,
			fmt.Errorf("%w: sealed agreement: %v", domain.ErrInvalidKey, err)
	}
	cipherKey, macKey := crypto.DeriveSealedKeys(dh, ourIdentity.DHPub, msg.EphemeralPub)
	defer memzero.Zero(cipherKey[:])
	defer memzero.Zero(macKey[:])

	want := crypto.TruncatedMAC(macKey[:], wire.SealedMacSize, wire.UnidentifiedMACBytes(serialized))
	if !crypto.ConstantTimeEqual(want, msg.MAC) {
		return domain.SenderCertificate{}, 0, nil,
			fmt.Errorf("%w: sealed envelope", domain.ErrInvalidMac)
	}

	content := crypto.DecryptCTR(cipherKey, zeroIV, msg.Ciphertext)
	cert, msgType, inner, err := wire.DecodeSealedContent(content)
	if err != nil {
		return domain.SenderCertificate{}, 0, nil, err
	}

	if err := ValidateSenderCertificate(cert, trustRoot, timestamp); err != nil {
		return domain.SenderCertificate{}, 0, nil, err
	}
	return cert, msgType, inner, nil
}
