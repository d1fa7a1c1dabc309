package sealed

import (
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/wire"
)

// SignServerCertificate issues a server certificate under the trust
// root's signing key.
func SignServerCertificate(
	keyID uint32,
	key domain.Ed25519Public,
	trustRootPriv domain.Ed25519Private,
) domain.ServerCertificate {
	cert := domain.ServerCertificate{KeyID: keyID, Key: key}
	cert.Signature = crypto.SignEd25519(trustRootPriv, wire.ServerCertificateSignedBytes(cert))
	return cert
}

// SignSenderCertificate issues a sender certificate under a server
// certificate's signing key.
func SignSenderCertificate(
	sender domain.ProtocolAddress,
	identity domain.X25519Public,
	expiration uint64,
	signer domain.ServerCertificate,
	serverPriv domain.Ed25519Private,
) domain.SenderCertificate {
	cert := domain.SenderCertificate{
		Sender:     sender.Name,
		DeviceID:   sender.DeviceID,
		Identity:   identity,
		Expiration: expiration,
		Signer:     signer,
	}
	cert.Signature = crypto.SignEd25519(serverPriv, wire.SenderCertificateSignedBytes(cert))
	return cert
}

// ValidateSenderCertificate checks the full chain: trust root over the
// server certificate, server key over the sender certificate, and the
// expiration against the caller's timestamp. Any failure is
// ErrInvalidCertificate; validity is never cached.
func ValidateSenderCertificate(
	cert domain.SenderCertificate,
	trustRoot domain.Ed25519Public,
	timestamp uint64,
) error {
	if !crypto.VerifyEd25519(trustRoot, wire.ServerCertificateSignedBytes(cert.Signer), cert.Signer.Signature) {
		return fmt.Errorf("%w: server certificate signature", domain.ErrInvalidCertificate)
	}
	if !crypto.VerifyEd25519(cert.Signer.Key, wire.SenderCertificateSignedBytes(cert), cert.Signature) {
		return fmt.Errorf("%w: sender certificate signature", domain.ErrInvalidCertificate)
	}
	if cert.Expiration < timestamp {
		return fmt.Errorf(
			"%w: expired at %d, validated at %d",
			domain.ErrInvalidCertificate, cert.Expiration, timestamp,
		)
	}
	return nil
}
