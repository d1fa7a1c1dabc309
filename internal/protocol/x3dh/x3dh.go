package x3dh

import (
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
)

// discontinuity is the fixed prefix of every master secret. It keeps
// the KDF input domain-separated from raw DH outputs.
var discontinuity = [32]byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

// VerifySignedPreKey checks the bundle's signed pre-key signature
// against the bundle's Ed25519 identity half.
func VerifySignedPreKey(identitySig domain.Ed25519Public, spk domain.X25519Public, sig []byte) bool {
	return crypto.VerifyEd25519(identitySig, spk.Slice(), sig)
}

// InitiatorSecrets computes the X3DH master secret on the initiator
// side: DH(IKa, SPKb) ∥ DH(EKa, IKb) ∥ DH(EKa, SPKb) and, when the
// bundle carried a one-time pre-key, DH(EKa, OPKb).
func InitiatorSecrets(
	ourIdentityPriv domain.X25519Private,
	ourBasePriv domain.X25519Private,
	theirIdentity domain.X25519Public,
	theirSignedPreKey domain.X25519Public,
	theirOneTimePreKey *domain.X25519Public,
) ([]byte, error) {
	dh1, err := dh(ourIdentityPriv, theirSignedPreKey)
	if err != nil {
		return nil, err
	}
	dh2, err := dh(ourBasePriv, theirIdentity)
	if err != nil {
		return nil, err
	}
	dh3, err := dh(ourBasePriv, theirSignedPreKey)
	if err != nil {
		return nil, err
	}

	secrets := make([]byte, 0, 32*5)
	secrets = append(secrets, discontinuity[:]...)
	secrets = append(secrets, dh1[:]...)
	secrets = append(secrets, dh2[:]...)
	secrets = append(secrets, dh3[:]...)

	if theirOneTimePreKey != nil {
		dh4, err := dh(ourBasePriv, *theirOneTimePreKey)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, dh4[:]...)
	}
	return secrets, nil
}

// ResponderSecrets computes the same master secret on the responder
// side from the private halves of the targeted pre-keys and the
// initiator's published keys.
func ResponderSecrets(
	ourIdentityPriv domain.X25519Private,
	ourSignedPreKeyPriv domain.X25519Private,
	ourOneTimePreKeyPriv *domain.X25519Private,
	theirIdentity domain.X25519Public,
	theirBaseKey domain.X25519Public,
) ([]byte, error) {
	dh1, err := dh(ourSignedPreKeyPriv, theirIdentity)
	if err != nil {
		return nil, err
	}
	dh2, err := dh(ourIdentityPriv, theirBaseKey)
	if err != nil {
		return nil, err
	}
	dh3, err := dh(ourSignedPreKeyPriv, theirBaseKey)
	if err != nil {
		return nil, err
	}

	secrets := make([]byte, 0, 32*5)
	secrets = append(secrets, discontinuity[:]...)
	secrets = append(secrets, dh1[:]...)
	secrets = append(secrets, dh2[:]...)
	secrets = append(secrets, dh3[:]...)

	if ourOneTimePreKeyPriv != nil {
		dh4, err := dh(*ourOneTimePreKeyPriv, theirBaseKey)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, dh4[:]...)
	}
	return secrets, nil
}

func dh(priv domain.X25519Private, pub domain.X25519Public) ([32]byte, error) {
	out, err := crypto.DH(priv, pub)
	if err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrInvalidKey, err)
	}
	return out, nil
}
