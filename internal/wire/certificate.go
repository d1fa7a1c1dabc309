package wire

import (
	"crypto/ed25519"
	"fmt"

	"sealwire/internal/domain"
)

// ServerCertificateSignedBytes is the portion of a server certificate
// covered by the trust root's signature.
func ServerCertificateSignedBytes(c domain.ServerCertificate) []byte {
	var w writer
	w.uint32(c.KeyID)
	w.raw(c.Key[:])
	return w.buf
}

// EncodeServerCertificate serializes a server certificate.
func EncodeServerCertificate(c domain.ServerCertificate) []byte {
	var w writer
	w.uint32(c.KeyID)
	w.raw(c.Key[:])
	w.framed(c.Signature)
	return w.buf
}

// DecodeServerCertificate parses a serialized server certificate.
func DecodeServerCertificate(buf []byte) (domain.ServerCertificate, error) {
	var c domain.ServerCertificate
	r := newReader(buf)
	c.KeyID = r.uint32("key id")
	r.fixed(c.Key[:], "key")
	c.Signature = r.framed("signature")
	if err := r.done(); err != nil {
		return c, err
	}
	if len(c.Signature) != ed25519.SignatureSize {
		return c, fmt.Errorf("%w: bad server certificate signature length", domain.ErrInvalidMessage)
	}
	return c, nil
}

// SenderCertificateSignedBytes is the portion of a sender certificate
// covered by the server certificate key's signature.
func SenderCertificateSignedBytes(c domain.SenderCertificate) []byte {
	var w writer
	w.framed([]byte(c.Sender))
	w.uint32(c.DeviceID)
	w.raw(c.Identity[:])
	w.uint64(c.Expiration)
	w.framed(EncodeServerCertificate(c.Signer))
	return w.buf
}

// EncodeSenderCertificate serializes a sender certificate.
func EncodeSenderCertificate(c domain.SenderCertificate) []byte {
	var w writer
	w.raw(SenderCertificateSignedBytes(c))
	w.framed(c.Signature)
	return w.buf
}

// DecodeSenderCertificate parses a serialized sender certificate.
func DecodeSenderCertificate(buf []byte) (domain.SenderCertificate, error) {
	var c domain.SenderCertificate
	r := newReader(buf)
	c.Sender = string(r.framed("sender"))
	c.DeviceID = r.uint32("device id")
	r.fixed(c.Identity[:], "identity key")
	c.Expiration = r.uint64("expiration")
	signer := r.framed("server certificate")
	c.Signature = r.framed("signature")
	if err := r.done(); err != nil {
		return c, err
	}
	var err error
	c.Signer, err = DecodeServerCertificate(signer)
	if err != nil {
		return c, err
	}
	if len(c.Signature) != ed25519.SignatureSize {
		return c, fmt.Errorf("%w: bad sender certificate signature length", domain.ErrInvalidMessage)
	}
	return c, nil
}
