package domain

import "errors"

// Protocol error kinds. Every cryptographic verification failure is
// terminal for that message: it is never retried here and plaintext is
// never returned alongside one of these.
var (
	// ErrInvalidKey marks malformed key material.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidKeyID marks a reference to a key id that is unknown
	// or already consumed.
	ErrInvalidKeyID = errors.New("invalid key identifier")

	// ErrInvalidSignature marks a failed X3DH or sender-key signature
	// check.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidMessage marks unparseable framing or an index outside
	// the allowed skip window.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidMac marks an authentication failure on an otherwise
	// well-formed message.
	ErrInvalidMac = errors.New("invalid mac")

	// ErrDuplicateMessage marks a message whose key was already
	// consumed or fell out of the retained skip window.
	ErrDuplicateMessage = errors.New("duplicate or replayed message")

	// ErrInvalidState marks an operation attempted with no usable
	// session or chain.
	ErrInvalidState = errors.New("invalid session state")

	// ErrInvalidCertificate marks a failed certificate chain or
	// expiration check.
	ErrInvalidCertificate = errors.New("invalid certificate")

	// ErrUntrustedIdentity marks an identity key that conflicts with
	// the one pinned for the address.
	ErrUntrustedIdentity = errors.New("untrusted identity")
)
