// Package sealed implements the sealed-sender envelope: a ratchet
// ciphertext and the sender's certificate, encrypted together under an
// ephemeral-static agreement with the recipient's identity key. The
// delivery service sees only the recipient; the sender's address is
// disclosed to the recipient alone, and only after the certificate
// chain has been validated.
//
// Certificate validity is a pure function of (certificate, trust root,
// caller-supplied timestamp); nothing is cached as "already trusted"
// across calls.
package sealed
