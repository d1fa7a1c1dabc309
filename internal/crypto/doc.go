// Package crypto exposes the primitives the protocol engine is built on.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - The HKDF and HMAC chain derivations shared by the Double Ratchet,
//     the sender-key ratchet and the sealed-sender envelope (kdf.go)
//   - AES-256-CTR framing encryption and truncated HMAC-SHA256
//     authentication (cipher.go)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// All functions return fixed-size array types defined in internal/domain
// to avoid accidental reallocations. Callers should treat returned
// secrets as sensitive and rely on memzero when practical to reduce
// lifetime in memory.
package crypto
