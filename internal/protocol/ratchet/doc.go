// Package ratchet implements the Double Ratchet state machine following
// Signal's design.
//
// Two ratchets run side by side. The symmetric-key ratchet steps a
// chain key through a one-way KDF for every message; the DH ratchet
// replaces chains entirely whenever the peer presents a new ratchet
// key, folding a fresh Diffie–Hellman output into the root key. Retired
// receiving chains and skipped message keys are kept, bounded with
// oldest-first eviction, so out-of-order messages stay decryptable.
//
// The package mutates only the SessionState value it is handed;
// persistence and record-level concerns (archival, promotion) belong to
// the session package.
//
// Concurrency: SessionState is NOT safe for concurrent use. Callers
// must serialise access per peer address.
package ratchet
