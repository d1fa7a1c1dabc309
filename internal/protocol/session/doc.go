// Package session ties the X3DH handshake and the Double Ratchet into
// session records: the Builder establishes new sessions from pre-key
// bundles, and the Cipher encrypts and decrypts messages against a
// record, handling handshake bootstrap, archived states, and identity
// trust.
//
// The engine borrows records from the stores for the duration of one
// operation and persists the updated value only after full success, so
// a failed decrypt never advances any chain.
//
// Concurrency: callers must serialise operations per peer address; two
// interleaved mutations of the same record would silently roll back
// ratchet state.
package session
