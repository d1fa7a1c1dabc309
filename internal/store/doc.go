// Package store provides file-based persistence for the protocol state.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising records as JSON on disk under the configured home directory.
// The local identity key pair is encrypted at rest with a passphrase; all
// other records hold public material or per-conversation secrets that are
// only as sensitive as the directory they live in, and are stored with
// 0600 permissions. All methods are concurrency-safe via internal locking.
//
// The package includes stores for:
//   - Identity key pair and pinned remote identities (FileIdentityStore)
//   - One-time pre-keys (FilePreKeyStore)
//   - Signed pre-keys (FileSignedPreKeyStore)
//   - Session records (FileSessionStore)
//   - Sender-key records for groups (FileSenderKeyStore)
//   - Relay account profiles (FileAccountStore)
//
// Memory* counterparts back the same interfaces with in-process maps for
// the relay server and for tests.
package store
