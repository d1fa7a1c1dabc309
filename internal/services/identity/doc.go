// Package identity manages creation and loading of the local identity.
//
// It enforces passphrase policy, generates the X25519 and Ed25519 key
// pairs plus the registration id, and persists them encrypted via the
// identity store.
package identity
