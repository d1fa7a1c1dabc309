// Package group implements the sender-key ratchet for group messaging:
// a one-directional symmetric chain per (group, sender device),
// distributed out of band, with per-message Ed25519 signatures in
// place of the Double Ratchet's pairwise MAC.
//
// There is no DH step and no root renegotiation here; recovering from
// a compromised chain requires distributing a fresh sender key, not a
// ratchet-triggered healing.
//
// Concurrency: callers must serialise operations per SenderKeyName.
package group
