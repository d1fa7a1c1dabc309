// Package x3dh implements the X3DH key agreement used to bootstrap a
// Double Ratchet session between two parties.
//
// # Overview
//
// X3DH lets an initiator derive a shared secret with a responder who
// has published a pre-key bundle. The bundle contains:
//   - Identity key (X25519 half, plus an Ed25519 signing half)
//   - Signed pre-key (X25519) and its Ed25519 signature
//   - Optional one-time pre-key (X25519)
//
// # Flows
//
// Initiator:
//  1. Verify the signed pre-key signature.
//  2. Generate an ephemeral "base" X25519 key pair.
//  3. Compute DH values (IKa·SPKb, EKa·IKb, EKa·SPKb[, EKa·OPKb]), in
//     that fixed order.
//  4. Concatenate a 32-byte 0xFF discontinuity prefix and the DH
//     outputs; this is the master secret for the initial root KDF.
//
// Responder:
//  1. Receive the PreKeySignalMessage (initiator IK, base key,
//     SPK id[, OPK id]).
//  2. Look up the SPK private and optionally consume the OPK private.
//  3. Compute the symmetric DH set (SPKb·IKa, IKb·EKa, SPKb·EKa
//     [, OPKb·EKa]) to the identical master secret.
//
// Omitting the one-time pre-key term changes the derived secret, so
// its absence is a distinct, still-valid handshake.
//
// # Security notes
//
// Only public material crosses the wire. One-time pre-keys, when
// present, improve forward secrecy by mixing in a value deleted after
// first use.
package x3dh
