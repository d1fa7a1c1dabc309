// Package session establishes sessions from fetched pre-key bundles.
//
// It runs the initiator handshake against a peer's bundle and exposes
// session lookups for the message service.
package session
