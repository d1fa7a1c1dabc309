// Package message sends and receives sealed 1:1 messages.
//
// Outbound plaintext is encrypted on the peer's session, wrapped in a
// sealed-sender envelope, and posted to the relay. Inbound envelopes
// are unsealed, the embedded certificate names the sender, and the
// inner message is decrypted on that sender's session.
package message
