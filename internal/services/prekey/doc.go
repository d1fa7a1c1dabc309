// Package prekey manages signed pre-keys and one-time pre-keys.
//
// It rotates the current signed pre-key, allocates numeric ids, and
// assembles the registration bundle published to the relay.
package prekey
