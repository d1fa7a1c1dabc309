// Package commands defines the sealwire CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init           Create the local identity
//   - fingerprint    Print the identity fingerprint
//   - register       Publish pre-keys to a relay and obtain a sender certificate
//   - start-session  Establish a session with a peer
//   - send           Encrypt and send a sealed message
//   - recv           Fetch and decrypt queued messages
//   - group create   Create a group and distribute the sender key
//   - group invite   Hand the sender key to more members
//   - group send     Encrypt and post a group message
//   - group recv     Fetch and decrypt queued group messages
//
// # Implementation
//
// The root command builds a dependency graph (stores, services, relay
// client) before any subcommand runs, so handlers can use a shared app
// context.
package commands
