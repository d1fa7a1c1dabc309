// Package main runs the in-memory HTTP relay used during development
// and tests. It issues sender certificates, stores published
// registration bundles, and queues sealed envelopes and group
// envelopes for recipients until they fetch them.
//
// HTTP API
//
//	GET  /v1/trustroot
//	    Return the relay's certificate trust root public key.
//
//	POST /v1/accounts/{name}
//	    Store a device's RegistrationBundle and return a signed
//	    SenderCertificate for it.
//
//	GET  /v1/bundles/{name}/{device}
//	    Return a PreKeyBundle for {name}, consuming one one-time
//	    pre-key. When the batch is exhausted the bundle carries none.
//
//	POST /v1/envelopes
//	    Enqueue a sealed Envelope for its recipient. If Timestamp is
//	    zero, the server fills it with the current Unix time.
//
//	GET  /v1/envelopes/{name}?limit=N
//	    Return up to N queued envelopes for {name}.
//
//	POST /v1/envelopes/{name}/ack { "count": N }
//	    Drop the first N queued envelopes for {name}.
//
//	POST /v1/groups/{group}/envelopes
//	GET  /v1/groups/{group}/envelopes/{name}?limit=N
//	POST /v1/groups/{group}/envelopes/{name}/ack { "count": N }
//	    Same queue operations on a per-group feed with per-reader
//	    positions.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit, including
//     the trust root. Re-register after a restart.
//   - Responses are JSON. Non-2xx statuses carry a short error message.
//   - The default listen address is :8080.
//
// The relay is an untrusted middleman. It never sees plaintext or
// private keys, and 1:1 envelopes never name their sender.
package main
