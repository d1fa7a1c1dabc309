// Package relay implements the delivery-service boundary.
//
// The relay is a store-and-forward service: it holds registration
// bundles, issues sender certificates, and queues sealed envelopes and
// group envelopes until recipients fetch them. It never sees plaintext,
// private keys, or (for 1:1 traffic) the sender's name.
//
// HTTPClient is the domain.RelayClient implementation used by the CLI;
// Server is the matching in-memory relay served over gorilla/mux.
// All requests are JSON over HTTP and accept a context for cancellation
// and deadlines. Non-2xx statuses are returned as errors with the HTTP
// method, path, and status text to aid diagnostics.
package relay
