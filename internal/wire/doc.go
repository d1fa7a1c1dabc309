// Package wire encodes and decodes the protocol's binary message
// formats. Every message starts with a packed version byte; integers
// are big-endian; byte strings are length-framed unless the field is a
// fixed-size curve point.
//
// Decoding is strict: trailing bytes, short buffers, and unknown
// versions all fail with domain.ErrInvalidMessage. Decoders keep the
// original serialization on the returned value so MACs and signatures
// can be checked over exactly the received bytes.
package wire
