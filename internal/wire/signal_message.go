package wire

import (
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
)

// NewSignalMessage builds and serializes a SignalMessage, MACing it
// under macKey bound to both parties' identity keys.
func NewSignalMessage(
	ratchetPub domain.X25519Public,
	counter, previousCounter uint32,
	ciphertext []byte,
	senderIdentity, receiverIdentity domain.X25519Public,
	macKey [32]byte,
) domain.SignalMessage {
	var w writer
	w.byte(packVersion(CurrentVersion))
	w.raw(ratchetPub[:])
	w.uint32(counter)
	w.uint32(previousCounter)
	w.framed(ciphertext)

	mac := signalMAC(macKey, senderIdentity, receiverIdentity, w.buf)
	w.raw(mac)

	return domain.SignalMessage{
		Version:         CurrentVersion,
		RatchetPub:      ratchetPub,
		Counter:         counter,
		PreviousCounter: previousCounter,
		Ciphertext:      ciphertext,
		Serialized:      w.buf,
	}
}

// DecodeSignalMessage parses a serialized SignalMessage. The MAC is
// retained but not checked here; use VerifySignalMAC once the message
// keys are known.
func DecodeSignalMessage(buf []byte) (domain.SignalMessage, error) {
	var msg domain.SignalMessage
	if len(buf) < 1+32+4+4+4+SignalMacSize {
		return msg, fmt.Errorf("%w: short signal message", domain.ErrInvalidMessage)
	}
	r := newReader(buf)
	v, err := unpackVersion(r.byte("version"))
	if err != nil {
		return msg, err
	}
	msg.Version = v
	r.fixed(msg.RatchetPub[:], "ratchet key")
	msg.Counter = r.uint32("counter")
	msg.PreviousCounter = r.uint32("previous counter")
	msg.Ciphertext = r.framed("ciphertext")
	r.rest(0, "mac")
	if err := r.done(); err != nil {
		return msg, err
	}
	msg.Serialized = append([]byte(nil), buf...)
	return msg, nil
}

// VerifySignalMAC recomputes the truncated MAC over the received bytes
// and compares in constant time.
func VerifySignalMAC(
	msg domain.SignalMessage,
	senderIdentity, receiverIdentity domain.X25519Public,
	macKey [32]byte,
) bool {
	n := len(msg.Serialized) - SignalMacSize
	if n <= 0 {
		return false
	}
	want := signalMAC(macKey, senderIdentity, receiverIdentity, msg.Serialized[:n])
	return crypto.ConstantTimeEqual(want, msg.Serialized[n:])
}

func signalMAC(
	macKey [32]byte,
	senderIdentity, receiverIdentity domain.X25519Public,
	body []byte,
) []byte {
	return crypto.TruncatedMAC(
		macKey[:],
		SignalMacSize,
		senderIdentity[:],
		receiverIdentity[:],
		body,
	)
}
