package wire

import (
	"fmt"

	"sealwire/internal/domain"
)

const (
	hasPreKeyID = 1
	noPreKeyID  = 0
)

// NewPreKeySignalMessage wraps an already-built SignalMessage with the
// handshake parameters the responder needs.
func NewPreKeySignalMessage(
	registrationID uint32,
	preKeyID *uint32,
	signedPreKeyID uint32,
	baseKey domain.X25519Public,
	identityKey domain.X25519Public,
	msg domain.SignalMessage,
) domain.PreKeySignalMessage {
	var w writer
	w.byte(packVersion(CurrentVersion))
	w.uint32(registrationID)
	if preKeyID != nil {
		w.byte(hasPreKeyID)
		w.uint32(*preKeyID)
	} else {
		w.byte(noPreKeyID)
	}
	w.uint32(signedPreKeyID)
	w.raw(baseKey[:])
	w.raw(identityKey[:])
	w.framed(msg.Serialized)

	return domain.PreKeySignalMessage{
		Version:        CurrentVersion,
		RegistrationID: registrationID,
		PreKeyID:       preKeyID,
		SignedPreKeyID: signedPreKeyID,
		BaseKey:        baseKey,
		IdentityKey:    identityKey,
		Message:        msg,
		Serialized:     w.buf,
	}
}

// DecodePreKeySignalMessage parses a serialized PreKeySignalMessage,
// including its embedded SignalMessage.
func DecodePreKeySignalMessage(buf []byte) (domain.PreKeySignalMessage, error) {
	var msg domain.PreKeySignalMessage
	r := newReader(buf)
	v, err := unpackVersion(r.byte("version"))
	if err != nil {
		return msg, err
	}
	msg.Version = v
	msg.RegistrationID = r.uint32("registration id")
	switch r.byte("pre-key flag") {
	case hasPreKeyID:
		id := r.uint32("pre-key id")
		msg.PreKeyID = &id
	case noPreKeyID:
	default:
		return msg, fmt.Errorf("%w: bad pre-key flag", domain.ErrInvalidMessage)
	}
	msg.SignedPreKeyID = r.uint32("signed pre-key id")
	r.fixed(msg.BaseKey[:], "base key")
	r.fixed(msg.IdentityKey[:], "identity key")
	inner := r.framed("inner message")
	if err := r.done(); err != nil {
		return msg, err
	}
	msg.Message, err = DecodeSignalMessage(inner)
	if err != nil {
		return msg, err
	}
	msg.Serialized = append([]byte(nil), buf...)
	return msg, nil
}
