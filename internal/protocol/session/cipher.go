package session

import (
	"errors"
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/protocol/ratchet"
	"sealwire/internal/protocol/x3dh"
	"sealwire/internal/util/memzero"
	"sealwire/internal/wire"
)

// Cipher encrypts and decrypts Double Ratchet messages for one peer
// address. It holds no session state of its own; every operation loads
// the record, works on it, and persists only on success.
type Cipher struct {
	addr          domain.ProtocolAddress
	identities    domain.IdentityStore
	sessions      domain.SessionStore
	preKeys       domain.PreKeyStore
	signedPreKeys domain.SignedPreKeyStore
}

// NewCipher constructs a Cipher for the peer address.
func NewCipher(
	addr domain.ProtocolAddress,
	identities domain.IdentityStore,
	sessions domain.SessionStore,
	preKeys domain.PreKeyStore,
	signedPreKeys domain.SignedPreKeyStore,
) *Cipher {
	return &Cipher{
		addr:          addr,
		identities:    identities,
		sessions:      sessions,
		preKeys:       preKeys,
		signedPreKeys: signedPreKeys,
	}
}

// Encrypt advances the sending chain one step and frames the
// ciphertext. While the session still awaits the peer's first reply
// the result is a PreKeySignalMessage carrying the handshake;
// afterwards it is a plain SignalMessage.
func (c *Cipher) Encrypt(plaintext []byte) (domain.CiphertextType, []byte, error) {
	rec, found, err := c.sessions.LoadSession(c.addr)
	if err != nil {
		return 0, nil, err
	}
	if !found || rec.Current() == nil {
		return 0, nil, fmt.Errorf("%w: no session with %s", domain.ErrInvalidState, c.addr)
	}
	st := rec.Current()

	mk, err := ratchet.SenderMessageKeys(st)
	if err != nil {
		return 0, nil, err
	}
	defer memzero.Zero(mk.CipherKey[:])

	ciphertext := crypto.EncryptCTR(mk.CipherKey, mk.IV, plaintext)
	msg := wire.NewSignalMessage(
		st.SenderChain.RatchetPub,
		mk.Index,
		st.PreviousCounter,
		ciphertext,
		st.LocalIdentity,
		st.RemoteIdentity,
		mk.MacKey,
	)

	msgType := domain.WhisperType
	serialized := msg.Serialized
	if st.Pending != nil {
		pkMsg := wire.NewPreKeySignalMessage(
			st.LocalRegistrationID,
			st.Pending.PreKeyID,
			st.Pending.SignedPreKeyID,
			st.Pending.BaseKey,
			st.LocalIdentity,
			msg,
		)
		msgType = domain.PreKeyType
		serialized = pkMsg.Serialized
	}

	if err := c.sessions.StoreSession(c.addr, rec); err != nil {
		return 0, nil, err
	}
	return msgType, serialized, nil
}

// Decrypt opens a received message of either ratchet type. The type
// tag must come from the envelope; the variants are handled
// exhaustively.
func (c *Cipher) Decrypt(msgType domain.CiphertextType, body []byte) ([]byte, error) {
	switch msgType {
	case domain.WhisperType:
		msg, err := wire.DecodeSignalMessage(body)
		if err != nil {
			return nil, err
		}
		return c.decryptSignalMessage(msg)
	case domain.PreKeyType:
		msg, err := wire.DecodePreKeySignalMessage(body)
		if err != nil {
			return nil, err
		}
		return c.decryptPreKeyMessage(msg)
	case domain.SenderKeyType, domain.SenderKeyDistributionType:
		return nil, fmt.Errorf("%w: group message on a 1:1 session", domain.ErrInvalidMessage)
	default:
		return nil, fmt.Errorf("%w: unknown message type %d", domain.ErrInvalidMessage, msgType)
	}
}

// decryptSignalMessage tries the current state first, then each
// archived state; a state that succeeds is promoted to current.
func (c *Cipher) decryptSignalMessage(msg domain.SignalMessage) ([]byte, error) {
	rec, found, err := c.sessions.LoadSession(c.addr)
	if err != nil {
		return nil, err
	}
	if !found || len(rec.States) == 0 {
		return nil, fmt.Errorf("%w: no session with %s", domain.ErrInvalidState, c.addr)
	}

	var firstErr error
	for i := range rec.States {
		attempt := rec.States[i].Clone()
		plaintext, err := decryptWithState(&attempt, msg)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			// Replays must not fall through to older states and
			// surface as a stale-session failure.
			if errors.Is(err, domain.ErrDuplicateMessage) {
				return nil, err
			}
			continue
		}

		attempt.Pending = nil
		promoteState(&rec, i, attempt)
		if _, err := c.identities.SaveIdentity(c.addr, attempt.RemoteIdentity); err != nil {
			return nil, err
		}
		if err := c.sessions.StoreSession(c.addr, rec); err != nil {
			return nil, err
		}
		return plaintext, nil
	}
	return nil, firstErr
}

// decryptPreKeyMessage handles the responder side of the handshake: it
// builds a session state from our pre-key privates if this base key is
// new, or reuses the state a retransmitted handshake already created.
func (c *Cipher) decryptPreKeyMessage(msg domain.PreKeySignalMessage) ([]byte, error) {
	trusted, err := c.identities.IsTrustedIdentity(c.addr, msg.IdentityKey, domain.Receiving)
	if err != nil {
		return nil, err
	}
	if !trusted {
		return nil, fmt.Errorf("%w: %s presented a conflicting identity key", domain.ErrUntrustedIdentity, c.addr)
	}

	rec, _, err := c.sessions.LoadSession(c.addr)
	if err != nil {
		return nil, err
	}

	// A handshake we have already processed refers to a consumed
	// one-time pre-key; the session it established must answer for it.
	if i := stateForBaseKey(&rec, msg.BaseKey); i >= 0 {
		attempt := rec.States[i].Clone()
		plaintext, err := decryptWithState(&attempt, msg.Message)
		if err != nil {
			return nil, err
		}
		promoteState(&rec, i, attempt)
		if err := c.sessions.StoreSession(c.addr, rec); err != nil {
			return nil, err
		}
		return plaintext, nil
	}

	st, usedPreKeyID, err := c.buildResponderState(msg)
	if err != nil {
		return nil, err
	}

	plaintext, err := decryptWithState(&st, msg.Message)
	if err != nil {
		return nil, err
	}

	prependState(&rec, st)
	if usedPreKeyID != nil {
		if err := c.preKeys.RemovePreKey(*usedPreKeyID); err != nil {
			return nil, err
		}
	}
	if _, err := c.identities.SaveIdentity(c.addr, msg.IdentityKey); err != nil {
		return nil, err
	}
	if err := c.sessions.StoreSession(c.addr, rec); err != nil {
		return nil, err
	}
	return plaintext, nil
}

// buildResponderState runs X3DH from the responder side.
func (c *Cipher) buildResponderState(msg domain.PreKeySignalMessage) (domain.SessionState, *uint32, error) {
	spk, err := c.signedPreKeys.LoadSignedPreKey(msg.SignedPreKeyID)
	if err != nil {
		return domain.SessionState{}, nil, err
	}

	var opkPriv *domain.X25519Private
	var usedPreKeyID *uint32
	if msg.PreKeyID != nil {
		pk, err := c.preKeys.LoadPreKey(*msg.PreKeyID)
		if err != nil {
			// Already consumed and no session remembers the handshake:
			// nothing can re-derive this root.
			return domain.SessionState{}, nil, err
		}
		opkPriv = &pk.Priv
		usedPreKeyID = msg.PreKeyID
	}

	ourIdentity, err := c.identities.GetIdentityKeyPair()
	if err != nil {
		return domain.SessionState{}, nil, err
	}
	localRegistrationID, err := c.identities.GetLocalRegistrationID()
	if err != nil {
		return domain.SessionState{}, nil, err
	}

	secrets, err := x3dh.ResponderSecrets(
		ourIdentity.DHPriv,
		spk.Priv,
		opkPriv,
		msg.IdentityKey,
		msg.BaseKey,
	)
	if err != nil {
		return domain.SessionState{}, nil, err
	}

	st := ratchet.InitializeBob(secrets, ourIdentity.DHPub, msg.IdentityKey, spk.Priv, spk.Pub)
	memzero.Zero(secrets)
	st.AliceBaseKey = msg.BaseKey
	st.LocalRegistrationID = localRegistrationID
	st.RemoteRegistrationID = msg.RegistrationID
	return st, usedPreKeyID, nil
}

// decryptWithState resolves message keys within one state, verifies
// the MAC, and only then decrypts. The state is a scratch copy; the
// caller persists it on success and discards it on failure.
func decryptWithState(st *domain.SessionState, msg domain.SignalMessage) ([]byte, error) {
	mk, err := ratchet.MessageKeysForDecrypt(st, msg.RatchetPub, msg.Counter)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(mk.CipherKey[:])

	if !wire.VerifySignalMAC(msg, st.RemoteIdentity, st.LocalIdentity, mk.MacKey) {
		return nil, fmt.Errorf("%w: signal message counter %d", domain.ErrInvalidMac, msg.Counter)
	}
	return crypto.DecryptCTR(mk.CipherKey, mk.IV, msg.Ciphertext), nil
}
