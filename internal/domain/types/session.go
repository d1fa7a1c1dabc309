package types

// ChainKey is one link of a symmetric KDF chain: the chain seed plus
// the index of the next message key it will produce.
type ChainKey struct {
	Key   [32]byte `json:"key"`
	Index uint32   `json:"index"`
}

// MessageKeys is the per-message cipher material expanded from one
// chain step.
type MessageKeys struct {
	CipherKey [32]byte `json:"cipher_key"`
	MacKey    [32]byte `json:"mac_key"`
	IV        [16]byte `json:"iv"`
	Index     uint32   `json:"index"`
}

// SenderChain is the single sending chain of a session.
type SenderChain struct {
	RatchetPriv X25519Private `json:"ratchet_priv"`
	RatchetPub  X25519Public  `json:"ratchet_pub"`
	ChainKey    ChainKey      `json:"chain_key"`
}

// ReceiverChain tracks one peer ratchet key and the chain it drives.
type ReceiverChain struct {
	RatchetPub X25519Public `json:"ratchet_pub"`
	ChainKey   ChainKey     `json:"chain_key"`
}

// SkippedKey caches a message key derived for a not-yet-seen index so
// out-of-order messages remain decryptable. Single use.
type SkippedKey struct {
	RatchetPub X25519Public `json:"ratchet_pub"`
	Index      uint32       `json:"index"`
	Keys       MessageKeys  `json:"keys"`
}

// PendingPreKey remembers which of the peer's pre-keys built this
// session, so the first outbound messages can carry the handshake.
type PendingPreKey struct {
	PreKeyID       *uint32      `json:"pre_key_id,omitempty"`
	SignedPreKeyID uint32       `json:"signed_pre_key_id"`
	BaseKey        X25519Public `json:"base_key"`
}

// SessionState is the mutable Double Ratchet state for one session
// instance. At most one sending chain; receiver chains and skipped
// keys are bounded with oldest-first eviction (enforced by the ratchet
// package).
type SessionState struct {
	Version uint8 `json:"version"`

	RootKey [32]byte `json:"root_key"`

	LocalIdentity  X25519Public `json:"local_identity"`
	RemoteIdentity X25519Public `json:"remote_identity"`

	SenderChain    *SenderChain    `json:"sender_chain,omitempty"`
	ReceiverChains []ReceiverChain `json:"receiver_chains,omitempty"`

	// Skipped is the session-global out-of-order key cache, FIFO.
	Skipped []SkippedKey `json:"skipped,omitempty"`

	PreviousCounter uint32 `json:"previous_counter"`

	LocalRegistrationID  uint32 `json:"local_registration_id"`
	RemoteRegistrationID uint32 `json:"remote_registration_id"`

	// AliceBaseKey identifies the handshake that created this state,
	// letting a retransmitted handshake find it again.
	AliceBaseKey X25519Public `json:"alice_base_key"`

	Pending *PendingPreKey `json:"pending,omitempty"`
}

// Clone returns a deep copy, so a decrypt attempt can be discarded
// without corrupting the stored state.
func (s SessionState) Clone() SessionState {
	out := s
	if s.SenderChain != nil {
		sc := *s.SenderChain
		out.SenderChain = &sc
	}
	out.ReceiverChains = append([]ReceiverChain(nil), s.ReceiverChains...)
	out.Skipped = append([]SkippedKey(nil), s.Skipped...)
	if s.Pending != nil {
		p := *s.Pending
		if s.Pending.PreKeyID != nil {
			id := *s.Pending.PreKeyID
			p.PreKeyID = &id
		}
		out.Pending = &p
	}
	return out
}

// SessionRecord is the ordered list of session states for one peer
// address, newest first. States[0] is the active state; the rest are
// archived and retained only for decrypting stragglers.
type SessionRecord struct {
	States []SessionState `json:"states"`
}

// Current returns the active state, or nil if the record is fresh.
func (r *SessionRecord) Current() *SessionState {
	if len(r.States) == 0 {
		return nil
	}
	return &r.States[0]
}
