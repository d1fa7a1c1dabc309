package types

// SenderChainKey is one link of a sender-key chain.
type SenderChainKey struct {
	Iteration uint32   `json:"iteration"`
	Seed      [32]byte `json:"seed"`
}

// SenderMessageKey is the cipher material for one group message.
type SenderMessageKey struct {
	Iteration uint32   `json:"iteration"`
	IV        [16]byte `json:"iv"`
	CipherKey [32]byte `json:"cipher_key"`
}

// SenderKeyState is one distributed sender-key chain. SigPriv is held
// only by the originating sender; recipients carry just SigPub.
type SenderKeyState struct {
	KeyID    uint32         `json:"key_id"`
	ChainKey SenderChainKey `json:"chain_key"`

	SigPub  Ed25519Public   `json:"sig_pub"`
	SigPriv *Ed25519Private `json:"sig_priv,omitempty"`

	// Skipped caches message keys for iterations passed over while
	// catching up, FIFO, single use.
	Skipped []SenderMessageKey `json:"skipped,omitempty"`
}

// Clone returns a deep copy of the state.
func (s SenderKeyState) Clone() SenderKeyState {
	out := s
	if s.SigPriv != nil {
		k := *s.SigPriv
		out.SigPriv = &k
	}
	out.Skipped = append([]SenderMessageKey(nil), s.Skipped...)
	return out
}

// SenderKeyRecord holds the sender-key states for one
// (group, sender device), newest first, bounded like session archival.
type SenderKeyRecord struct {
	States []SenderKeyState `json:"states"`
}

// Current returns the active state, or nil if none is known yet.
func (r *SenderKeyRecord) Current() *SenderKeyState {
	if len(r.States) == 0 {
		return nil
	}
	return &r.States[0]
}

// StateForKeyID finds the state with the given key id.
func (r *SenderKeyRecord) StateForKeyID(id uint32) *SenderKeyState {
	for i := range r.States {
		if r.States[i].KeyID == id {
			return &r.States[i]
		}
	}
	return nil
}
