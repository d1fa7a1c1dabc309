package group

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
)

// Protocol caps, matching the deployed protocol's published constants.
const (
	// MaxSenderKeyStates bounds the retained states per record.
	MaxSenderKeyStates = 5
	// MaxSkip bounds how far a chain will step ahead to reach a
	// future iteration.
	MaxSkip = 25000
	// MaxSkippedMessageKeys bounds the per-state out-of-order cache.
	MaxSkippedMessageKeys = 2000
)

// newState creates a fresh originating sender-key state: random key
// id, random chain seed, fresh signing pair.
func newState() (domain.SenderKeyState, error) {
	var idBytes [4]byte
	if _, err := rand.Read(idBytes[:]); err != nil {
		return domain.SenderKeyState{}, err
	}
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return domain.SenderKeyState{}, err
	}
	sigPriv, sigPub, err := crypto.GenerateEd25519()
	if err != nil {
		return domain.SenderKeyState{}, err
	}
	return domain.SenderKeyState{
		KeyID:    binary.BigEndian.Uint32(idBytes[:]),
		ChainKey: domain.SenderChainKey{Seed: seed},
		SigPub:   sigPub,
		SigPriv:  &sigPriv,
	}, nil
}

// prependState makes st current, discarding the oldest state past the
// cap.
func prependState(rec *domain.SenderKeyRecord, st domain.SenderKeyState) {
	rec.States = append([]domain.SenderKeyState{st}, rec.States...)
	if len(rec.States) > MaxSenderKeyStates {
		rec.States = rec.States[:MaxSenderKeyStates]
	}
}

// messageKeyForDecrypt resolves the message key for an iteration:
// consuming the skipped cache for one already passed, or stepping the
// chain forward (caching intermediates) for one ahead.
func messageKeyForDecrypt(st *domain.SenderKeyState, iteration uint32) (domain.SenderMessageKey, error) {
	if iteration < st.ChainKey.Iteration {
		for i := range st.Skipped {
			if st.Skipped[i].Iteration == iteration {
				mk := st.Skipped[i]
				st.Skipped = append(st.Skipped[:i], st.Skipped[i+1:]...)
				return mk, nil
			}
		}
		return domain.SenderMessageKey{}, fmt.Errorf(
			"%w: iteration %d behind chain at %d",
			domain.ErrDuplicateMessage, iteration, st.ChainKey.Iteration,
		)
	}

	if iteration-st.ChainKey.Iteration > MaxSkip {
		return domain.SenderMessageKey{}, fmt.Errorf(
			"%w: iteration %d exceeds skip window from %d",
			domain.ErrInvalidMessage, iteration, st.ChainKey.Iteration,
		)
	}

	for st.ChainKey.Iteration < iteration {
		st.Skipped = append(st.Skipped, crypto.DeriveSenderMessageKey(st.ChainKey))
		if len(st.Skipped) > MaxSkippedMessageKeys {
			st.Skipped = st.Skipped[len(st.Skipped)-MaxSkippedMessageKeys:]
		}
		st.ChainKey = crypto.NextSenderChainKey(st.ChainKey)
	}

	mk := crypto.DeriveSenderMessageKey(st.ChainKey)
	st.ChainKey = crypto.NextSenderChainKey(st.ChainKey)
	return mk, nil
}
