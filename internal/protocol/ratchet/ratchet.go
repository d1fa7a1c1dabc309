package ratchet

import (
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
)

// Protocol caps. These match the deployed protocol's published
// constants; they are interoperability values, not tunables.
const (
	// MaxSkip bounds how far a receiving chain will step ahead to
	// reach a future message index.
	MaxSkip = 25000
	// MaxReceiverChains bounds the set of retained receiving chains.
	MaxReceiverChains = 5
	// MaxSkippedMessageKeys bounds the session-global out-of-order
	// key cache.
	MaxSkippedMessageKeys = 2000
)

const wireVersion = 3

// InitializeAlice seeds a session as the handshake initiator. The
// initial chain keys the receiving chain for the peer's signed pre-key
// (their first ratchet key); an immediate DH step creates our sending
// chain under a fresh ratchet key pair.
func InitializeAlice(
	secrets []byte,
	localIdentity, remoteIdentity domain.X25519Public,
	theirRatchetKey domain.X25519Public,
) (domain.SessionState, error) {
	root, chain := crypto.DeriveInitialRoot(secrets)

	ratchetPriv, ratchetPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.SessionState{}, err
	}
	dh, err := crypto.DH(ratchetPriv, theirRatchetKey)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("%w: ratchet agreement: %v", domain.ErrInvalidKey, err)
	}
	sendRoot, sendCK := crypto.DeriveRatchetRoot(root, dh)

	return domain.SessionState{
		Version:        wireVersion,
		RootKey:        sendRoot,
		LocalIdentity:  localIdentity,
		RemoteIdentity: remoteIdentity,
		SenderChain: &domain.SenderChain{
			RatchetPriv: ratchetPriv,
			RatchetPub:  ratchetPub,
			ChainKey:    domain.ChainKey{Key: sendCK},
		},
		ReceiverChains: []domain.ReceiverChain{{
			RatchetPub: theirRatchetKey,
			ChainKey:   domain.ChainKey{Key: chain},
		}},
	}, nil
}

// InitializeBob seeds a session as the handshake responder. The signed
// pre-key pair doubles as the first sending ratchet key; the receiving
// chain appears on the first inbound DH step.
func InitializeBob(
	secrets []byte,
	localIdentity, remoteIdentity domain.X25519Public,
	ourRatchetPriv domain.X25519Private,
	ourRatchetPub domain.X25519Public,
) domain.SessionState {
	root, chain := crypto.DeriveInitialRoot(secrets)

	return domain.SessionState{
		Version:        wireVersion,
		RootKey:        root,
		LocalIdentity:  localIdentity,
		RemoteIdentity: remoteIdentity,
		SenderChain: &domain.SenderChain{
			RatchetPriv: ourRatchetPriv,
			RatchetPub:  ourRatchetPub,
			ChainKey:    domain.ChainKey{Key: chain},
		},
	}
}

// SenderMessageKeys advances the sending chain one step and returns
// the message keys for the message being encrypted.
func SenderMessageKeys(st *domain.SessionState) (domain.MessageKeys, error) {
	if st.SenderChain == nil {
		return domain.MessageKeys{}, fmt.Errorf("%w: no sender chain", domain.ErrInvalidState)
	}
	mk := crypto.DeriveMessageKeys(st.SenderChain.ChainKey)
	st.SenderChain.ChainKey = crypto.NextChainKey(st.SenderChain.ChainKey)
	return mk, nil
}

// receiverChain finds the receiving chain driven by the given peer
// ratchet key.
func receiverChain(st *domain.SessionState, ratchetPub domain.X25519Public) *domain.ReceiverChain {
	for i := range st.ReceiverChains {
		if st.ReceiverChains[i].RatchetPub == ratchetPub {
			return &st.ReceiverChains[i]
		}
	}
	return nil
}

// Step performs a DH ratchet step for a newly seen peer ratchet key:
// derive the receiving chain under our current ratchet key, then
// replace the sending chain under a fresh one.
func Step(st *domain.SessionState, theirRatchetKey domain.X25519Public) error {
	if st.SenderChain == nil {
		return fmt.Errorf("%w: no ratchet key to step with", domain.ErrInvalidState)
	}

	dh, err := crypto.DH(st.SenderChain.RatchetPriv, theirRatchetKey)
	if err != nil {
		return fmt.Errorf("%w: ratchet agreement: %v", domain.ErrInvalidKey, err)
	}
	recvRoot, recvCK := crypto.DeriveRatchetRoot(st.RootKey, dh)

	st.ReceiverChains = append(st.ReceiverChains, domain.ReceiverChain{
		RatchetPub: theirRatchetKey,
		ChainKey:   domain.ChainKey{Key: recvCK},
	})
	if len(st.ReceiverChains) > MaxReceiverChains {
		// Oldest first. Messages still in flight on the evicted chain
		// become undecryptable.
		st.ReceiverChains = st.ReceiverChains[len(st.ReceiverChains)-MaxReceiverChains:]
	}

	newPriv, newPub, err := crypto.GenerateX25519()
	if err != nil {
		return err
	}
	dh2, err := crypto.DH(newPriv, theirRatchetKey)
	if err != nil {
		return fmt.Errorf("%w: ratchet agreement: %v", domain.ErrInvalidKey, err)
	}
	sendRoot, sendCK := crypto.DeriveRatchetRoot(recvRoot, dh2)

	st.PreviousCounter = st.SenderChain.ChainKey.Index
	st.RootKey = sendRoot
	st.SenderChain = &domain.SenderChain{
		RatchetPriv: newPriv,
		RatchetPub:  newPub,
		ChainKey:    domain.ChainKey{Key: sendCK},
	}
	return nil
}

// MessageKeysForDecrypt resolves the message keys for an inbound
// message: stepping the DH ratchet for an unknown ratchet key, consuming
// the skipped-key cache for an index already passed, or stepping the
// chain forward (caching intermediates) for an index ahead.
func MessageKeysForDecrypt(
	st *domain.SessionState,
	ratchetPub domain.X25519Public,
	counter uint32,
) (domain.MessageKeys, error) {
	chain := receiverChain(st, ratchetPub)
	if chain == nil {
		if err := Step(st, ratchetPub); err != nil {
			return domain.MessageKeys{}, err
		}
		chain = receiverChain(st, ratchetPub)
	}

	if counter < chain.ChainKey.Index {
		mk, ok := consumeSkipped(st, ratchetPub, counter)
		if !ok {
			return domain.MessageKeys{}, fmt.Errorf(
				"%w: counter %d behind chain index %d",
				domain.ErrDuplicateMessage, counter, chain.ChainKey.Index,
			)
		}
		return mk, nil
	}

	if counter-chain.ChainKey.Index > MaxSkip {
		return domain.MessageKeys{}, fmt.Errorf(
			"%w: counter %d exceeds skip window from %d",
			domain.ErrInvalidMessage, counter, chain.ChainKey.Index,
		)
	}

	for chain.ChainKey.Index < counter {
		cacheSkipped(st, domain.SkippedKey{
			RatchetPub: ratchetPub,
			Index:      chain.ChainKey.Index,
			Keys:       crypto.DeriveMessageKeys(chain.ChainKey),
		})
		chain.ChainKey = crypto.NextChainKey(chain.ChainKey)
	}

	mk := crypto.DeriveMessageKeys(chain.ChainKey)
	chain.ChainKey = crypto.NextChainKey(chain.ChainKey)
	return mk, nil
}

// cacheSkipped appends to the session-global FIFO cache, evicting the
// oldest entry past the cap.
func cacheSkipped(st *domain.SessionState, sk domain.SkippedKey) {
	st.Skipped = append(st.Skipped, sk)
	if len(st.Skipped) > MaxSkippedMessageKeys {
		st.Skipped = st.Skipped[len(st.Skipped)-MaxSkippedMessageKeys:]
	}
}

// consumeSkipped removes and returns the cached key for
// (ratchet key, index). Keys are single use.
func consumeSkipped(
	st *domain.SessionState,
	ratchetPub domain.X25519Public,
	counter uint32,
) (domain.MessageKeys, bool) {
	for i := range st.Skipped {
		if st.Skipped[i].Index == counter && st.Skipped[i].RatchetPub == ratchetPub {
			mk := st.Skipped[i].Keys
			st.Skipped = append(st.Skipped[:i], st.Skipped[i+1:]...)
			return mk, true
		}
	}
	return domain.MessageKeys{}, false
}
