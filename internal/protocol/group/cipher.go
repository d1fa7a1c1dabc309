package group

import (
	"fmt"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/util/memzero"
	"sealwire/internal/wire"
)

// Cipher encrypts and decrypts group messages against sender-key
// records. Like the session cipher, it borrows a record per operation
// and persists only on success.
type Cipher struct {
	store domain.SenderKeyStore
}

// NewCipher constructs a group Cipher over the store.
func NewCipher(store domain.SenderKeyStore) *Cipher {
	return &Cipher{store: store}
}

// CreateDistribution returns the distribution message for our own
// sender key in the group, creating the key on first use. The message
// carries the current chain position, so a recipient joining late
// cannot read earlier traffic.
func (c *Cipher) CreateDistribution(name domain.SenderKeyName) (domain.SenderKeyDistributionMessage, error) {
	rec, _, err := c.store.LoadSenderKey(name)
	if err != nil {
		return domain.SenderKeyDistributionMessage{}, err
	}

	st := rec.Current()
	if st == nil || st.SigPriv == nil {
		fresh, err := newState()
		if err != nil {
			return domain.SenderKeyDistributionMessage{}, err
		}
		prependState(&rec, fresh)
		if err := c.store.StoreSenderKey(name, rec); err != nil {
			return domain.SenderKeyDistributionMessage{}, err
		}
		st = rec.Current()
	}

	return domain.SenderKeyDistributionMessage{
		Version:   wire.CurrentVersion,
		KeyID:     st.KeyID,
		Iteration: st.ChainKey.Iteration,
		ChainSeed: st.ChainKey.Seed,
		SigPub:    st.SigPub,
	}, nil
}

// ProcessDistribution seeds a receiving state from a peer's
// distribution message.
func (c *Cipher) ProcessDistribution(name domain.SenderKeyName, d domain.SenderKeyDistributionMessage) error {
	rec, _, err := c.store.LoadSenderKey(name)
	if err != nil {
		return err
	}
	prependState(&rec, domain.SenderKeyState{
		KeyID: d.KeyID,
		ChainKey: domain.SenderChainKey{
			Iteration: d.Iteration,
			Seed:      d.ChainSeed,
		},
		SigPub: d.SigPub,
	})
	return c.store.StoreSenderKey(name, rec)
}

// Encrypt derives the next message key, encrypts, signs, and advances
// the chain. Only the originating sender holds the signing key.
func (c *Cipher) Encrypt(name domain.SenderKeyName, plaintext []byte) ([]byte, error) {
	rec, found, err := c.store.LoadSenderKey(name)
	if err != nil {
		return nil, err
	}
	st := rec.Current()
	if !found || st == nil {
		return nil, fmt.Errorf("%w: no sender key for %s", domain.ErrInvalidState, name)
	}
	if st.SigPriv == nil {
		return nil, fmt.Errorf("%w: not the originating sender for %s", domain.ErrInvalidState, name)
	}

	mk := crypto.DeriveSenderMessageKey(st.ChainKey)
	defer memzero.Zero(mk.CipherKey[:])

	ciphertext := crypto.EncryptCTR(mk.CipherKey, mk.IV, plaintext)
	msg := wire.NewSenderKeyMessage(st.KeyID, mk.Iteration, ciphertext, *st.SigPriv)

	st.ChainKey = crypto.NextSenderChainKey(st.ChainKey)
	if err := c.store.StoreSenderKey(name, rec); err != nil {
		return nil, err
	}
	return msg.Serialized, nil
}

// Decrypt verifies the message signature against the distributed
// verification key, then steps the chain to the message's iteration
// and decrypts. The signature is checked before any plaintext is
// produced; a tampered ciphertext fails verification, never yields a
// wrong plaintext.
func (c *Cipher) Decrypt(name domain.SenderKeyName, serialized []byte) ([]byte, error) {
	msg, err := wire.DecodeSenderKeyMessage(serialized)
	if err != nil {
		return nil, err
	}

	rec, found, err := c.store.LoadSenderKey(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no sender key for %s", domain.ErrInvalidState, name)
	}
	st := rec.StateForKeyID(msg.KeyID)
	if st == nil {
		return nil, fmt.Errorf("%w: sender key id %d", domain.ErrInvalidKeyID, msg.KeyID)
	}

	if !wire.VerifySenderKeySignature(msg, st.SigPub) {
		return nil, fmt.Errorf("%w: sender key message", domain.ErrInvalidSignature)
	}

	attempt := st.Clone()
	mk, err := messageKeyForDecrypt(&attempt, msg.Iteration)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(mk.CipherKey[:])

	plaintext := crypto.DecryptCTR(mk.CipherKey, mk.IV, msg.Ciphertext)
	*st = attempt
	if err := c.store.StoreSenderKey(name, rec); err != nil {
		return nil, err
	}
	return plaintext, nil
}
