package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"sealwire/internal/domain"
	"sealwire/internal/util/memzero"
)

// KDF info labels. These are wire-compatibility constants, not tunables.
var (
	infoInitialRoot = []byte("WhisperText")
	infoRatchet     = []byte("WhisperRatchet")
	infoMessageKeys = []byte("WhisperMessageKeys")
	infoGroup       = []byte("WhisperGroup")
	infoSealed      = []byte("UnidentifiedDelivery")
)

// Chain step seeds.
const (
	seedMessageKey = 0x01
	seedChainKey   = 0x02
)

// DeriveInitialRoot turns the concatenated X3DH secrets into the first
// root key and chain key.
func DeriveInitialRoot(secrets []byte) (root [32]byte, chain [32]byte) {
	r := hkdf.New(sha256.New, secrets, nil, infoInitialRoot)
	readFull(r, root[:])
	readFull(r, chain[:])
	return
}

// DeriveRatchetRoot advances the root key with a DH output, yielding
// the next root key and a fresh chain key.
func DeriveRatchetRoot(root [32]byte, dh [32]byte) (newRoot [32]byte, chain [32]byte) {
	r := hkdf.New(sha256.New, dh[:], root[:], infoRatchet)
	readFull(r, newRoot[:])
	readFull(r, chain[:])
	memzero.Zero(dh[:])
	return
}

// NextChainKey steps a chain key forward one link. Not reversible.
func NextChainKey(ck domain.ChainKey) domain.ChainKey {
	var next domain.ChainKey
	copy(next.Key[:], hmacSum(ck.Key[:], []byte{seedChainKey}))
	next.Index = ck.Index + 1
	return next
}

// DeriveMessageKeys expands the chain key's message seed into cipher
// key, MAC key and IV for the message at the chain's current index.
func DeriveMessageKeys(ck domain.ChainKey) domain.MessageKeys {
	seed := hmacSum(ck.Key[:], []byte{seedMessageKey})
	r := hkdf.New(sha256.New, seed, nil, infoMessageKeys)

	var mk domain.MessageKeys
	readFull(r, mk.CipherKey[:])
	readFull(r, mk.MacKey[:])
	readFull(r, mk.IV[:])
	mk.Index = ck.Index
	memzero.Zero(seed)
	return mk
}

// NextSenderChainKey steps a sender-key chain forward one link.
func NextSenderChainKey(ck domain.SenderChainKey) domain.SenderChainKey {
	var next domain.SenderChainKey
	copy(next.Seed[:], hmacSum(ck.Seed[:], []byte{seedChainKey}))
	next.Iteration = ck.Iteration + 1
	return next
}

// DeriveSenderMessageKey expands a sender-key chain link into the
// group message key for its iteration.
func DeriveSenderMessageKey(ck domain.SenderChainKey) domain.SenderMessageKey {
	seed := hmacSum(ck.Seed[:], []byte{seedMessageKey})
	r := hkdf.New(sha256.New, seed, nil, infoGroup)

	var mk domain.SenderMessageKey
	readFull(r, mk.IV[:])
	readFull(r, mk.CipherKey[:])
	mk.Iteration = ck.Iteration
	memzero.Zero(seed)
	return mk
}

// DeriveSealedKeys derives the sealed-sender cipher and MAC keys from
// the ephemeral-static DH output. The salt binds the derivation to the
// recipient identity and the ephemeral key.
func DeriveSealedKeys(
	dh [32]byte,
	recipientIdentity domain.X25519Public,
	ephemeral domain.X25519Public,
) (cipherKey [32]byte, macKey [32]byte) {
	salt := make([]byte, 0, len(infoSealed)+64)
	salt = append(salt, infoSealed...)
	salt = append(salt, recipientIdentity[:]...)
	salt = append(salt, ephemeral[:]...)

	r := hkdf.New(sha256.New, dh[:], salt, nil)
	readFull(r, cipherKey[:])
	readFull(r, macKey[:])
	memzero.Zero(dh[:])
	return
}

func hmacSum(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func readFull(r io.Reader, out []byte) {
	// hkdf reads cannot fail below the 255-block expansion limit.
	_, _ = io.ReadFull(r, out)
}
