package ratchet_test

import (
	"bytes"
	"errors"
	"testing"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/protocol/ratchet"
)

// makePair returns a fresh X25519 key pair.
func makePair(t *testing.T) (domain.X25519Private, domain.X25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	return priv, pub
}

// makeSessions seeds both ends of a session from a shared secret, with
// Bob's signed pre-key pair as his first ratchet key.
func makeSessions(t *testing.T) (alice, bob domain.SessionState) {
	t.Helper()

	secrets := bytes.Repeat([]byte{0x42}, 4*32)
	_, aliceID := makePair(t)
	_, bobID := makePair(t)
	spkPriv, spkPub := makePair(t)

	alice, err := ratchet.InitializeAlice(secrets, aliceID, bobID, spkPub)
	if err != nil {
		t.Fatalf("InitializeAlice: %v", err)
	}
	bob = ratchet.InitializeBob(secrets, bobID, aliceID, spkPriv, spkPub)
	return alice, bob
}

func TestMessageKeys_OneRoundTrip(t *testing.T) {
	alice, bob := makeSessions(t)

	sent, err := ratchet.SenderMessageKeys(&alice)
	if err != nil {
		t.Fatalf("SenderMessageKeys: %v", err)
	}
	got, err := ratchet.MessageKeysForDecrypt(&bob, alice.SenderChain.RatchetPub, sent.Index)
	if err != nil {
		t.Fatalf("MessageKeysForDecrypt: %v", err)
	}

	if got.CipherKey != sent.CipherKey || got.MacKey != sent.MacKey || got.IV != sent.IV {
		t.Fatal("receiver derived different message keys")
	}
}

func TestMessageKeys_PingPongRatchets(t *testing.T) {
	alice, bob := makeSessions(t)

	for round := 0; round < 4; round++ {
		sent, err := ratchet.SenderMessageKeys(&alice)
		if err != nil {
			t.Fatalf("round %d alice send: %v", round, err)
		}
		got, err := ratchet.MessageKeysForDecrypt(&bob, alice.SenderChain.RatchetPub, sent.Index)
		if err != nil {
			t.Fatalf("round %d bob recv: %v", round, err)
		}
		if got.CipherKey != sent.CipherKey {
			t.Fatalf("round %d key mismatch", round)
		}

		sent, err = ratchet.SenderMessageKeys(&bob)
		if err != nil {
			t.Fatalf("round %d bob send: %v", round, err)
		}
		got, err = ratchet.MessageKeysForDecrypt(&alice, bob.SenderChain.RatchetPub, sent.Index)
		if err != nil {
			t.Fatalf("round %d alice recv: %v", round, err)
		}
		if got.CipherKey != sent.CipherKey {
			t.Fatalf("round %d reply key mismatch", round)
		}
	}
}

func TestMessageKeys_OutOfOrderAndReplay(t *testing.T) {
	alice, bob := makeSessions(t)

	var sent []domain.MessageKeys
	for i := 0; i < 5; i++ {
		mk, err := ratchet.SenderMessageKeys(&alice)
		if err != nil {
			t.Fatalf("SenderMessageKeys %d: %v", i, err)
		}
		sent = append(sent, mk)
	}

	pub := alice.SenderChain.RatchetPub
	for _, idx := range []uint32{2, 0, 1, 4, 3} {
		got, err := ratchet.MessageKeysForDecrypt(&bob, pub, idx)
		if err != nil {
			t.Fatalf("decrypt index %d: %v", idx, err)
		}
		if got.CipherKey != sent[idx].CipherKey {
			t.Fatalf("index %d key mismatch", idx)
		}
	}

	// Every index has been consumed; a replay must be rejected.
	if _, err := ratchet.MessageKeysForDecrypt(&bob, pub, 2); !errors.Is(err, domain.ErrDuplicateMessage) {
		t.Fatalf("replay err = %v, want ErrDuplicateMessage", err)
	}
}

func TestMessageKeys_SkipWindowBound(t *testing.T) {
	alice, bob := makeSessions(t)
	pub := alice.SenderChain.RatchetPub

	if _, err := ratchet.MessageKeysForDecrypt(&bob, pub, ratchet.MaxSkip+1); !errors.Is(err, domain.ErrInvalidMessage) {
		t.Fatalf("beyond window err = %v, want ErrInvalidMessage", err)
	}

	// At the window boundary the jump is allowed.
	if _, err := ratchet.MessageKeysForDecrypt(&bob, pub, ratchet.MaxSkip); err != nil {
		t.Fatalf("at window boundary: %v", err)
	}
}

func TestMessageKeys_SkippedCacheEviction(t *testing.T) {
	alice, bob := makeSessions(t)
	pub := alice.SenderChain.RatchetPub

	// Jump far ahead; the cache keeps only the newest entries.
	jump := uint32(ratchet.MaxSkippedMessageKeys + 10)
	if _, err := ratchet.MessageKeysForDecrypt(&bob, pub, jump); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if len(bob.Skipped) != ratchet.MaxSkippedMessageKeys {
		t.Fatalf("cache size = %d, want %d", len(bob.Skipped), ratchet.MaxSkippedMessageKeys)
	}

	// Index 0 was evicted; index jump-1 survived.
	if _, err := ratchet.MessageKeysForDecrypt(&bob, pub, 0); !errors.Is(err, domain.ErrDuplicateMessage) {
		t.Fatalf("evicted index err = %v, want ErrDuplicateMessage", err)
	}
	if _, err := ratchet.MessageKeysForDecrypt(&bob, pub, jump-1); err != nil {
		t.Fatalf("cached index: %v", err)
	}
}

func TestStep_EvictsOldReceiverChains(t *testing.T) {
	secrets := bytes.Repeat([]byte{0x17}, 4*32)
	_, aliceID := makePair(t)
	_, bobID := makePair(t)
	spkPriv, spkPub := makePair(t)

	bob := ratchet.InitializeBob(secrets, bobID, aliceID, spkPriv, spkPub)

	for i := 0; i < ratchet.MaxReceiverChains+2; i++ {
		_, pub := makePair(t)
		if err := ratchet.Step(&bob, pub); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if len(bob.ReceiverChains) != ratchet.MaxReceiverChains {
		t.Fatalf("receiver chains = %d, want %d", len(bob.ReceiverChains), ratchet.MaxReceiverChains)
	}
}
