package store_test

import (
	"errors"
	"testing"

	"sealwire/internal/domain"
	"sealwire/internal/store"
)

func TestIdentity_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()

	ids := store.NewFileIdentityStore(home, "pass")

	pair := domain.IdentityKeyPair{
		DHPub:   domain.X25519Public{1},
		DHPriv:  domain.X25519Private{2},
		SigPub:  domain.Ed25519Public{3},
		SigPriv: domain.Ed25519Private{4},
	}
	if err := ids.Initialize(pair, 4242); err != nil {
		t.Fatalf("initialize identity: %v", err)
	}

	reopened := store.NewFileIdentityStore(home, "pass")
	got, err := reopened.GetIdentityKeyPair()
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if got.DHPub != pair.DHPub || got.SigPub != pair.SigPub {
		t.Fatalf("mismatch after load")
	}
	regID, err := reopened.GetLocalRegistrationID()
	if err != nil {
		t.Fatalf("load registration id: %v", err)
	}
	if regID != 4242 {
		t.Fatalf("registration id = %d, want 4242", regID)
	}
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()

	ids := store.NewFileIdentityStore(home, "correct")
	if err := ids.Initialize(domain.IdentityKeyPair{DHPub: domain.X25519Public{1}}, 1); err != nil {
		t.Fatalf("initialize identity: %v", err)
	}

	if _, err := store.NewFileIdentityStore(home, "wrong").GetIdentityKeyPair(); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestIdentity_Initialize_RefusesOverwrite(t *testing.T) {
	home := t.TempDir()

	ids := store.NewFileIdentityStore(home, "pass")
	if err := ids.Initialize(domain.IdentityKeyPair{}, 1); err != nil {
		t.Fatalf("initialize identity: %v", err)
	}
	if err := ids.Initialize(domain.IdentityKeyPair{}, 2); err == nil {
		t.Fatal("expected error re-initialising an existing identity")
	}
}

func TestIdentity_TrustOnFirstUse(t *testing.T) {
	home := t.TempDir()

	ids := store.NewFileIdentityStore(home, "pass")
	addr := domain.NewAddress("bob", 1)
	first := domain.X25519Public{7}
	second := domain.X25519Public{8}

	trusted, err := ids.IsTrustedIdentity(addr, first, domain.Sending)
	if err != nil || !trusted {
		t.Fatalf("unknown address should be trusted, got %v %v", trusted, err)
	}

	replaced, err := ids.SaveIdentity(addr, first)
	if err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if replaced {
		t.Fatal("first pin reported as replacement")
	}

	trusted, err = ids.IsTrustedIdentity(addr, second, domain.Receiving)
	if err != nil {
		t.Fatalf("trust check: %v", err)
	}
	if trusted {
		t.Fatal("changed key should not be trusted")
	}

	replaced, err = ids.SaveIdentity(addr, second)
	if err != nil {
		t.Fatalf("re-pin identity: %v", err)
	}
	if !replaced {
		t.Fatal("re-pin should report replacement")
	}
}

func TestPreKeyStore_LoadAbsent(t *testing.T) {
	pks := store.NewFilePreKeyStore(t.TempDir())

	if _, err := pks.LoadPreKey(99); !errors.Is(err, domain.ErrInvalidKeyID) {
		t.Fatalf("err = %v, want ErrInvalidKeyID", err)
	}
}

func TestPreKeyStore_StoreConsume(t *testing.T) {
	pks := store.NewFilePreKeyStore(t.TempDir())

	rec := domain.PreKeyRecord{ID: 7, Pub: domain.X25519Public{7}}
	if err := pks.StorePreKey(7, rec); err != nil {
		t.Fatalf("store prekey: %v", err)
	}

	ok, err := pks.ContainsPreKey(7)
	if err != nil || !ok {
		t.Fatalf("contains = %v %v, want true", ok, err)
	}

	got, err := pks.LoadPreKey(7)
	if err != nil {
		t.Fatalf("load prekey: %v", err)
	}
	if got.Pub != rec.Pub {
		t.Fatal("mismatch after load")
	}

	if err := pks.RemovePreKey(7); err != nil {
		t.Fatalf("remove prekey: %v", err)
	}
	if _, err := pks.LoadPreKey(7); !errors.Is(err, domain.ErrInvalidKeyID) {
		t.Fatalf("err after remove = %v, want ErrInvalidKeyID", err)
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ss := store.NewFileSessionStore(t.TempDir())
	addr := domain.NewAddress("alice", 1)

	if _, found, err := ss.LoadSession(addr); err != nil || found {
		t.Fatalf("fresh store: found=%v err=%v", found, err)
	}

	rec := domain.SessionRecord{States: []domain.SessionState{{
		Version: 3,
		RootKey: [32]byte{1, 2, 3},
	}}}
	if err := ss.StoreSession(addr, rec); err != nil {
		t.Fatalf("store session: %v", err)
	}

	got, found, err := ss.LoadSession(addr)
	if err != nil || !found {
		t.Fatalf("load session: found=%v err=%v", found, err)
	}
	if got.Current() == nil || got.Current().Version != 3 {
		t.Fatal("mismatch after load")
	}
}

func TestSenderKeyStore_RoundTrip(t *testing.T) {
	sks := store.NewFileSenderKeyStore(t.TempDir())
	name := domain.SenderKeyName{
		GroupID: "g1",
		Sender:  domain.NewAddress("alice", 1),
	}

	rec := domain.SenderKeyRecord{States: []domain.SenderKeyState{{KeyID: 11}}}
	if err := sks.StoreSenderKey(name, rec); err != nil {
		t.Fatalf("store sender key: %v", err)
	}

	got, found, err := sks.LoadSenderKey(name)
	if err != nil || !found {
		t.Fatalf("load sender key: found=%v err=%v", found, err)
	}
	if got.Current() == nil || got.Current().KeyID != 11 {
		t.Fatal("mismatch after load")
	}
}
