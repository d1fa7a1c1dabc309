package app_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sealwire/internal/app"
	"sealwire/internal/domain"
	"sealwire/internal/relay"
)

// newRelay starts an in-process relay over httptest.
func newRelay(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := relay.NewServer(zap.NewNop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// newClient builds a registered client with a fresh home directory.
func newClient(t *testing.T, ts *httptest.Server, name string) *app.Wire {
	t.Helper()
	w, err := app.NewWire(app.Config{
		Home:       t.TempDir(),
		Passphrase: "Open-Sesame-99 " + name,
		RelayURL:   ts.URL,
		Name:       name,
		DeviceID:   1,
		HTTP:       ts.Client(),
		Logger:     zap.NewNop(),
	})
	require.NoError(t, err)

	_, _, err = w.Identities.Generate()
	require.NoError(t, err)
	cert, err := w.Register(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, name, cert.Sender)
	return w
}

func TestEndToEnd_DirectMessages(t *testing.T) {
	ts := newRelay(t)
	ctx := context.Background()

	alice := newClient(t, ts, "alice")
	bob := newClient(t, ts, "bob")
	bobAddr := domain.NewAddress("bob", 1)
	aliceAddr := domain.NewAddress("alice", 1)

	require.NoError(t, alice.Sessions.InitiateSession(ctx, bobAddr))
	has, err := alice.Sessions.HasSession(bobAddr)
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, alice.Messages.Send(ctx, bobAddr, []byte("hello bob")))
	require.NoError(t, alice.Messages.Send(ctx, bobAddr, []byte("still there?")))

	got, err := bob.Messages.Receive(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, aliceAddr, got[0].From)
	require.Equal(t, []byte("hello bob"), got[0].Plaintext)
	require.Equal(t, []byte("still there?"), got[1].Plaintext)

	// The handshake gave bob a session; he can answer without a bundle.
	require.NoError(t, bob.Messages.Send(ctx, aliceAddr, []byte("here")))
	got, err = alice.Messages.Receive(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, bobAddr, got[0].From)
	require.Equal(t, []byte("here"), got[0].Plaintext)

	// Delivered messages were acknowledged.
	got, err = bob.Messages.Receive(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestEndToEnd_GroupMessages(t *testing.T) {
	ts := newRelay(t)
	ctx := context.Background()

	alice := newClient(t, ts, "alice")
	bob := newClient(t, ts, "bob")
	carol := newClient(t, ts, "carol")
	aliceAddr := domain.NewAddress("alice", 1)
	bobAddr := domain.NewAddress("bob", 1)
	carolAddr := domain.NewAddress("carol", 1)

	require.NoError(t, alice.Sessions.InitiateSession(ctx, bobAddr))
	require.NoError(t, alice.Sessions.InitiateSession(ctx, carolAddr))

	group, err := alice.Groups.CreateGroup(ctx, []domain.ProtocolAddress{aliceAddr, bobAddr, carolAddr})
	require.NoError(t, err)
	require.NotEmpty(t, group)

	// Key distributions travel the 1:1 channel and never surface as
	// user messages.
	got, err := bob.Messages.Receive(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)
	got, err = carol.Messages.Receive(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, alice.Groups.Send(ctx, group, []byte("welcome all")))
	require.NoError(t, alice.Groups.Send(ctx, group, []byte("first order of business")))

	for _, member := range []*app.Wire{bob, carol} {
		msgs, err := member.Groups.Receive(ctx, group, 10)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		require.Equal(t, aliceAddr, msgs[0].From)
		require.Equal(t, []byte("welcome all"), msgs[0].Plaintext)
		require.Equal(t, []byte("first order of business"), msgs[1].Plaintext)
	}

	// Our own group traffic is skipped, not decrypted.
	msgs, err := alice.Groups.Receive(ctx, group, 10)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestEndToEnd_LateInvite(t *testing.T) {
	ts := newRelay(t)
	ctx := context.Background()

	alice := newClient(t, ts, "alice")
	bob := newClient(t, ts, "bob")
	dave := newClient(t, ts, "dave")
	bobAddr := domain.NewAddress("bob", 1)
	daveAddr := domain.NewAddress("dave", 1)

	require.NoError(t, alice.Sessions.InitiateSession(ctx, bobAddr))
	group, err := alice.Groups.CreateGroup(ctx, []domain.ProtocolAddress{bobAddr})
	require.NoError(t, err)

	_, err = bob.Messages.Receive(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, alice.Groups.Send(ctx, group, []byte("before dave")))

	require.NoError(t, alice.Sessions.InitiateSession(ctx, daveAddr))
	require.NoError(t, alice.Groups.Invite(ctx, group, []domain.ProtocolAddress{daveAddr}))
	_, err = dave.Messages.Receive(ctx, 10)
	require.NoError(t, err)

	require.NoError(t, alice.Groups.Send(ctx, group, []byte("after dave")))

	// Bob reads both; dave joined after the first message went out.
	msgs, err := bob.Groups.Receive(ctx, group, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	msgs, err = dave.Groups.Receive(ctx, group, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, []byte("after dave"), msgs[0].Plaintext)
}
