package group_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sealwire/internal/domain"
	"sealwire/internal/protocol/group"
	"sealwire/internal/store"
	"sealwire/internal/wire"
)

func groupName(sender string) domain.SenderKeyName {
	return domain.SenderKeyName{
		GroupID: "team",
		Sender:  domain.NewAddress(sender, 1),
	}
}

// seedReceiver hands alice's sender key for the group to a receiver cipher.
func seedReceiver(t *testing.T, sender, receiver *group.Cipher, name domain.SenderKeyName) {
	t.Helper()
	dist, err := sender.CreateDistribution(name)
	require.NoError(t, err)
	require.NoError(t, receiver.ProcessDistribution(name, dist))
}

func TestGroup_RoundTrip(t *testing.T) {
	alice := group.NewCipher(store.NewMemorySenderKeyStore())
	bob := group.NewCipher(store.NewMemorySenderKeyStore())
	name := groupName("alice")
	seedReceiver(t, alice, bob, name)

	for i := 0; i < 5; i++ {
		ct, err := alice.Encrypt(name, []byte("group hello"))
		require.NoError(t, err)
		plain, err := bob.Decrypt(name, ct)
		require.NoError(t, err)
		require.Equal(t, []byte("group hello"), plain)
	}
}

func TestGroup_LateJoinerCannotReadOldTraffic(t *testing.T) {
	alice := group.NewCipher(store.NewMemorySenderKeyStore())
	bob := group.NewCipher(store.NewMemorySenderKeyStore())
	name := groupName("alice")

	// Alice speaks before Bob joins.
	early, err := alice.Encrypt(name, []byte("before join"))
	require.NoError(t, err)

	seedReceiver(t, alice, bob, name)

	_, err = bob.Decrypt(name, early)
	require.ErrorIs(t, err, domain.ErrDuplicateMessage)

	// Traffic from the join point on is readable.
	ct, err := alice.Encrypt(name, []byte("after join"))
	require.NoError(t, err)
	plain, err := bob.Decrypt(name, ct)
	require.NoError(t, err)
	require.Equal(t, []byte("after join"), plain)
}

func TestGroup_OutOfOrderAndReplay(t *testing.T) {
	alice := group.NewCipher(store.NewMemorySenderKeyStore())
	bob := group.NewCipher(store.NewMemorySenderKeyStore())
	name := groupName("alice")
	seedReceiver(t, alice, bob, name)

	var msgs [][]byte
	for i := 0; i < 4; i++ {
		ct, err := alice.Encrypt(name, []byte{byte(i)})
		require.NoError(t, err)
		msgs = append(msgs, ct)
	}

	for _, idx := range []int{3, 1, 0, 2} {
		plain, err := bob.Decrypt(name, msgs[idx])
		require.NoError(t, err, "index %d", idx)
		require.Equal(t, []byte{byte(idx)}, plain)
	}

	_, err := bob.Decrypt(name, msgs[1])
	require.ErrorIs(t, err, domain.ErrDuplicateMessage)
}

func TestGroup_TamperedSignatureRejected(t *testing.T) {
	alice := group.NewCipher(store.NewMemorySenderKeyStore())
	bob := group.NewCipher(store.NewMemorySenderKeyStore())
	name := groupName("alice")
	seedReceiver(t, alice, bob, name)

	ct, err := alice.Encrypt(name, []byte("signed"))
	require.NoError(t, err)

	tampered := append([]byte(nil), ct...)
	tampered[len(tampered)-1] ^= 0x01
	_, err = bob.Decrypt(name, tampered)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	// The failed attempt must not advance Bob's chain.
	plain, err := bob.Decrypt(name, ct)
	require.NoError(t, err)
	require.Equal(t, []byte("signed"), plain)
}

func TestGroup_UnknownKeyID(t *testing.T) {
	alice := group.NewCipher(store.NewMemorySenderKeyStore())
	bob := group.NewCipher(store.NewMemorySenderKeyStore())
	mallory := group.NewCipher(store.NewMemorySenderKeyStore())
	name := groupName("alice")
	seedReceiver(t, alice, bob, name)

	// A message on a chain Bob never saw a distribution for.
	ct, err := mallory.Encrypt(name, []byte("stranger"))
	require.NoError(t, err)
	_, err = bob.Decrypt(name, ct)
	require.ErrorIs(t, err, domain.ErrInvalidKeyID)
}

func TestGroup_ReceiverCannotSend(t *testing.T) {
	alice := group.NewCipher(store.NewMemorySenderKeyStore())
	bob := group.NewCipher(store.NewMemorySenderKeyStore())
	name := groupName("alice")
	seedReceiver(t, alice, bob, name)

	// Bob holds only the public half of alice's chain.
	_, err := bob.Encrypt(name, []byte("spoof"))
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGroup_DistributionCarriesChainPosition(t *testing.T) {
	alice := group.NewCipher(store.NewMemorySenderKeyStore())
	name := groupName("alice")

	first, err := alice.CreateDistribution(name)
	require.NoError(t, err)
	require.Equal(t, uint32(0), first.Iteration)

	_, err = alice.Encrypt(name, []byte("advance"))
	require.NoError(t, err)

	second, err := alice.CreateDistribution(name)
	require.NoError(t, err)
	require.Equal(t, first.KeyID, second.KeyID)
	require.Equal(t, uint32(1), second.Iteration)

	// Wire round trip preserves the message.
	decoded, err := wire.DecodeSenderKeyDistribution(wire.EncodeSenderKeyDistribution(second))
	require.NoError(t, err)
	require.Equal(t, second, decoded)
}
