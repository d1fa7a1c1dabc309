package types

// CiphertextType tags the wire message variants. The set is closed;
// every consumption site switches exhaustively over it.
type CiphertextType uint8

const (
	// WhisperType is a SignalMessage on an established session.
	WhisperType CiphertextType = 2
	// PreKeyType is a PreKeySignalMessage carrying the handshake.
	PreKeyType CiphertextType = 3
	// SenderKeyType is a group SenderKeyMessage.
	SenderKeyType CiphertextType = 7
	// SenderKeyDistributionType distributes a sender key chain.
	SenderKeyDistributionType CiphertextType = 8
)

// SignalMessage is one Double Ratchet message: the sender's current
// ratchet key, the chain position, and the MACed ciphertext.
type SignalMessage struct {
	Version         uint8
	RatchetPub      X25519Public
	Counter         uint32
	PreviousCounter uint32
	Ciphertext      []byte

	// Serialized is the full wire encoding including the MAC; kept so
	// the MAC can be verified over exactly the received bytes.
	Serialized []byte
}

// PreKeySignalMessage wraps the first SignalMessages of a session with
// the X3DH parameters the responder needs to derive the same root.
type PreKeySignalMessage struct {
	Version        uint8
	RegistrationID uint32
	PreKeyID       *uint32
	SignedPreKeyID uint32
	BaseKey        X25519Public
	IdentityKey    X25519Public
	Message        SignalMessage

	Serialized []byte
}

// SenderKeyMessage is one group message: chain id, iteration, and the
// ciphertext signed by the sender's distribution signing key.
type SenderKeyMessage struct {
	Version    uint8
	KeyID      uint32
	Iteration  uint32
	Ciphertext []byte
	Signature  []byte

	Serialized []byte
}

// SenderKeyDistributionMessage hands a group recipient everything
// needed to seed a receiving sender-key state.
type SenderKeyDistributionMessage struct {
	Version   uint8
	KeyID     uint32
	Iteration uint32
	ChainSeed [32]byte
	SigPub    Ed25519Public
}

// UnidentifiedSenderMessage is the sealed-sender envelope: an ephemeral
// key and a MACed ciphertext hiding {certificate, type, inner message}.
type UnidentifiedSenderMessage struct {
	Version      uint8
	EphemeralPub X25519Public
	Ciphertext   []byte
	MAC          []byte
}

// Envelope is what the relay carries. The sender is not named; it is
// sealed inside the payload.
type Envelope struct {
	To        string `json:"to"`
	Sealed    []byte `json:"sealed"`
	Timestamp int64  `json:"timestamp"`
}

// DecryptedMessage is a fully opened inbound message.
type DecryptedMessage struct {
	From      ProtocolAddress `json:"from"`
	Plaintext []byte          `json:"plaintext"`
	Timestamp int64           `json:"timestamp"`
}

// GroupEnvelope carries group traffic: either a distribution message
// or a sender-key message for a group.
type GroupEnvelope struct {
	GroupID   GroupID         `json:"group_id"`
	From      ProtocolAddress `json:"from"`
	Type      CiphertextType  `json:"type"`
	Body      []byte          `json:"body"`
	Timestamp int64           `json:"timestamp"`
}
