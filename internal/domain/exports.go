package domain

import (
	interfaces "sealwire/internal/domain/interfaces"
	types "sealwire/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	ProtocolAddress              = types.ProtocolAddress
	GroupID                      = types.GroupID
	SenderKeyName                = types.SenderKeyName
	Fingerprint                  = types.Fingerprint
	Direction                    = types.Direction
	IdentityKey                  = types.IdentityKey
	AccountProfile               = types.AccountProfile
	IdentityKeyPair              = types.IdentityKeyPair
	PreKeyRecord                 = types.PreKeyRecord
	SignedPreKeyRecord           = types.SignedPreKeyRecord
	PreKeyBundle                 = types.PreKeyBundle
	OneTimePreKey                = types.OneTimePreKey
	RegistrationBundle           = types.RegistrationBundle
	ChainKey                     = types.ChainKey
	MessageKeys                  = types.MessageKeys
	SenderChain                  = types.SenderChain
	ReceiverChain                = types.ReceiverChain
	SkippedKey                   = types.SkippedKey
	PendingPreKey                = types.PendingPreKey
	SessionState                 = types.SessionState
	SessionRecord                = types.SessionRecord
	SenderChainKey               = types.SenderChainKey
	SenderMessageKey             = types.SenderMessageKey
	SenderKeyState               = types.SenderKeyState
	SenderKeyRecord              = types.SenderKeyRecord
	ServerCertificate            = types.ServerCertificate
	SenderCertificate            = types.SenderCertificate
	CiphertextType               = types.CiphertextType
	SignalMessage                = types.SignalMessage
	PreKeySignalMessage          = types.PreKeySignalMessage
	SenderKeyMessage             = types.SenderKeyMessage
	SenderKeyDistributionMessage = types.SenderKeyDistributionMessage
	UnidentifiedSenderMessage    = types.UnidentifiedSenderMessage
	Envelope                     = types.Envelope
	GroupEnvelope                = types.GroupEnvelope
	DecryptedMessage             = types.DecryptedMessage
	X25519Public                 = types.X25519Public
	X25519Private                = types.X25519Private
	Ed25519Public                = types.Ed25519Public
	Ed25519Private               = types.Ed25519Private
)

// Constant re-exports for the tagged message variants and directions.
const (
	WhisperType               = types.WhisperType
	PreKeyType                = types.PreKeyType
	SenderKeyType             = types.SenderKeyType
	SenderKeyDistributionType = types.SenderKeyDistributionType

	Sending   = types.Sending
	Receiving = types.Receiving
)

// NewAddress builds a ProtocolAddress.
var NewAddress = types.NewAddress

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService = interfaces.IdentityService
	PreKeyService   = interfaces.PreKeyService
	SessionService  = interfaces.SessionService
	MessageService  = interfaces.MessageService
	GroupService    = interfaces.GroupService
	RelayClient     = interfaces.RelayClient

	IdentityStore     = interfaces.IdentityStore
	PreKeyStore       = interfaces.PreKeyStore
	SignedPreKeyStore = interfaces.SignedPreKeyStore
	SessionStore      = interfaces.SessionStore
	SenderKeyStore    = interfaces.SenderKeyStore
)
