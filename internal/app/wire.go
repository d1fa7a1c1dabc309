package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"sealwire/internal/domain"
	protogroup "sealwire/internal/protocol/group"
	protosession "sealwire/internal/protocol/session"
	"sealwire/internal/relay"
	groupsvc "sealwire/internal/services/group"
	identitysvc "sealwire/internal/services/identity"
	messagesvc "sealwire/internal/services/message"
	prekeysvc "sealwire/internal/services/prekey"
	sessionsvc "sealwire/internal/services/session"
	"sealwire/internal/store"
	"sealwire/internal/wire"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Identities domain.IdentityService
	PreKeys    domain.PreKeyService
	Sessions   domain.SessionService
	Messages   domain.MessageService
	Groups     domain.GroupService
	Relay      domain.RelayClient

	cfg      Config
	accounts *store.FileAccountStore
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// File-based stores
	identityStore := store.NewFileIdentityStore(cfg.Home, cfg.Passphrase)
	preKeyStore := store.NewFilePreKeyStore(cfg.Home)
	signedPreKeyStore := store.NewFileSignedPreKeyStore(cfg.Home)
	sessionStore := store.NewFileSessionStore(cfg.Home)
	senderKeyStore := store.NewFileSenderKeyStore(cfg.Home)
	accountStore := store.NewFileAccountStore(cfg.Home)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var rc domain.RelayClient
	if cfg.RelayURL != "" {
		rc = relay.NewHTTP(cfg.RelayURL, httpClient)
	}

	self := domain.NewAddress(cfg.Name, cfg.DeviceID)
	builder := protosession.NewBuilder(identityStore, sessionStore)
	groupCipher := protogroup.NewCipher(senderKeyStore)

	w := &Wire{cfg: cfg, accounts: accountStore}

	identitySvc := identitysvc.New(identityStore, cfg.Passphrase)
	prekeySvc := prekeysvc.New(identityStore, preKeyStore, signedPreKeyStore, cfg.DeviceID)
	sessionSvc := sessionsvc.New(builder, sessionStore, rc)
	messageSvc := messagesvc.New(
		identityStore, sessionStore, preKeyStore, signedPreKeyStore,
		rc, w.credentials, log,
	)
	groupSvc := groupsvc.New(self, groupCipher, rc, messageSvc, log)
	messageSvc.AttachDistributionHandler(groupSvc)

	w.Identities = identitySvc
	w.PreKeys = prekeySvc
	w.Sessions = sessionSvc
	w.Messages = messageSvc
	w.Groups = groupSvc
	w.Relay = rc
	return w, nil
}

// Register publishes our pre-keys to the relay and persists the issued
// sender certificate and trust root for later sends.
func (w *Wire) Register(ctx context.Context, count int) (domain.SenderCertificate, error) {
	if w.Relay == nil {
		return domain.SenderCertificate{}, messagesvc.ErrNotRegistered
	}

	bundle, err := w.PreKeys.GeneratePreKeys(count)
	if err != nil {
		return domain.SenderCertificate{}, err
	}
	cert, err := w.Relay.Register(ctx, w.cfg.Name, bundle)
	if err != nil {
		return domain.SenderCertificate{}, err
	}
	trustRoot, err := w.Relay.TrustRoot(ctx)
	if err != nil {
		return domain.SenderCertificate{}, err
	}

	profile := domain.AccountProfile{
		Name:              w.cfg.Name,
		DeviceID:          w.cfg.DeviceID,
		RelayURL:          w.cfg.RelayURL,
		SenderCertificate: wire.EncodeSenderCertificate(cert),
		TrustRoot:         trustRoot.Slice(),
	}
	if err := w.accounts.SaveAccountProfile(profile); err != nil {
		return domain.SenderCertificate{}, err
	}
	return cert, nil
}

// credentials loads the sender certificate and trust root saved at
// registration.
func (w *Wire) credentials() (domain.SenderCertificate, domain.Ed25519Public, error) {
	profile, ok, err := w.accounts.LoadAccountProfile(w.cfg.RelayURL, w.cfg.Name)
	if err != nil {
		return domain.SenderCertificate{}, domain.Ed25519Public{}, err
	}
	if !ok || len(profile.SenderCertificate) == 0 {
		return domain.SenderCertificate{}, domain.Ed25519Public{}, messagesvc.ErrNotRegistered
	}
	cert, err := wire.DecodeSenderCertificate(profile.SenderCertificate)
	if err != nil {
		return domain.SenderCertificate{}, domain.Ed25519Public{}, err
	}
	var trustRoot domain.Ed25519Public
	copy(trustRoot[:], profile.TrustRoot)
	return cert, trustRoot, nil
}
