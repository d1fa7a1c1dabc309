package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sealwire/internal/crypto"
	"sealwire/internal/domain"
	"sealwire/internal/protocol/sealed"
)

// certificateTTL is how long issued sender certificates stay valid.
const certificateTTL = 7 * 24 * time.Hour

// Server is an in-memory relay. It issues sender certificates under a
// trust root generated at startup, serves pre-key bundles (consuming
// one one-time pre-key per fetch), and queues envelopes per recipient
// and per group feed. All state is lost on process exit.
type Server struct {
	log *zap.Logger

	trustRootPub  domain.Ed25519Public
	trustRootPriv domain.Ed25519Private
	serverCert    domain.ServerCertificate
	serverPriv    domain.Ed25519Private

	mu            sync.Mutex
	registrations map[string]*domain.RegistrationBundle
	mailboxes     map[string][]domain.Envelope
	groupFeeds    map[domain.GroupID][]domain.GroupEnvelope
	groupOffsets  map[string]int
}

// NewServer generates the trust root and server certificate and
// returns a ready relay.
func NewServer(log *zap.Logger) (*Server, error) {
	trustPriv, trustPub, err := crypto.GenerateEd25519()
	if err != nil {
		return nil, err
	}
	serverPriv, serverPub, err := crypto.GenerateEd25519()
	if err != nil {
		return nil, err
	}

	return &Server{
		log:           log,
		trustRootPub:  trustPub,
		trustRootPriv: trustPriv,
		serverCert:    sealed.SignServerCertificate(1, serverPub, trustPriv),
		serverPriv:    serverPriv,
		registrations: make(map[string]*domain.RegistrationBundle),
		mailboxes:     make(map[string][]domain.Envelope),
		groupFeeds:    make(map[domain.GroupID][]domain.GroupEnvelope),
		groupOffsets:  make(map[string]int),
	}, nil
}

// TrustRoot returns the public trust root for certificate validation.
func (s *Server) TrustRoot() domain.Ed25519Public { return s.trustRootPub }

// Router returns the HTTP routes served by the relay.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/trustroot", s.handleTrustRoot).Methods(http.MethodGet)
	r.HandleFunc("/v1/accounts/{name}", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/v1/bundles/{name}/{device}", s.handleFetchBundle).Methods(http.MethodGet)
	r.HandleFunc("/v1/envelopes", s.handleSendEnvelope).Methods(http.MethodPost)
	r.HandleFunc("/v1/envelopes/{name}", s.handleFetchEnvelopes).Methods(http.MethodGet)
	r.HandleFunc("/v1/envelopes/{name}/ack", s.handleAckEnvelopes).Methods(http.MethodPost)
	r.HandleFunc("/v1/groups/{group}/envelopes", s.handleSendGroupEnvelope).Methods(http.MethodPost)
	r.HandleFunc("/v1/groups/{group}/envelopes/{name}", s.handleFetchGroupEnvelopes).Methods(http.MethodGet)
	r.HandleFunc("/v1/groups/{group}/envelopes/{name}/ack", s.handleAckGroupEnvelopes).Methods(http.MethodPost)
	return r
}

func (s *Server) handleTrustRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, struct {
		TrustRoot domain.Ed25519Public `json:"trust_root"`
	}{TrustRoot: s.trustRootPub})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var bundle domain.RegistrationBundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cert := sealed.SignSenderCertificate(
		domain.NewAddress(name, bundle.DeviceID),
		bundle.IdentityKey.DH,
		uint64(time.Now().Add(certificateTTL).Unix()),
		s.serverCert,
		s.serverPriv,
	)

	s.mu.Lock()
	s.registrations[name] = &bundle
	s.mu.Unlock()

	s.log.Info("registered account",
		zap.String("name", name),
		zap.Int("one_time_pre_keys", len(bundle.OneTimePreKeys)),
	)
	writeJSON(w, cert)
}

func (s *Server) handleFetchBundle(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[name]
	if !ok {
		http.Error(w, "unknown account", http.StatusNotFound)
		return
	}

	out := domain.PreKeyBundle{
		RegistrationID:        reg.RegistrationID,
		DeviceID:              reg.DeviceID,
		IdentityKey:           reg.IdentityKey,
		SignedPreKeyID:        reg.SignedPreKeyID,
		SignedPreKey:          reg.SignedPreKey,
		SignedPreKeySignature: reg.SignedPreKeySignature,
	}
	// Hand out one one-time pre-key per fetch until the batch runs dry.
	if len(reg.OneTimePreKeys) > 0 {
		opk := reg.OneTimePreKeys[0]
		reg.OneTimePreKeys = reg.OneTimePreKeys[1:]
		out.PreKeyID = &opk.ID
		out.PreKey = &opk.Pub
	}
	writeJSON(w, out)
}

func (s *Server) handleSendEnvelope(w http.ResponseWriter, r *http.Request) {
	var env domain.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if env.Timestamp == 0 {
		env.Timestamp = time.Now().Unix()
	}

	s.mu.Lock()
	s.mailboxes[env.To] = append(s.mailboxes[env.To], env)
	queued := len(s.mailboxes[env.To])
	s.mu.Unlock()

	s.log.Debug("queued envelope", zap.String("to", env.To), zap.Int("queued", queued))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetchEnvelopes(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	limit := queryLimit(r)

	s.mu.Lock()
	queue := s.mailboxes[name]
	if limit > 0 && limit < len(queue) {
		queue = queue[:limit]
	}
	out := append([]domain.Envelope(nil), queue...)
	s.mu.Unlock()

	writeJSON(w, out)
}

func (s *Server) handleAckEnvelopes(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var ack ackRequest
	if err := json.NewDecoder(r.Body).Decode(&ack); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	queue := s.mailboxes[name]
	if ack.Count >= len(queue) {
		delete(s.mailboxes, name)
	} else if ack.Count > 0 {
		s.mailboxes[name] = queue[ack.Count:]
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendGroupEnvelope(w http.ResponseWriter, r *http.Request) {
	group := domain.GroupID(mux.Vars(r)["group"])
	var env domain.GroupEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	env.GroupID = group
	if env.Timestamp == 0 {
		env.Timestamp = time.Now().Unix()
	}

	s.mu.Lock()
	s.groupFeeds[group] = append(s.groupFeeds[group], env)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFetchGroupEnvelopes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group := domain.GroupID(vars["group"])
	name := vars["name"]
	limit := queryLimit(r)

	s.mu.Lock()
	feed := s.groupFeeds[group]
	offset := s.groupOffsets[groupReaderKey(group, name)]
	var unread []domain.GroupEnvelope
	if offset < len(feed) {
		unread = feed[offset:]
	}
	if limit > 0 && limit < len(unread) {
		unread = unread[:limit]
	}
	out := append([]domain.GroupEnvelope(nil), unread...)
	s.mu.Unlock()

	writeJSON(w, out)
}

func (s *Server) handleAckGroupEnvelopes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group := domain.GroupID(vars["group"])
	name := vars["name"]
	var ack ackRequest
	if err := json.NewDecoder(r.Body).Decode(&ack); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	key := groupReaderKey(group, name)
	offset := s.groupOffsets[key] + ack.Count
	if max := len(s.groupFeeds[group]); offset > max {
		offset = max
	}
	s.groupOffsets[key] = offset
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func groupReaderKey(group domain.GroupID, name string) string {
	return fmt.Sprintf("%s|%s", group, name)
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
