package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"sealwire/internal/domain"
)

// HTTPClient talks to a relay server over JSON/HTTP.
type HTTPClient struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the relay at base.
func NewHTTP(base string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{Base: base, HTTP: client}
}

// Register publishes the bundle and returns the issued sender certificate.
func (c *HTTPClient) Register(
	ctx context.Context,
	name string,
	bundle domain.RegistrationBundle,
) (domain.SenderCertificate, error) {
	var out domain.SenderCertificate
	err := c.post(ctx, "/v1/accounts/"+url.PathEscape(name), bundle, &out)
	return out, err
}

// FetchBundle returns a fresh pre-key bundle for the peer.
func (c *HTTPClient) FetchBundle(
	ctx context.Context,
	peer domain.ProtocolAddress,
) (domain.PreKeyBundle, error) {
	var out domain.PreKeyBundle
	path := fmt.Sprintf("/v1/bundles/%s/%d", url.PathEscape(peer.Name), peer.DeviceID)
	err := c.get(ctx, path, &out)
	return out, err
}

// TrustRoot returns the relay's certificate trust root public key.
func (c *HTTPClient) TrustRoot(ctx context.Context) (domain.Ed25519Public, error) {
	var out struct {
		TrustRoot domain.Ed25519Public `json:"trust_root"`
	}
	err := c.get(ctx, "/v1/trustroot", &out)
	return out.TrustRoot, err
}

// SendEnvelope posts a sealed envelope for delivery.
func (c *HTTPClient) SendEnvelope(ctx context.Context, env domain.Envelope) error {
	return c.post(ctx, "/v1/envelopes", env, nil)
}

// FetchEnvelopes returns up to limit queued envelopes for name.
func (c *HTTPClient) FetchEnvelopes(ctx context.Context, name string, limit int) ([]domain.Envelope, error) {
	path := "/v1/envelopes/" + url.PathEscape(name)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var envs []domain.Envelope
	err := c.get(ctx, path, &envs)
	return envs, err
}

// AckEnvelopes drops the first count queued envelopes for name.
func (c *HTTPClient) AckEnvelopes(ctx context.Context, name string, count int) error {
	return c.post(ctx, "/v1/envelopes/"+url.PathEscape(name)+"/ack", ackRequest{Count: count}, nil)
}

// SendGroupEnvelope posts a group envelope to its group feed.
func (c *HTTPClient) SendGroupEnvelope(ctx context.Context, env domain.GroupEnvelope) error {
	return c.post(ctx, "/v1/groups/"+url.PathEscape(env.GroupID.String())+"/envelopes", env, nil)
}

// FetchGroupEnvelopes returns up to limit unread group envelopes for name.
func (c *HTTPClient) FetchGroupEnvelopes(
	ctx context.Context,
	group domain.GroupID,
	name string,
	limit int,
) ([]domain.GroupEnvelope, error) {
	path := fmt.Sprintf("/v1/groups/%s/envelopes/%s",
		url.PathEscape(group.String()), url.PathEscape(name))
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var envs []domain.GroupEnvelope
	err := c.get(ctx, path, &envs)
	return envs, err
}

// AckGroupEnvelopes advances name's read position in the group feed.
func (c *HTTPClient) AckGroupEnvelopes(
	ctx context.Context,
	group domain.GroupID,
	name string,
	count int,
) error {
	path := fmt.Sprintf("/v1/groups/%s/envelopes/%s/ack",
		url.PathEscape(group.String()), url.PathEscape(name))
	return c.post(ctx, path, ackRequest{Count: count}, nil)
}

type ackRequest struct {
	Count int `json:"count"`
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay %s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertion that HTTPClient implements domain.RelayClient.
var _ domain.RelayClient = (*HTTPClient)(nil)
