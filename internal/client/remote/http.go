package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/archepal/archepal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// nowFn is a test seam for session expiry checks.
var nowFn = time.Now

// HTTPClient talks to the managed document store over its REST API.
//
// Requests carry the project API key; when a user session token is set it is
// sent as a bearer token. The token's exp claim is checked locally before
// each authenticated call so a drain against a dead session fails fast
// instead of burning a round trip per queue entry.
type HTTPClient struct {
	baseURL      string
	apiKey       string
	sessionToken string
	http         *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
	}
}

// SetSessionToken installs the JWT obtained from the (out-of-scope) auth
// flow. An empty token reverts to API-key-only requests.
func (c *HTTPClient) SetSessionToken(token string) {
	c.sessionToken = token
}

func (c *HTTPClient) checkSession() error {
	if c.sessionToken == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.sessionToken, claims); err != nil {
		// Not a JWT; let the server be the judge.
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if nowFn().After(exp.Time) {
		return common.ErrTokenExpired
	}
	return nil
}

type createDocumentResponse struct {
	ID string `json:"id"`
}

// CreateDocument POSTs record to the collection and returns the
// remote-assigned document id.
func (c *HTTPClient) CreateDocument(ctx context.Context, collection string, record any, idempotencyKey string) (string, error) {
	if err := c.checkSession(); err != nil {
		return "", err
	}

	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s record: %w", collection, err)
	}

	url := fmt.Sprintf("%s/v1/collections/%s/documents", c.baseURL, collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	if idempotencyKey != "" {
		req.Header.Set(common.IdempotencyKeyHeaderName, idempotencyKey)
	}
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}

	var out createDocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode %s create response: %w", collection, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("create %s document: empty id in response", collection)
	}
	return out.ID, nil
}

// ListDocuments GETs every document in a collection, optionally filtered,
// and decodes the result into out (a pointer to a slice).
func (c *HTTPClient) ListDocuments(ctx context.Context, collection string, filter url.Values, out any) error {
	if err := c.checkSession(); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/v1/collections/%s/documents", c.baseURL, collection)
	if len(filter) > 0 {
		u += "?" + filter.Encode()
	}

	var envelope struct {
		Documents json.RawMessage `json:"documents"`
	}
	if err := c.get(ctx, u, &envelope); err != nil {
		return fmt.Errorf("list %s documents: %w", collection, err)
	}
	if err := json.Unmarshal(envelope.Documents, out); err != nil {
		return fmt.Errorf("decode %s documents: %w", collection, err)
	}
	return nil
}

// GetDocument GETs a single document by id and decodes it into out.
func (c *HTTPClient) GetDocument(ctx context.Context, collection, id string, out any) error {
	if err := c.checkSession(); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/v1/collections/%s/documents/%s", c.baseURL, collection, id)
	if err := c.get(ctx, u, out); err != nil {
		return fmt.Errorf("get %s document %s: %w", collection, id, err)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Ping checks document-store reachability via the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return common.ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", common.ErrUnavailable, resp.Status, string(b))
	}
}
