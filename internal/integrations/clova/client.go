// Package clova is a focused client for the NAVER CLOVA Chatbot custom API.
// Every call is a single signed POST of one envelope; there are no retries
// and no state beyond the once-resolved credentials.
package clova

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"chatbot-relay/internal/domain"
	"chatbot-relay/internal/signer"
)

// SignatureHeader carries the base64 HMAC-SHA256 digest of the request body.
const SignatureHeader = "X-NCP-CHATBOT_SIGNATURE"

const contentTypeJSONUTF8 = "application/json; charset=UTF-8"

var (
	// ErrNotConfigured means the invoke URL or secret key is missing. It is
	// detected before any network activity.
	ErrNotConfigured = errors.New("clova: invoke URL and secret key are not configured")

	// ErrUnreachable wraps network-level failures (timeout, DNS, refused).
	ErrUnreachable = errors.New("clova: upstream unreachable")
)

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("clova: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Credentials are the two values the upstream requires: the chatbot's invoke
// URL and the shared signing secret. The secret must never be logged.
type Credentials struct {
	InvokeURL string
	SecretKey string
}

// CredentialsSource yields the upstream credentials. Static serves values
// taken from the environment; ParamSource fetches them from SSM.
type CredentialsSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Static is a CredentialsSource over fixed values. Empty values are allowed
// here; the client reports ErrNotConfigured on first use instead, so a
// misconfigured relay still starts and serves its health endpoints.
type Static Credentials

func (s Static) Credentials(context.Context) (Credentials, error) {
	return Credentials(s), nil
}

// Client posts signed envelopes to the chatbot invoke URL.
type Client struct {
	source     CredentialsSource
	httpClient *http.Client

	credsOnce sync.Once
	creds     Credentials
	credsErr  error
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client backed by the given credentials source. The
// credentials are resolved on the first Send and reused for the lifetime of
// the process.
func NewClient(source CredentialsSource, opts ...Option) (*Client, error) {
	if source == nil {
		return nil, errors.New("clova: credentials source must not be nil")
	}
	c := &Client{
		source:     source,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolveCredentials fetches the credentials once and caches the result,
// error included, for every subsequent call within the same process.
func (c *Client) resolveCredentials(ctx context.Context) (Credentials, error) {
	c.credsOnce.Do(func() {
		c.creds, c.credsErr = c.source.Credentials(ctx)
		if c.credsErr != nil {
			return
		}
		if strings.TrimSpace(c.creds.InvokeURL) == "" || strings.TrimSpace(c.creds.SecretKey) == "" {
			c.credsErr = ErrNotConfigured
		}
	})
	return c.creds, c.credsErr
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// Send marshals the envelope once, signs the resulting bytes, and POSTs them
// verbatim to the invoke URL. One attempt per call; the caller decides what
// a failure means.
func (c *Client) Send(ctx context.Context, env domain.Envelope) (domain.ChatbotResponse, error) {
	creds, err := c.resolveCredentials(ctx)
	if err != nil {
		return domain.ChatbotResponse{}, err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return domain.ChatbotResponse{}, fmt.Errorf("clova: marshal envelope: %w", err)
	}

	sig, err := signer.Sign(creds.SecretKey, body)
	if err != nil {
		return domain.ChatbotResponse{}, fmt.Errorf("clova: sign envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.InvokeURL, bytes.NewReader(body))
	if err != nil {
		return domain.ChatbotResponse{}, fmt.Errorf("clova: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSONUTF8)
	req.Header.Set(SignatureHeader, sig)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return domain.ChatbotResponse{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return domain.ChatbotResponse{}, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        creds.InvokeURL,
			Body:       string(buf),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return domain.ChatbotResponse{}, fmt.Errorf("clova: read response body: %w", err)
	}
	var payload domain.ChatbotResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.ChatbotResponse{}, fmt.Errorf("clova: decode response: %w", err)
	}
	return payload, nil
}
