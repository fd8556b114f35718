// Package gateway performs the authenticated JSON calls against the Vision One API.
//
// Every failure (network, non-2xx status, undecodable body) comes back as a
// *FetchError and is logged to the diagnostic logger. Nothing here panics or
// retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrNullBody is carried by a FetchError when a 2xx response holds JSON null
var ErrNullBody = errors.New("response body is null")

// Requester is the contract the alert services depend on
type Requester interface {
	Get(ctx context.Context, url string) (json.RawMessage, error)
	Post(ctx context.Context, url string, body interface{}) (json.RawMessage, error)
}

// FetchError describes why a call produced no result.
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s %s: HTTP error! status: %d, %s", e.Method, e.URL, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s %s: HTTP error! status: %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}

// Client is the request gateway
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a gateway that attaches the bearer token to every request.
// base may be nil, in which case http.DefaultTransport is used.
func New(token string, base http.RoundTripper, logger *zap.Logger) *Client {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
				Base:   base,
			},
		},
		logger: logger,
	}
}

// Get issues a GET and returns the decoded JSON body.
func (c *Client) Get(ctx context.Context, url string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post sends body as JSON. A 204 response yields an empty object.
func (c *Client) Post(ctx context.Context, url string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, c.fail(&FetchError{Method: http.MethodPost, URL: url, Err: fmt.Errorf("failed to marshal body: %w", err)})
	}
	return c.do(ctx, http.MethodPost, url, payload)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, c.fail(&FetchError{Method: method, URL: url, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(&FetchError{Method: method, URL: url, Err: fmt.Errorf("failed to send request: %w", err)})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&FetchError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(&FetchError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(data),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		})
	}

	if method == http.MethodPost && resp.StatusCode == http.StatusNoContent {
		return json.RawMessage("{}"), nil
	}

	if !json.Valid(data) {
		return nil, c.fail(&FetchError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: errors.New("failed to parse response: invalid JSON")})
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, c.fail(&FetchError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: ErrNullBody})
	}
	return json.RawMessage(data), nil
}

func (c *Client) fail(err *FetchError) error {
	c.logger.Error("Vision One request failed",
		zap.String("method", err.Method),
		zap.String("url", err.URL),
		zap.Int("status", err.StatusCode),
		zap.Error(err))
	return err
}

// GetInto fetches url and decodes the body into a new T.
func GetInto[T any](ctx context.Context, r Requester, url string) (*T, error) {
	raw, err := r.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &FetchError{Method: http.MethodGet, URL: url, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return &v, nil
}
