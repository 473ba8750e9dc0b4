// Package auth implements the handshake that exchanges a display name for
// the bearer token the table connection authenticates with. It is a single
// request/response exchange, performed once before opening the transport.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client fetches auth tokens from the game server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the /auth endpoint on the given host.
func NewClient(host string, secure bool) *Client {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return &Client{
		baseURL: fmt.Sprintf("%s://%s/auth", scheme, host),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchToken exchanges a display name for an opaque bearer token.
func (c *Client) FetchToken(ctx context.Context, userName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-user-name", userName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth request: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		AuthToken string `json:"authToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("auth response: %w", err)
	}
	if body.AuthToken == "" {
		return "", fmt.Errorf("auth response: empty token")
	}
	return body.AuthToken, nil
}
