package httpclient

import (
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Client defines an interface for making HTTP requests
// This allows for easy mocking and testing of HTTP calls
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the current auth token, if any. The session
// store satisfies this so every request picks up the live credential.
type TokenSource interface {
	Token() (string, bool)
}

// transportClient wraps the standard http.Client and attaches
// credentials on the way out. One implementation serves both the
// bearer-token (mobile-style) and session-cookie (web-style) modes.
type transportClient struct {
	client *http.Client
	tokens TokenSource
}

// NewBearerClient creates a client that authenticates with an
// Authorization: Bearer header read from the token source.
func NewBearerClient(timeout time.Duration, tokens TokenSource) Client {
	return &transportClient{
		client: &http.Client{Timeout: timeout},
		tokens: tokens,
	}
}

// NewCookieClient creates a client that carries the server session
// cookie across requests. A token source may still be supplied as a
// bearer fallback for endpoints that accept either.
func NewCookieClient(timeout time.Duration, tokens TokenSource) (Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &transportClient{
		client: &http.Client{Timeout: timeout, Jar: jar},
		tokens: tokens,
	}, nil
}

// Do executes an HTTP request with credentials attached
func (c *transportClient) Do(req *http.Request) (*http.Response, error) {
	if c.tokens != nil && req.Header.Get("Authorization") == "" {
		if token, ok := c.tokens.Token(); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return c.client.Do(req)
}
