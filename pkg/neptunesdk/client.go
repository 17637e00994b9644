package neptunesdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the NeptuneOS API service. It provides the
// unauthenticated operations and creates authenticated Sessions via Login.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new API client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new user account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns a Session holding the issued token.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	body := map[string]string{"username": username, "password": password}

	var out LoginResponse
	if err := c.postJSON(ctx, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}

	return &Session{client: c, token: out.Token, user: out.User}, nil
}

// NewSessionFromToken wraps an existing token in a Session, e.g. one stored
// from a previous login. The user field is only populated after Me.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Livez checks that the service process is up.
func (c *SDKClient) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz checks that the service can reach its database.
func (c *SDKClient) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
