package neptunesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Session is an authenticated connection to the API service. It is created
// by SDKClient.Login (or NewSessionFromToken) and carries the bearer token
// for every request.
type Session struct {
	client *SDKClient
	token  string
	user   UserInfo
}

// Token returns the raw bearer token, e.g. for persisting across restarts.
func (s *Session) Token() string { return s.token }

// User returns the user info captured at login time. It is zero for
// sessions created from a stored token; use Me for the live projection.
func (s *Session) User() UserInfo { return s.user }

// Me fetches the current user from the service.
func (s *Session) Me(ctx context.Context) (*UserInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s.user = out
	return &out, nil
}

// Logout invalidates the session server-side. The token stops working
// immediately; the Session must not be reused afterwards.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err != nil {
		return err
	}

	var out LogoutResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// Settings returns every setting in the user's own namespace.
func (s *Session) Settings(ctx context.Context) (map[string]any, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/user/settings", nil, nil)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSetting upserts one key in the user's own namespace.
func (s *Session) SetSetting(ctx context.Context, key string, value any) (*SetSettingResponse, error) {
	data, err := json.Marshal(SetSettingRequest{Key: key, Value: value})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/user/settings",
		bytes.NewReader(data), map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return nil, err
	}

	var out SetSettingResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
