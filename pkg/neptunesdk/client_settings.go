package neptunesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// The legacy settings namespace predates authentication and is served
// without a token. These calls hang off SDKClient rather than Session.

// LegacySettings returns every key in the legacy global namespace.
func (c *SDKClient) LegacySettings(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/settings", nil, nil)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// LegacySetting returns one key from the legacy namespace.
func (c *SDKClient) LegacySetting(ctx context.Context, key string) (*SettingResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/settings/"+key, nil, nil)
	if err != nil {
		return nil, err
	}

	var out SettingResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetLegacySetting upserts a key in the legacy namespace.
func (c *SDKClient) SetLegacySetting(ctx context.Context, key string, value any) (*SetSettingResponse, error) {
	var out SetSettingResponse
	if err := c.postJSON(ctx, "/api/settings", SetSettingRequest{Key: key, Value: value}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLegacySetting upserts a key addressed by path, the PUT form of
// SetLegacySetting.
func (c *SDKClient) UpdateLegacySetting(ctx context.Context, key string, value any) (*SetSettingResponse, error) {
	data, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/api/settings/"+key,
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
