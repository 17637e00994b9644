package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neptuneos/neptuneos/internal/api/store"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidKey      = errors.New("setting key is required")
)

// SettingsService exposes the two settings namespaces. The legacy methods
// (All/Get/Set) operate on the unowned global table; the *ForUser methods
// operate on the per-user table. The namespaces are never merged and there
// is no fallback from one to the other.
//
// Values are stored as serialized JSON text. A row that fails to decode is
// an internal error, not a missing key.
type SettingsService struct {
	Store store.Store
}

// All returns every legacy setting decoded from its stored JSON.
func (s *SettingsService) All(ctx context.Context) (map[string]any, error) {
	raw, err := s.Store.Settings().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll(raw)
}

// Get returns one legacy setting.
func (s *SettingsService) Get(ctx context.Context, key string) (any, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	raw, err := s.Store.Settings().Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("decode setting %q: %w", key, err)
	}
	return value, nil
}

// Set upserts one legacy setting. The legacy path is reachable without any
// identity; authorization (or the lack of it) is decided at the HTTP layer.
func (s *SettingsService) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return ErrInvalidKey
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}
	return s.Store.Settings().Set(ctx, key, string(raw))
}

// AllForUser returns the authenticated user's settings.
func (s *SettingsService) AllForUser(ctx context.Context, userID string) (map[string]any, error) {
	raw, err := s.Store.UserSettings().GetAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return decodeAll(raw)
}

// SetForUser upserts a (user, key) pair in the per-user namespace.
func (s *SettingsService) SetForUser(ctx context.Context, userID, key string, value any) error {
	if key == "" {
		return ErrInvalidKey
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}
	return s.Store.UserSettings().SetForUser(ctx, userID, key, string(raw))
}

func decodeAll(raw map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for key, text := range raw {
		var value any
		if err := json.Unmarshal([]byte(text), &value); err != nil {
			return nil, fmt.Errorf("decode setting %q: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}
