package http

import (
	"encoding/json"
	"net/http"

	"github.com/neptuneos/neptuneos/internal/api/service"
	"github.com/neptuneos/neptuneos/pkg/httpx"
	"github.com/neptuneos/neptuneos/pkg/slogx"
)

// SettingsHandler serves both settings namespaces. The user endpoints sit
// behind RequireAuth; the legacy endpoints are deliberately open (backward
// compatibility with the pre-auth dashboard) and ignore identity entirely.
type SettingsHandler struct {
	Settings *service.SettingsService
}

type setSettingRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type setValueRequest struct {
	Value json.RawMessage `json:"value"`
}

// decodeValue unwraps the raw JSON into the any-typed value the service
// stores, so null, numbers, arrays, and objects all round-trip exactly.
func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (h *SettingsHandler) HandleUserGetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	settings, err := h.Settings.AllForUser(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Debug("user settings requested", "username", httpx.UsernameFromContext(ctx))
	httpx.WriteJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) HandleUserSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req setSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, err := decodeValue(req.Value)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Settings.SetForUser(ctx, httpx.UserIDFromContext(ctx), req.Key, value); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user setting updated",
		"username", httpx.UsernameFromContext(ctx),
		"key", req.Key,
	)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"key":     req.Key,
		"value":   value,
	})
}

func (h *SettingsHandler) HandleLegacyGetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.All(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) HandleLegacyGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, err := h.Settings.Get(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
}

func (h *SettingsHandler) HandleLegacySet(w http.ResponseWriter, r *http.Request) {
	var req setSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, err := decodeValue(req.Value)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Settings.Set(r.Context(), req.Key, value); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("legacy setting updated", "key", req.Key)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"key":     req.Key,
		"value":   value,
	})
}

func (h *SettingsHandler) HandleLegacyPut(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req setValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, err := decodeValue(req.Value)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Settings.Set(r.Context(), key, value); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("legacy setting updated", "key", key)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"key":     key,
		"value":   value,
	})
}
