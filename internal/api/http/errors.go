package http

import (
	"errors"
	"net/http"

	"github.com/neptuneos/neptuneos/internal/api/service"
	"github.com/neptuneos/neptuneos/pkg/httpx"
	"github.com/neptuneos/neptuneos/pkg/slogx"
)

// writeServiceError is the single place service errors become HTTP statuses.
// The wire messages match what the dashboard frontend already handles.
// Anything unmapped is a storage or hashing failure: logged server-side,
// echoed to the client only as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		httpx.WriteError(w, http.StatusBadRequest, "Username and password are required")
	case errors.Is(err, service.ErrInvalidRole):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid role")
	case errors.Is(err, service.ErrInvalidKey):
		httpx.WriteError(w, http.StatusBadRequest, "Setting key is required")
	case errors.Is(err, service.ErrDuplicateUsername):
		httpx.WriteError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusForbidden, "Invalid or expired token")
	case errors.Is(err, service.ErrSessionInvalid):
		httpx.WriteError(w, http.StatusForbidden, "Invalid or expired session")
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrSettingNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Setting not found")
	default:
		slogx.FromContext(r.Context()).Error("internal error", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
