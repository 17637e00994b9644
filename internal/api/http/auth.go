package http

import (
	"encoding/json"
	"net/http"

	"github.com/neptuneos/neptuneos/internal/api/domain"
	"github.com/neptuneos/neptuneos/internal/api/service"
	"github.com/neptuneos/neptuneos/pkg/httpx"
	"github.com/neptuneos/neptuneos/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"userId":   u.ID,
		"username": u.Username,
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, u, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    toUserResponse(u),
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// RequireAuth already validated the token; re-extract it for deletion.
	token := bearerToken(r)
	if err := h.AuthService.Logout(ctx, token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user logged out", "username", httpx.UsernameFromContext(ctx))
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.AuthService.Me(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
