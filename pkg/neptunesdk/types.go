package neptunesdk

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Success  bool   `json:"success"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// UserInfo is the public projection of a user. It never includes the
// password hash.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

// LogoutResponse is returned on successful logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// SetSettingRequest upserts one setting key.
type SetSettingRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SetSettingResponse echoes the stored key and value.
type SetSettingResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
	Value   any    `json:"value"`
}

// SettingResponse is one key/value pair from the legacy namespace.
type SettingResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
