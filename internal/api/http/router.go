package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/service"
	"github.com/neptuneos/neptuneos/internal/api/store"
	"github.com/neptuneos/neptuneos/pkg/httpx"
	"github.com/neptuneos/neptuneos/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService     *service.AuthService
	SettingsService *service.SettingsService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSettings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}
	secured := RequireAuth(r.AuthService)

	r.Mux.Handle("POST /api/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /api/auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /api/auth/logout", httpx.Chain(http.HandlerFunc(h.HandleLogout), secured))
	r.Mux.Handle("GET /api/auth/me", httpx.Chain(http.HandlerFunc(h.HandleMe), secured))
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{Settings: r.SettingsService}
	secured := RequireAuth(r.AuthService)

	r.Mux.Handle("GET /api/user/settings", httpx.Chain(http.HandlerFunc(h.HandleUserGetAll), secured))
	r.Mux.Handle("POST /api/user/settings", httpx.Chain(http.HandlerFunc(h.HandleUserSet), secured))

	// The legacy endpoints carry no authentication, matching the original
	// single-user deployment. The app logs this policy gap at startup
	// rather than silently closing it.
	r.Mux.Handle("GET /api/settings", http.HandlerFunc(h.HandleLegacyGetAll))
	r.Mux.Handle("POST /api/settings", http.HandlerFunc(h.HandleLegacySet))
	r.Mux.Handle("GET /api/settings/{key}", http.HandlerFunc(h.HandleLegacyGet))
	r.Mux.Handle("PUT /api/settings/{key}", http.HandlerFunc(h.HandleLegacyPut))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
