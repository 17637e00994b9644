package api_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	httpapi "github.com/neptuneos/neptuneos/internal/api/http"
	"github.com/neptuneos/neptuneos/internal/api/service"
	"github.com/neptuneos/neptuneos/internal/api/store/drivers/sqlite"
	"github.com/neptuneos/neptuneos/pkg/jwtx"
	"github.com/neptuneos/neptuneos/pkg/neptunesdk"
	"github.com/stretchr/testify/require"
)

/*
 * Common constants and helper functions for API end-to-end tests. The
 * service runs in-process against an in-memory database, so the suite
 * needs no external runtime.
 */

const (
	testIssuer    = "neptune-test"
	testSecret    = "e2e-test-secret"
	adminUsername = "admin"
	adminPassword = "Admin123!"
)

// setupService starts the full HTTP stack in-process and returns an SDK
// client pointed at it. The admin user is bootstrapped so tests can log in
// immediately.
func setupService(t *testing.T) *neptunesdk.SDKClient {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.NewHS256([]byte(testSecret), testIssuer)
	require.NoError(t, err)

	bootstrap := &service.BootstrapService{
		Store:         st,
		Logger:        slog.Default(),
		AdminUsername: adminUsername,
		AdminPassword: adminPassword,
	}
	require.NoError(t, bootstrap.EnsureAdmin(ctx))

	router := httpapi.NewRouter("e2e", st, slog.Default())
	router.AuthService = &service.AuthService{
		Store:  st,
		Tokens: tokens,
		Issuer: testIssuer,
	}
	router.SettingsService = &service.SettingsService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return neptunesdk.NewSDKClient(srv.URL)
}

// registerUser registers a user and asserts success.
func registerUser(t *testing.T, client *neptunesdk.SDKClient, username, password string) {
	t.Helper()

	resp, err := client.Register(context.Background(), neptunesdk.RegisterRequest{
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, username, resp.Username)
}

// assertAPIError checks that err is an APIError with the given status.
func assertAPIError(t *testing.T, err error, wantStatus int) *neptunesdk.APIError {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := err.(*neptunesdk.APIError)
	require.True(t, ok, "expected *neptunesdk.APIError, got %T: %v", err, err)
	require.Equal(t, wantStatus, apiErr.StatusCode)
	return apiErr
}
