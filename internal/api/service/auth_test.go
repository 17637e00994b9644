package service

import (
	"context"
	"testing"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/domain"
	"github.com/neptuneos/neptuneos/internal/api/store/drivers/sqlite"
	"github.com/neptuneos/neptuneos/pkg/idx"
	"github.com/neptuneos/neptuneos/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "neptune-test"

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.NewHS256([]byte("test-secret"), testIssuer)
	require.NoError(t, err)

	return &AuthService{
		Store:  st,
		Tokens: tokens,
		Issuer: testIssuer,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	t.Run("creates user with default role", func(t *testing.T) {
		u, err := svc.Register(ctx, "alice", "alice@example.com", "password1", "")
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Equal(t, "alice", u.Username)
		require.Equal(t, domain.RoleUser, u.Role)
		require.Empty(t, u.PasswordHash)
	})

	t.Run("missing username or password rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "", "password1", "")
		require.ErrorIs(t, err, ErrMissingFields)

		_, err = svc.Register(ctx, "bob", "", "", "")
		require.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob", "", "password1", "superuser")
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("duplicate username rejected regardless of other fields", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "other@example.com", "different-password", "admin")
		require.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("admin role accepted", func(t *testing.T) {
		u, err := svc.Register(ctx, "root", "", "password1", domain.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.Role)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password1", "")
	require.NoError(t, err)

	t.Run("valid credentials return token and user", func(t *testing.T) {
		token, u, err := svc.Login(ctx, "alice", "password1")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, "alice", u.Username)
		require.Empty(t, u.PasswordHash)

		claims, err := svc.Tokens.Verify(token)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.UserID)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, domain.RoleUser, claims.Role)
		require.Equal(t, testIssuer, claims.Issuer)
		require.WithinDuration(t,
			time.Now().Add(jwtx.DefaultSessionTTL),
			claims.ExpiresAt.Time,
			time.Minute,
		)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, _, errWrongPassword := svc.Login(ctx, "alice", "nope")
		_, _, errUnknownUser := svc.Login(ctx, "mallory", "nope")

		require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
		require.Equal(t, errWrongPassword, errUnknownUser)
	})

	t.Run("missing fields rejected before any lookup", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "")
		require.ErrorIs(t, err, ErrMissingFields)
	})
}

// A user may hold several sessions at once, and logins can land within the
// same second. The jti claim keeps the signed tokens distinct even though
// iat/exp only carry second precision, so the second session row never
// collides with the first.
func TestLoginConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.Register(ctx, "alice", "", "password1", "")
	require.NoError(t, err)

	first, _, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	second, _, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Both sessions are live at the same time.
	_, err = svc.Authenticate(ctx, first)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, second)
	require.NoError(t, err)

	// Ending one session leaves the other untouched.
	require.NoError(t, svc.Logout(ctx, first))

	_, err = svc.Authenticate(ctx, first)
	require.ErrorIs(t, err, ErrSessionInvalid)
	_, err = svc.Authenticate(ctx, second)
	require.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, err := svc.Register(ctx, "alice", "", "password1", "")
	require.NoError(t, err)

	token, u, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	t.Run("live session resolves identity", func(t *testing.T) {
		ident, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, u.ID, ident.UserID)
		require.Equal(t, "alice", ident.Username)
		require.Equal(t, domain.RoleUser, ident.Role)
	})

	t.Run("garbage token fails signature check", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("well-signed token without a session row is rejected", func(t *testing.T) {
		claims := jwtx.NewSessionClaims(idx.New().String(), u.ID, "alice",
			domain.RoleUser, time.Hour, testIssuer, time.Now().UTC())
		orphan, err := svc.Tokens.Sign(claims)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, orphan)
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, token))

		_, err := svc.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrSessionInvalid)

		// Logout again is a no-op, not an error.
		require.NoError(t, svc.Logout(ctx, token))
	})
}

func TestAuthenticateExpiredSession(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	// Token expiry serializes at second precision, so the shortest reliable
	// TTL for this test is one second.
	svc.SessionTTL = time.Second

	_, err := svc.Register(ctx, "alice", "", "password1", "")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	time.Sleep(2100 * time.Millisecond)

	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	reg, err := svc.Register(ctx, "alice", "alice@example.com", "password1", "")
	require.NoError(t, err)

	t.Run("returns projection without hash", func(t *testing.T) {
		u, err := svc.Me(ctx, reg.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
		require.Equal(t, "alice@example.com", u.Email)
		require.Empty(t, u.PasswordHash)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Me(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
