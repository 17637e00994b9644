package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/domain"
	"github.com/neptuneos/neptuneos/internal/api/store"
	"github.com/neptuneos/neptuneos/internal/api/store/drivers/sqlite"
	"github.com/neptuneos/neptuneos/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestUser(username string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "$2a$10$fakehashfakehashfakehashfakehashfakehashfakehashfake",
		Role:         domain.RoleUser,
	}
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	t.Run("create and fetch by username includes hash", func(t *testing.T) {
		u := newTestUser("alice")
		u.Email = "alice@example.com"
		require.NoError(t, st.Users().CreateUser(ctx, u))

		got, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, u.PasswordHash, got.PasswordHash)
		require.Equal(t, "alice@example.com", got.Email)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("fetch by id omits hash", func(t *testing.T) {
		u := newTestUser("bob")
		require.NoError(t, st.Users().CreateUser(ctx, u))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "bob", got.Username)
		require.Empty(t, got.PasswordHash)
		require.Empty(t, got.Email) // absent email reads back as ""
	})

	t.Run("duplicate username returns ErrAlreadyExists", func(t *testing.T) {
		require.NoError(t, st.Users().CreateUser(ctx, newTestUser("carol")))

		err := st.Users().CreateUser(ctx, newTestUser("carol"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown lookups return ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSessionsRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser("alice")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	now := time.Now().UTC()

	t.Run("token resolves to identity while unexpired", func(t *testing.T) {
		s := domain.Session{
			ID:        idx.New().String(),
			UserID:    u.ID,
			Token:     "token-live",
			ExpiresAt: now.Add(time.Hour),
		}
		require.NoError(t, st.Sessions().CreateSession(ctx, s))

		ident, err := st.Sessions().GetIdentityByToken(ctx, "token-live", now)
		require.NoError(t, err)
		require.Equal(t, u.ID, ident.UserID)
		require.Equal(t, "alice", ident.Username)
		require.Equal(t, domain.RoleUser, ident.Role)
	})

	t.Run("expiry boundary rejects at and after the deadline", func(t *testing.T) {
		deadline := now.Add(time.Minute)
		s := domain.Session{
			ID:        idx.New().String(),
			UserID:    u.ID,
			Token:     "token-boundary",
			ExpiresAt: deadline,
		}
		require.NoError(t, st.Sessions().CreateSession(ctx, s))

		_, err := st.Sessions().GetIdentityByToken(ctx, "token-boundary", deadline.Add(-time.Second))
		require.NoError(t, err)

		// expires_at > now must be strict: exactly-at-deadline is expired.
		_, err = st.Sessions().GetIdentityByToken(ctx, "token-boundary", deadline)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Sessions().GetIdentityByToken(ctx, "token-boundary", deadline.Add(time.Second))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := domain.Session{
			ID:        idx.New().String(),
			UserID:    u.ID,
			Token:     "token-delete",
			ExpiresAt: now.Add(time.Hour),
		}
		require.NoError(t, st.Sessions().CreateSession(ctx, s))

		require.NoError(t, st.Sessions().DeleteSession(ctx, "token-delete"))
		_, err := st.Sessions().GetIdentityByToken(ctx, "token-delete", now)
		require.ErrorIs(t, err, store.ErrNotFound)

		// Deleting again, or deleting a token that never existed, is fine.
		require.NoError(t, st.Sessions().DeleteSession(ctx, "token-delete"))
		require.NoError(t, st.Sessions().DeleteSession(ctx, "never-existed"))
	})

	t.Run("expired sweep reports count and keeps live rows", func(t *testing.T) {
		st := newTestStore(t)
		u := newTestUser("sweep")
		require.NoError(t, st.Users().CreateUser(ctx, u))

		for i, exp := range []time.Time{
			now.Add(-2 * time.Hour),
			now.Add(-time.Minute),
			now.Add(time.Hour),
		} {
			require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
				ID:        idx.New().String(),
				UserID:    u.ID,
				Token:     "sweep-" + string(rune('a'+i)),
				ExpiresAt: exp,
			}))
		}

		deleted, err := st.Sessions().DeleteExpiredSessions(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 2, deleted)

		_, err = st.Sessions().GetIdentityByToken(ctx, "sweep-c", now)
		require.NoError(t, err)

		deleted, err = st.Sessions().DeleteExpiredSessions(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 0, deleted)
	})
}

func TestSettingsRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	t.Run("set and get roundtrip", func(t *testing.T) {
		require.NoError(t, st.Settings().Set(ctx, "temperatureUnit", `"celsius"`))

		got, err := st.Settings().Get(ctx, "temperatureUnit")
		require.NoError(t, err)
		require.Equal(t, `"celsius"`, got)
	})

	t.Run("set overwrites existing key", func(t *testing.T) {
		require.NoError(t, st.Settings().Set(ctx, "alertThreshold", `26.5`))
		require.NoError(t, st.Settings().Set(ctx, "alertThreshold", `28`))

		got, err := st.Settings().Get(ctx, "alertThreshold")
		require.NoError(t, err)
		require.Equal(t, `28`, got)
	})

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := st.Settings().Get(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("get all returns every key", func(t *testing.T) {
		all, err := st.Settings().GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, `"celsius"`, all["temperatureUnit"])
		require.Equal(t, `28`, all["alertThreshold"])
	})
}

func TestUserSettingsRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	alice := newTestUser("alice")
	bob := newTestUser("bob")
	require.NoError(t, st.Users().CreateUser(ctx, alice))
	require.NoError(t, st.Users().CreateUser(ctx, bob))

	t.Run("users do not see each other's settings", func(t *testing.T) {
		require.NoError(t, st.UserSettings().SetForUser(ctx, alice.ID, "theme", `"dark"`))
		require.NoError(t, st.UserSettings().SetForUser(ctx, bob.ID, "theme", `"light"`))

		got, err := st.UserSettings().GetAllForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"theme": `"dark"`}, got)

		got, err = st.UserSettings().GetAllForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"theme": `"light"`}, got)
	})

	t.Run("per-user namespace is separate from the legacy table", func(t *testing.T) {
		require.NoError(t, st.Settings().Set(ctx, "theme", `"global"`))

		got, err := st.UserSettings().GetAllForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, `"dark"`, got["theme"])
	})

	t.Run("upsert overwrites per user", func(t *testing.T) {
		require.NoError(t, st.UserSettings().SetForUser(ctx, alice.ID, "theme", `"solarized"`))

		got, err := st.UserSettings().GetAllForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, `"solarized"`, got["theme"])
	})

	t.Run("empty namespace is an empty map", func(t *testing.T) {
		st := newTestStore(t)
		u := newTestUser("empty")
		require.NoError(t, st.Users().CreateUser(ctx, u))

		got, err := st.UserSettings().GetAllForUser(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	errAbort := errors.New("abort")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, newTestUser("rollback")); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	_, err = st.Users().GetUserByUsername(ctx, "rollback")
	require.ErrorIs(t, err, store.ErrNotFound)
}
