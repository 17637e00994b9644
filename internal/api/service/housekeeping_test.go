package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/domain"
	"github.com/neptuneos/neptuneos/internal/api/store/drivers/sqlite"
	"github.com/neptuneos/neptuneos/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweepsExpiredSessions(t *testing.T) {
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	u := domain.User{ID: idx.New().String(), Username: "alice", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	now := time.Now().UTC()
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID: idx.New().String(), UserID: u.ID, Token: "expired", ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID: idx.New().String(), UserID: u.ID, Token: "live", ExpiresAt: now.Add(time.Hour),
	}))

	svc := NewHousekeepingService(st, slog.Default(), time.Hour)

	// The worker runs one cleanup before entering its tick loop, and Stop
	// waits for the worker to exit, so this is deterministic.
	svc.Start()
	svc.Stop()

	_, err = st.Sessions().GetIdentityByToken(ctx, "live", now)
	require.NoError(t, err)

	remaining, err := st.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 0, remaining)
}

func TestHousekeepingDefaultInterval(t *testing.T) {
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := NewHousekeepingService(st, slog.Default(), 0)
	require.Equal(t, time.Hour, svc.Interval)
}
