package store

import (
	"context"
	"errors"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. Settings and UserSettings are deliberately two separate
// repositories over two separate tables; nothing in the store layer may
// merge the legacy and per-user namespaces.
type Store interface {
	Users() Users
	Sessions() Sessions
	Settings() Settings
	UserSettings() UserSettings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id. The projection never includes the
	// password hash.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and includes the password hash.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A username or email collision returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error
}

type Sessions interface {
	// CreateSession stores a new session row for an issued token.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetIdentityByToken resolves a token to its owner. It returns
	// ErrNotFound unless a row exists AND expires_at > now; the expiry
	// comparison happens inside the query so there is no window between
	// check and use.
	GetIdentityByToken(ctx context.Context, token string, now time.Time) (domain.Identity, error)

	// DeleteSession removes a session by token. Deleting a token that has
	// no session is not an error.
	DeleteSession(ctx context.Context, token string) error

	// DeleteExpiredSessions removes rows whose expiry has passed and
	// reports how many were deleted. Housekeeping only; lookup already
	// enforces expiry lazily.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Settings is the legacy global key/value table. It has no owner and is
// visible to all callers of the legacy endpoints regardless of identity.
type Settings interface {
	// GetAll returns every key mapped to its serialized JSON value.
	GetAll(ctx context.Context) (map[string]string, error)

	// Get returns the serialized JSON value for a key.
	Get(ctx context.Context, key string) (string, error)

	// Set upserts a key. Concurrent writers are last-write-wins.
	Set(ctx context.Context, key, value string) error
}

// UserSettings is the per-user key/value table keyed on (user_id, key).
type UserSettings interface {
	// GetAllForUser returns the user's keys mapped to serialized JSON values.
	GetAllForUser(ctx context.Context, userID string) (map[string]string, error)

	// SetForUser upserts a (user_id, key) pair.
	SetForUser(ctx context.Context, userID, key, value string) error
}
