package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/domain"
	"github.com/neptuneos/neptuneos/internal/api/store"
	"github.com/neptuneos/neptuneos/pkg/cryptox"
	"github.com/neptuneos/neptuneos/pkg/idx"
	"github.com/neptuneos/neptuneos/pkg/jwtx"
	"github.com/neptuneos/neptuneos/pkg/slogx"
)

var (
	ErrMissingFields = errors.New("username and password are required")

	// ErrInvalidCredentials covers both "no such user" and "wrong password".
	// The two cases must stay indistinguishable to callers so login cannot
	// be used to enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidRole       = errors.New("invalid role")

	// ErrInvalidToken is a bearer token that fails signature or expiry checks.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrSessionInvalid is a well-signed token with no live session row.
	ErrSessionInvalid = errors.New("invalid or expired session")

	ErrUserNotFound = errors.New("user not found")
)

// AuthService orchestrates register/login/logout/me over the user and
// session stores. All dependencies are injected; there is no ambient state.
type AuthService struct {
	Store  store.Store
	Tokens *jwtx.HS256

	// SessionTTL bounds both the token expiry and the session row expiry.
	// Zero means jwtx.DefaultSessionTTL (24h).
	SessionTTL time.Duration

	Issuer string
}

func (s *AuthService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

// Register validates input, hashes the password, and creates the user. The
// username existence check and the insert run in one transaction; a UNIQUE
// violation on insert is treated as the authoritative duplicate signal in
// case two registrations race past the pre-check.
func (s *AuthService) Register(
	ctx context.Context,
	username, email, password, role string,
) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return domain.User{}, ErrMissingFields
	}

	switch role {
	case "":
		role = domain.RoleUser
	case domain.RoleAdmin, domain.RoleUser:
	default:
		return domain.User{}, ErrInvalidRole
	}

	// Hash outside the transaction; bcrypt is slow and must not hold the
	// write lock.
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return ErrDuplicateUsername
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateUsername
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("username", username))

	u.PasswordHash = ""
	return u, nil
}

// Login verifies credentials, signs a session token, and persists a session
// row with the same expiry. Unknown usernames and wrong passwords return the
// identical error.
func (s *AuthService) Login(
	ctx context.Context,
	username, password string,
) (string, domain.User, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return "", domain.User{}, ErrMissingFields
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	ok, err := cryptox.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return "", domain.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	ttl := s.ttl()
	sessionID := idx.New().String()

	claims := jwtx.NewSessionClaims(sessionID, u.ID, u.Username, u.Role, ttl, s.Issuer, now)
	token, err := s.Tokens.Sign(claims)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("login: sign token: %w", err)
	}

	session := domain.Session{
		ID:        sessionID,
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return "", domain.User{}, fmt.Errorf("login: create session: %w", err)
	}

	l.Info("user logged in", slog.String("username", username))

	u.PasswordHash = ""
	return token, u, nil
}

// Logout deletes the session for the given token. It is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Store.Sessions().DeleteSession(ctx, token)
}

// Me returns the user projection for an authenticated id. The projection
// never contains the password hash.
func (s *AuthService) Me(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// Authenticate resolves a bearer token to an identity. The token must carry
// a valid signature and embedded expiry AND map to a live session row; any
// uncertainty rejects the request, never treats it as anonymous.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Tokens.Verify(token)
	if err != nil {
		l.Warn("token verification failed", slog.Any("error", err))
		return domain.Identity{}, ErrInvalidToken
	}
	if err := claims.ValidateExpiry(); err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	ident, err := s.Store.Sessions().GetIdentityByToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrSessionInvalid
		}
		return domain.Identity{}, err
	}

	return ident, nil
}
