package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neptuneos/neptuneos/internal/api/domain"
	"github.com/neptuneos/neptuneos/internal/api/store"
	"github.com/neptuneos/neptuneos/pkg/cryptox"
	"github.com/neptuneos/neptuneos/pkg/idx"
)

// BootstrapService performs the first-run admin bootstrap: if no user with
// the admin username exists, one is created with the admin role. This is a
// first-run convenience, not a steady-state behavior.
//
// The admin password is never a fixed literal. It comes from configuration;
// when none is provided a random one is generated and logged exactly once,
// and the operator is expected to change it.
type BootstrapService struct {
	Store  store.Store
	Logger *slog.Logger

	AdminUsername string
	AdminPassword string // optional; generated when empty
}

// EnsureAdmin creates the admin user if it does not exist. Safe to call on
// every startup.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) error {
	_, err := s.Store.Users().GetUserByUsername(ctx, s.AdminUsername)
	if err == nil {
		return nil // already bootstrapped
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("bootstrap: lookup admin: %w", err)
	}

	password := s.AdminPassword
	generated := false
	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return fmt.Errorf("bootstrap: generate admin password: %w", err)
		}
		generated = true
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("bootstrap: hash admin password: %w", err)
	}

	err = s.Store.Users().CreateUser(ctx, domain.User{
		ID:           idx.New().String(),
		Username:     s.AdminUsername,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		// Another instance may have bootstrapped concurrently.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("bootstrap: create admin: %w", err)
	}

	if generated {
		s.Logger.Warn("admin user created with generated password, change it after first login",
			slog.String("username", s.AdminUsername),
			slog.String("password", password),
		)
	} else {
		s.Logger.Info("admin user created", slog.String("username", s.AdminUsername))
	}

	return nil
}
