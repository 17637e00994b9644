package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/domain"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, mapStringNull(u.Email), u.PasswordHash, u.Role, now, now,
	)
	return mapConstraint(err)
}

// GetUserByID intentionally omits password_hash from the projection; id
// lookups feed read paths that must never see the credential.
func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, role, created_at, updated_at
		FROM users WHERE id = ?`, id)

	var u domain.User
	var email sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Email = mapNullString(email)
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users WHERE username = ?`, username)

	var u domain.User
	var email sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Email = mapNullString(email)
	return u, nil
}
