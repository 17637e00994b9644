package sqlite

import (
	"context"
	"time"

	"github.com/neptuneos/neptuneos/internal/api/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Token, s.ExpiresAt.UTC(), time.Now().UTC(),
	)
	return mapConstraint(err)
}

// GetIdentityByToken joins the owning user and filters on expiry inside the
// query, so a session can never pass the existence check and then expire
// before use.
func (r *sessionsRepo) GetIdentityByToken(
	ctx context.Context,
	token string,
	now time.Time,
) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?`,
		token, now.UTC(),
	)

	var ident domain.Identity
	if err := row.Scan(&ident.UserID, &ident.Username, &ident.Role); err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return ident, nil
}

// DeleteSession is idempotent; deleting a token with no session is not an error.
func (r *sessionsRepo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
