package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/anime-dimension/api/internal/model"
)

// SessionRepo reads and writes the `UserSessions` table. Expiry is a
// read-side concern: callers compare ExpiresAt themselves, nothing here
// sweeps stale rows.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// GetByToken fetches a session by its opaque token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (model.UserSession, error) {
	var (
		s                model.UserSession
		created, expires string
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT "Id", "UserId", "SessionToken", "CreatedAt", "ExpiresAt" FROM "UserSessions" WHERE "SessionToken" = ? LIMIT 1`,
		token).Scan(&s.ID, &s.UserID, &s.SessionToken, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserSession{}, ErrNotFound
	}
	if err != nil {
		return model.UserSession{}, err
	}
	s.CreatedAt = parseDBTime(created)
	s.ExpiresAt = parseDBTime(expires)
	return s, nil
}

// ListByUser returns all sessions of a user, oldest first. The login
// handler evicts from the head of this slice when the per-user cap is
// reached.
func (r *SessionRepo) ListByUser(ctx context.Context, userID string) ([]model.UserSession, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT "Id", "UserId", "SessionToken", "CreatedAt", "ExpiresAt" FROM "UserSessions" WHERE "UserId" = ? ORDER BY "CreatedAt" ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserSession
	for rows.Next() {
		var (
			s                model.UserSession
			created, expires string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionToken, &created, &expires); err != nil {
			return nil, err
		}
		s.CreatedAt = parseDBTime(created)
		s.ExpiresAt = parseDBTime(expires)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s model.UserSession) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO "UserSessions" ("UserId", "SessionToken", "CreatedAt", "ExpiresAt") VALUES (?, ?, ?, ?)`,
		s.UserID, s.SessionToken, formatDBTime(s.CreatedAt), formatDBTime(s.ExpiresAt))
	return err
}

// DeleteByID removes one session row.
func (r *SessionRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM "UserSessions" WHERE "Id" = ?`, id)
	return err
}

// DeleteByToken removes the session holding the token, if any.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM "UserSessions" WHERE "SessionToken" = ?`, token)
	return err
}
