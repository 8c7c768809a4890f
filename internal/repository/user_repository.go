package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/anime-dimension/api/internal/model"
)

// UserRepo reads and writes the `Users` table of the users database.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `"Id", "UserId", "Username", "Email", "PasswordHash"`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.UserID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM "Users" WHERE "Username" = ? LIMIT 1`, username))
}

// GetByUserID fetches a user by its public numeric-string id.
func (r *UserRepo) GetByUserID(ctx context.Context, userID string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM "Users" WHERE "UserId" = ? LIMIT 1`, userID))
}

// UsernameExists reports whether any user holds the username.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM "Users" WHERE "Username" = ?`, username).Scan(&n)
	return n > 0, err
}

// UsernameOrEmailExists reports whether the username or email is taken.
func (r *UserRepo) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM "Users" WHERE "Username" = ? OR "Email" = ?`, username, email).Scan(&n)
	return n > 0, err
}

// UserIDExists reports whether the public id is already assigned.
func (r *UserRepo) UserIDExists(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM "Users" WHERE "UserId" = ?`, userID).Scan(&n)
	return n > 0, err
}

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO "Users" ("UserId", "Username", "Email", "PasswordHash") VALUES (?, ?, ?, ?)`,
		u.UserID, u.Username, u.Email, u.PasswordHash)
	return err
}
