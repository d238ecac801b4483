package store

import (
	"context"
	"database/sql"
	"time"
)

// User is an account. Admins share the table with shop customers and are
// distinguished by the is_admin flag.
type User struct {
	ID           int64
	Username     string
	Email        sql.NullString
	PhoneNumber  sql.NullString
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserParams struct {
	Username     string
	Email        sql.NullString
	PhoneNumber  sql.NullString
	PasswordHash string
	IsAdmin      bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users (username, email, phone_number, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Username, arg.Email, arg.PhoneNumber, arg.PasswordHash, arg.IsAdmin, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const selectUser = `
	SELECT id, username, email, phone_number, password_hash, is_admin, created_at, updated_at
	FROM users`

func (q *Queries) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber,
		&u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	return q.scanUser(q.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id))
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return q.scanUser(q.db.QueryRowContext(ctx, selectUser+` WHERE username = ?`, username))
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return q.scanUser(q.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email))
}

func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_admin = 1`).Scan(&n)
	return n, err
}

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return err
}
