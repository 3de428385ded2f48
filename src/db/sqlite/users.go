package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tally-server/src/models"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, active, last_login, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var hash, createdAt string
	var lastLogin sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &hash, &u.Active, &lastLogin, &createdAt); err != nil {
		return nil, translate(err)
	}
	u.PasswordHash = []byte(hash)
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t, err := parseTime(lastLogin.String)
		if err != nil {
			return nil, err
		}
		u.LastLogin = &t
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := formatTime(s.now())
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO users (username, email, first_name, last_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, string(u.PasswordHash), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?) LIMIT 1`
	return scanUser(s.q.QueryRowContext(ctx, query, login, login))
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	res, err := s.q.ExecContext(ctx, `UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`,
		formatTime(at), formatTime(s.now()), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return rowsAffected(res)
}
