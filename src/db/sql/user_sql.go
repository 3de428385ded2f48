package db

import (
	"context"
	"fmt"
	"time"

	"tally-server/src/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, active, last_login, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Active,
		&user.LastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(s.q.QueryRow(ctx, query,
		u.FirstName,
		u.LastName,
		u.Username,
		u.Email,
		string(u.PasswordHash),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.q.QueryRow(ctx, query, id))
}

func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)
		LIMIT 1
	`
	return scanUser(s.q.QueryRow(ctx, query, login))
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	cmd, err := s.q.Exec(ctx, `UPDATE users SET last_login = $1, updated_at = NOW() WHERE id = $2`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
