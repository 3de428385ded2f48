package db

import (
	"context"
	"fmt"
	"time"

	"tally-server/src/models"

	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, user_id, jwt_token, expires_at, ip_address, user_agent, active, created_at`

func scanSession(row pgx.Row) (*models.UserSession, error) {
	var s models.UserSession
	err := row.Scan(&s.ID, &s.UserID, &s.JWTToken, &s.ExpiresAt, &s.IPAddress, &s.UserAgent, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (s *Store) CreateSession(ctx context.Context, session *models.UserSession) (*models.UserSession, error) {
	query := `
		INSERT INTO user_sessions (user_id, jwt_token, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + sessionColumns
	created, err := scanSession(s.q.QueryRow(ctx, query,
		session.UserID, session.JWTToken, session.ExpiresAt, session.IPAddress, session.UserAgent))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return created, nil
}

func (s *Store) GetActiveSession(ctx context.Context, token string, now time.Time) (*models.UserSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM user_sessions
		WHERE jwt_token = $1 AND active AND expires_at > $2
	`
	return scanSession(s.q.QueryRow(ctx, query, token, now))
}

func (s *Store) InvalidateSession(ctx context.Context, token string) error {
	cmd, err := s.q.Exec(ctx, `UPDATE user_sessions SET active = FALSE WHERE jwt_token = $1 AND active`, token)
	if err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

func (s *Store) InvalidateUserSessions(ctx context.Context, userID int64) (int64, error) {
	cmd, err := s.q.Exec(ctx, `UPDATE user_sessions SET active = FALSE WHERE user_id = $1 AND active`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := s.q.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return cmd.RowsAffected(), nil
}
