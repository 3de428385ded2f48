package sqlite

import (
	"context"
	"fmt"
	"time"

	"tally-server/src/models"
)

const sessionColumns = `id, user_id, jwt_token, expires_at, ip_address, user_agent, active, created_at`

func scanSession(row interface{ Scan(...any) error }) (*models.UserSession, error) {
	var us models.UserSession
	var expiresAt, createdAt string
	if err := row.Scan(&us.ID, &us.UserID, &us.JWTToken, &expiresAt, &us.IPAddress, &us.UserAgent, &us.Active, &createdAt); err != nil {
		return nil, translate(err)
	}
	var err error
	if us.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if us.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &us, nil
}

func (s *Store) CreateSession(ctx context.Context, session *models.UserSession) (*models.UserSession, error) {
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO user_sessions (user_id, jwt_token, expires_at, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.UserID, session.JWTToken, formatTime(session.ExpiresAt), session.IPAddress, session.UserAgent, formatTime(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return scanSession(s.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM user_sessions WHERE id = ?`, id))
}

func (s *Store) GetActiveSession(ctx context.Context, token string, now time.Time) (*models.UserSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM user_sessions WHERE jwt_token = ? AND active = 1 AND expires_at > ?`
	return scanSession(s.q.QueryRowContext(ctx, query, token, formatTime(now)))
}

func (s *Store) InvalidateSession(ctx context.Context, token string) error {
	res, err := s.q.ExecContext(ctx, `UPDATE user_sessions SET active = 0 WHERE jwt_token = ? AND active = 1`, token)
	if err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return rowsAffected(res)
}

func (s *Store) InvalidateUserSessions(ctx context.Context, userID int64) (int64, error) {
	res, err := s.q.ExecContext(ctx, `UPDATE user_sessions SET active = 0 WHERE user_id = ? AND active = 1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
