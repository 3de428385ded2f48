package models

import "time"

type UserSession struct {
	ID        int64
	UserID    int64
	JWTToken  string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	Active    bool
}

func (s *UserSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *UserSession) IsValid(now time.Time) bool {
	return s.Active && !s.IsExpired(now)
}
