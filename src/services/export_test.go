package services

import "time"

func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TransactionService) SetClock(now func() time.Time) {
	s.now = now
}
