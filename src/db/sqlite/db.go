// Package sqlite is the embedded implementation of services.Store, used for
// local runs, the adduser tool and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	timestampLayout = "2006-01-02 15:04:05.000000000"
	dateLayout      = "2006-01-02"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps a sql.DB connection. Amounts are kept as integer cents and
// dates as sortable text.
type Store struct {
	conn *sql.DB
	q    querier
	inTx bool
	now  func() time.Time
}

var _ services.Store = (*Store)(nil)

// Open opens the database at path (":memory:" for a private in-memory
// database) and runs migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// one connection keeps an in-memory database alive and serializes writers
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Store{conn: conn, q: conn, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL,
			email         TEXT NOT NULL,
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			active        INTEGER NOT NULL DEFAULT 1,
			last_login    TEXT,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (LOWER(username))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email))`,
		`CREATE TABLE IF NOT EXISTS user_sessions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			jwt_token  TEXT NOT NULL UNIQUE,
			expires_at TEXT NOT NULL,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			active     INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color       TEXT NOT NULL DEFAULT '#007bff',
			icon        TEXT NOT NULL DEFAULT 'category',
			is_default  INTEGER NOT NULL DEFAULT 0,
			active      INTEGER NOT NULL DEFAULT 1,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS categories_user_name_key ON categories (user_id, LOWER(name))`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id          INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id      INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			amount_cents     INTEGER NOT NULL,
			description      TEXT NOT NULL,
			transaction_date TEXT NOT NULL,
			transaction_type TEXT NOT NULL CHECK (transaction_type IN ('INCOME', 'EXPENSE')),
			payment_method   TEXT NOT NULL CHECK (payment_method IN ('CASH', 'CARD', 'TRANSFER', 'OTHER')),
			notes            TEXT NOT NULL DEFAULT '',
			active           INTEGER NOT NULL DEFAULT 1,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions (user_id, transaction_date)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id               INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id           INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			limit_cents           INTEGER NOT NULL,
			spent_cents           INTEGER NOT NULL DEFAULT 0,
			month                 INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
			year                  INTEGER NOT NULL,
			alert_enabled         INTEGER NOT NULL DEFAULT 1,
			alert_threshold_cents INTEGER NOT NULL DEFAULT 8000,
			active                INTEGER NOT NULL DEFAULT 1,
			created_at            TEXT NOT NULL,
			updated_at            TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS budgets_period_key ON budgets (user_id, category_id, month, year) WHERE active = 1`,
	}

	for i, m := range migrations {
		if _, err := s.conn.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx services.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&Store{conn: s.conn, q: tx, inTx: true, now: s.now}); err != nil {
		return err
	}
	return tx.Commit()
}

// translate maps driver errors onto the sentinels the services understand.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrRecordNotFound
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %v", models.ErrDuplicateRecord, err)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", models.ErrDuplicateRecord, err)
	}
	return err
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// rowsAffected returns models.ErrRecordNotFound when res touched no row.
func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
