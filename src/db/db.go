package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(30)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		first_name    VARCHAR(100) NOT NULL DEFAULT '',
		last_name     VARCHAR(100) NOT NULL DEFAULT '',
		password_hash TEXT         NOT NULL,
		active        BOOLEAN      NOT NULL DEFAULT TRUE,
		last_login    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (LOWER(username))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT      NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		jwt_token  TEXT        NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		ip_address VARCHAR(45) NOT NULL DEFAULT '',
		user_agent TEXT        NOT NULL DEFAULT '',
		active     BOOLEAN     NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS user_sessions_user_idx ON user_sessions (user_id)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT       NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name        VARCHAR(100) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		color       VARCHAR(7)   NOT NULL DEFAULT '#007bff',
		icon        VARCHAR(50)  NOT NULL DEFAULT 'category',
		is_default  BOOLEAN      NOT NULL DEFAULT FALSE,
		active      BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS categories_user_name_key ON categories (user_id, LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id               BIGSERIAL PRIMARY KEY,
		user_id          BIGINT        NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category_id      BIGINT        NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		amount           NUMERIC(12,2) NOT NULL,
		description      VARCHAR(255)  NOT NULL,
		transaction_date DATE          NOT NULL,
		transaction_type VARCHAR(10)   NOT NULL CHECK (transaction_type IN ('INCOME', 'EXPENSE')),
		payment_method   VARCHAR(10)   NOT NULL CHECK (payment_method IN ('CASH', 'CARD', 'TRANSFER', 'OTHER')),
		notes            VARCHAR(255)  NOT NULL DEFAULT '',
		active           BOOLEAN       NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions (user_id, transaction_date)`,
	`CREATE INDEX IF NOT EXISTS transactions_category_idx ON transactions (category_id)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id              BIGSERIAL PRIMARY KEY,
		user_id         BIGINT        NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category_id     BIGINT        NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		limit_amount    NUMERIC(12,2) NOT NULL,
		spent_amount    NUMERIC(12,2) NOT NULL DEFAULT 0,
		month           SMALLINT      NOT NULL CHECK (month BETWEEN 1 AND 12),
		year            INTEGER       NOT NULL,
		alert_enabled   BOOLEAN       NOT NULL DEFAULT TRUE,
		alert_threshold NUMERIC(5,2)  NOT NULL DEFAULT 80,
		active          BOOLEAN       NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS budgets_period_key ON budgets (user_id, category_id, month, year) WHERE active`,
}

// Migrate creates the schema if it does not exist yet. It is safe to run on
// every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
