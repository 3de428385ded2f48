package services

import (
	"context"
	"time"

	"tally-server/src/models"

	"github.com/shopspring/decimal"
)

// Store is the persistence the services need. Lookups by (userID, id) return
// models.ErrRecordNotFound for rows that do not exist or belong to another
// user; unique violations surface as models.ErrDuplicateRecord.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// GetUserByLogin matches username or email, ignoring case.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error

	CreateSession(ctx context.Context, s *models.UserSession) (*models.UserSession, error)
	GetActiveSession(ctx context.Context, token string, now time.Time) (*models.UserSession, error)
	InvalidateSession(ctx context.Context, token string) error
	InvalidateUserSessions(ctx context.Context, userID int64) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	GetCategory(ctx context.Context, userID, id int64) (*models.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
	CountCategories(ctx context.Context, userID int64) (int64, error)

	CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	// GetTransaction does not filter on the active flag.
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter, p models.PageRequest) ([]models.Transaction, int64, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	// SumTransactions adds active amounts of one type dated within [start, end].
	// Expenses are summed by absolute value.
	SumTransactions(ctx context.Context, userID int64, t models.TransactionType, start, end time.Time) (decimal.Decimal, error)
	// ExpensesByCategory orders by the signed sum ascending.
	ExpensesByCategory(ctx context.Context, userID int64, start, end time.Time, categoryID *int64) ([]models.CategoryAmount, error)
	CountTransactions(ctx context.Context, userID int64) (int64, error)

	CreateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error)
	GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error)
	// GetBudgetForPeriod returns the active budget for the period and locks it
	// for the rest of the surrounding transaction where the store supports it.
	GetBudgetForPeriod(ctx context.Context, userID, categoryID int64, month, year int) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID int64, month, year *int) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error)

	// WithinTx runs fn against a store bound to one database transaction,
	// committing when fn returns nil.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
