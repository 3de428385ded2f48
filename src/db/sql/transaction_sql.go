package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tally-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	t.id, t.user_id, t.category_id, c.name, c.color, c.icon, t.amount::text, t.description,
	t.transaction_date, t.transaction_type, t.payment_method, t.notes, t.active, t.created_at, t.updated_at`

const transactionFrom = `FROM transactions t JOIN categories c ON c.id = t.category_id`

var transactionSortColumns = map[string]string{
	"transactionDate": "t.transaction_date",
	"amount":          "t.amount",
	"description":     "t.description",
	"transactionType": "t.transaction_type",
	"paymentMethod":   "t.payment_method",
	"createdAt":       "t.created_at",
	"updatedAt":       "t.updated_at",
	"id":              "t.id",
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	var amount, txType, method string
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CategoryID,
		&t.CategoryName,
		&t.CategoryColor,
		&t.CategoryIcon,
		&amount,
		&t.Description,
		&t.TransactionDate,
		&txType,
		&method,
		&t.Notes,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	if t.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	t.TransactionType = models.TransactionType(txType)
	t.PaymentMethod = models.PaymentMethod(method)
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions
			(user_id, category_id, amount, description, transaction_date, transaction_type, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := s.q.QueryRow(ctx, query,
		t.UserID,
		t.CategoryID,
		t.Amount.String(),
		t.Description,
		t.TransactionDate,
		string(t.TransactionType),
		string(t.PaymentMethod),
		t.Notes,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", translate(err))
	}
	return s.GetTransaction(ctx, t.UserID, id)
}

func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, description = $3, transaction_date = $4,
			transaction_type = $5, payment_method = $6, notes = $7, active = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
	`
	cmd, err := s.q.Exec(ctx, query,
		t.CategoryID,
		t.Amount.String(),
		t.Description,
		t.TransactionDate,
		string(t.TransactionType),
		string(t.PaymentMethod),
		t.Notes,
		t.Active,
		t.ID,
		t.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", translate(err))
	}
	if cmd.RowsAffected() == 0 {
		return nil, models.ErrRecordNotFound
	}
	return s.GetTransaction(ctx, t.UserID, t.ID)
}

func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` ` + transactionFrom + ` WHERE t.id = $1 AND t.user_id = $2`
	return scanTransaction(s.q.QueryRow(ctx, query, id, userID))
}

func transactionWhere(userID int64, f models.TransactionFilter) (string, []any) {
	clauses := []string{"t.user_id = $1"}
	args := []any{userID}
	if f.ActiveOnly {
		clauses = append(clauses, "t.active")
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		clauses = append(clauses, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		clauses = append(clauses, fmt.Sprintf("t.transaction_date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		clauses = append(clauses, fmt.Sprintf("t.transaction_date <= $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func transactionOrder(p models.PageRequest) string {
	column, ok := transactionSortColumns[p.SortBy]
	if !ok {
		column = transactionSortColumns[models.SortByTransactionDate]
	}
	dir := string(p.SortDir)
	if p.SortDir != models.SortAsc {
		dir = string(models.SortDesc)
	}
	if column == "t.id" {
		return "t.id " + dir
	}
	return column + " " + dir + ", t.id " + dir
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter, p models.PageRequest) ([]models.Transaction, int64, error) {
	where, args := transactionWhere(userID, f)

	var total int64
	if err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, p.Size, p.Offset())
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		transactionColumns, transactionFrom, where, transactionOrder(p), len(args)-1, len(args))
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (s *Store) RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` ` + transactionFrom + `
		WHERE t.user_id = $1 AND t.active
		ORDER BY t.transaction_date DESC, t.created_at DESC, t.id DESC
		LIMIT $2
	`
	rows, err := s.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return collectTransactions(rows)
}

func (s *Store) SumTransactions(ctx context.Context, userID int64, t models.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(ABS(amount)), 0)::text
		FROM transactions
		WHERE user_id = $1 AND transaction_type = $2 AND active
			AND transaction_date BETWEEN $3 AND $4
	`
	var sum string
	if err := s.q.QueryRow(ctx, query, userID, string(t), start, end).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return parseDecimal(sum)
}

func (s *Store) ExpensesByCategory(ctx context.Context, userID int64, start, end time.Time, categoryID *int64) ([]models.CategoryAmount, error) {
	args := []any{userID, start, end}
	categoryClause := ""
	if categoryID != nil {
		args = append(args, *categoryID)
		categoryClause = "AND t.category_id = $4"
	}
	query := `
		SELECT c.id, c.name, COALESCE(SUM(ABS(t.amount)), 0)::text
		` + transactionFrom + `
		WHERE t.user_id = $1 AND t.transaction_type = 'EXPENSE' AND t.active
			AND t.transaction_date BETWEEN $2 AND $3 ` + categoryClause + `
		GROUP BY c.id, c.name
		ORDER BY SUM(t.amount) ASC, c.name ASC
	`
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	defer rows.Close()

	out := []models.CategoryAmount{}
	for rows.Next() {
		var ca models.CategoryAmount
		var amount string
		if err := rows.Scan(&ca.CategoryID, &ca.CategoryName, &amount); err != nil {
			return nil, err
		}
		if ca.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

func (s *Store) CountTransactions(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND active`, userID).Scan(&n)
	return n, err
}
