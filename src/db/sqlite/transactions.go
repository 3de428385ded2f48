package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tally-server/src/models"

	"github.com/shopspring/decimal"
)

const transactionColumns = `
	t.id, t.user_id, t.category_id, c.name, c.color, c.icon, t.amount_cents, t.description,
	t.transaction_date, t.transaction_type, t.payment_method, t.notes, t.active, t.created_at, t.updated_at`

const transactionFrom = `FROM transactions t JOIN categories c ON c.id = t.category_id`

var transactionSortColumns = map[string]string{
	"transactionDate": "t.transaction_date",
	"amount":          "t.amount_cents",
	"description":     "t.description",
	"transactionType": "t.transaction_type",
	"paymentMethod":   "t.payment_method",
	"createdAt":       "t.created_at",
	"updatedAt":       "t.updated_at",
	"id":              "t.id",
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var cents int64
	var date, txType, method, createdAt, updatedAt string
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CategoryID,
		&t.CategoryName,
		&t.CategoryColor,
		&t.CategoryIcon,
		&cents,
		&t.Description,
		&date,
		&txType,
		&method,
		&t.Notes,
		&t.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	t.Amount = fromCents(cents)
	t.TransactionType = models.TransactionType(txType)
	t.PaymentMethod = models.PaymentMethod(method)
	if t.TransactionDate, err = parseDate(date); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
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
	now := formatTime(s.now())
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions
			(user_id, category_id, amount_cents, description, transaction_date, transaction_type,
			 payment_method, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID,
		t.CategoryID,
		toCents(t.Amount),
		t.Description,
		formatDate(t.TransactionDate),
		string(t.TransactionType),
		string(t.PaymentMethod),
		t.Notes,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetTransaction(ctx, t.UserID, id)
}

func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, amount_cents = ?, description = ?, transaction_date = ?,
			transaction_type = ?, payment_method = ?, notes = ?, active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.CategoryID,
		toCents(t.Amount),
		t.Description,
		formatDate(t.TransactionDate),
		string(t.TransactionType),
		string(t.PaymentMethod),
		t.Notes,
		t.Active,
		formatTime(s.now()),
		t.ID,
		t.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", translate(err))
	}
	if err := rowsAffected(res); err != nil {
		return nil, err
	}
	return s.GetTransaction(ctx, t.UserID, t.ID)
}

func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` ` + transactionFrom + ` WHERE t.id = ? AND t.user_id = ?`
	return scanTransaction(s.q.QueryRowContext(ctx, query, id, userID))
}

func transactionWhere(userID int64, f models.TransactionFilter) (string, []any) {
	clauses := []string{"t.user_id = ?"}
	args := []any{userID}
	if f.ActiveOnly {
		clauses = append(clauses, "t.active = 1")
	}
	if f.CategoryID != nil {
		clauses = append(clauses, "t.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.StartDate != nil {
		clauses = append(clauses, "t.transaction_date >= ?")
		args = append(args, formatDate(*f.StartDate))
	}
	if f.EndDate != nil {
		clauses = append(clauses, "t.transaction_date <= ?")
		args = append(args, formatDate(*f.EndDate))
	}
	return strings.Join(clauses, " AND "), args
}

func transactionOrder(p models.PageRequest) string {
	column, ok := transactionSortColumns[p.SortBy]
	if !ok {
		column = transactionSortColumns[models.SortByTransactionDate]
	}
	dir := string(models.SortDesc)
	if p.SortDir == models.SortAsc {
		dir = string(models.SortAsc)
	}
	if column == "t.id" {
		return "t.id " + dir
	}
	return column + " " + dir + ", t.id " + dir
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter, p models.PageRequest) ([]models.Transaction, int64, error) {
	where, args := transactionWhere(userID, f)

	var total int64
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions t WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s LIMIT ? OFFSET ?`,
		transactionColumns, transactionFrom, where, transactionOrder(p))
	txns, err := s.queryTransactions(ctx, query, append(args, p.Size, p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, total, nil
}

func (s *Store) RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` ` + transactionFrom + `
		WHERE t.user_id = ? AND t.active = 1
		ORDER BY t.transaction_date DESC, t.created_at DESC, t.id DESC
		LIMIT ?`
	return s.queryTransactions(ctx, query, userID, limit)
}

func (s *Store) SumTransactions(ctx context.Context, userID int64, t models.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var cents int64
	err := s.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ABS(amount_cents)), 0)
		FROM transactions
		WHERE user_id = ? AND transaction_type = ? AND active = 1
			AND transaction_date BETWEEN ? AND ?`,
		userID, string(t), formatDate(start), formatDate(end)).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return fromCents(cents), nil
}

func (s *Store) ExpensesByCategory(ctx context.Context, userID int64, start, end time.Time, categoryID *int64) ([]models.CategoryAmount, error) {
	args := []any{userID, formatDate(start), formatDate(end)}
	categoryClause := ""
	if categoryID != nil {
		categoryClause = "AND t.category_id = ?"
		args = append(args, *categoryID)
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT c.id, c.name, COALESCE(SUM(ABS(t.amount_cents)), 0)
		`+transactionFrom+`
		WHERE t.user_id = ? AND t.transaction_type = 'EXPENSE' AND t.active = 1
			AND t.transaction_date BETWEEN ? AND ? `+categoryClause+`
		GROUP BY c.id, c.name
		ORDER BY SUM(t.amount_cents) ASC, c.name ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	defer rows.Close()

	out := []models.CategoryAmount{}
	for rows.Next() {
		var ca models.CategoryAmount
		var cents int64
		if err := rows.Scan(&ca.CategoryID, &ca.CategoryName, &cents); err != nil {
			return nil, err
		}
		ca.Amount = fromCents(cents)
		out = append(out, ca)
	}
	return out, rows.Err()
}

func (s *Store) CountTransactions(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = ? AND active = 1`, userID).Scan(&n)
	return n, err
}
