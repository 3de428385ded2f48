package sqlite

import (
	"context"
	"fmt"

	"tally-server/src/models"
)

const budgetColumns = `
	b.id, b.user_id, b.category_id, c.name, b.limit_cents, b.spent_cents, b.month, b.year,
	b.alert_enabled, b.alert_threshold_cents, b.active, b.created_at, b.updated_at`

const budgetFrom = `FROM budgets b JOIN categories c ON c.id = b.category_id`

func scanBudget(row interface{ Scan(...any) error }) (*models.Budget, error) {
	var b models.Budget
	var limit, spent, threshold int64
	var createdAt, updatedAt string
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &limit, &spent, &b.Month, &b.Year,
		&b.AlertEnabled, &threshold, &b.Active, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate(err)
	}
	b.LimitAmount = fromCents(limit)
	b.SpentAmount = fromCents(spent)
	b.AlertThreshold = fromCents(threshold)
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	now := formatTime(s.now())
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO budgets
			(user_id, category_id, limit_cents, spent_cents, month, year, alert_enabled,
			 alert_threshold_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID,
		b.CategoryID,
		toCents(b.LimitAmount),
		toCents(b.SpentAmount),
		b.Month,
		b.Year,
		b.AlertEnabled,
		toCents(b.AlertThreshold),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetBudget(ctx, b.UserID, id)
}

func (s *Store) GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` ` + budgetFrom + ` WHERE b.id = ? AND b.user_id = ?`
	return scanBudget(s.q.QueryRowContext(ctx, query, id, userID))
}

// GetBudgetForPeriod needs no row lock: the single connection already
// serializes writers.
func (s *Store) GetBudgetForPeriod(ctx context.Context, userID, categoryID int64, month, year int) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` ` + budgetFrom + `
		WHERE b.user_id = ? AND b.category_id = ? AND b.month = ? AND b.year = ? AND b.active = 1`
	return scanBudget(s.q.QueryRowContext(ctx, query, userID, categoryID, month, year))
}

func (s *Store) ListBudgets(ctx context.Context, userID int64, month, year *int) ([]models.Budget, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+budgetColumns+` `+budgetFrom+`
		WHERE b.user_id = ? AND b.active = 1
			AND (? IS NULL OR b.month = ?)
			AND (? IS NULL OR b.year = ?)
		ORDER BY b.year DESC, b.month DESC, c.name ASC`,
		userID, optionalInt(month), optionalInt(month), optionalInt(year), optionalInt(year))
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *Store) UpdateBudget(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	res, err := s.q.ExecContext(ctx, `
		UPDATE budgets
		SET limit_cents = ?, spent_cents = ?, alert_enabled = ?, alert_threshold_cents = ?,
			active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		toCents(b.LimitAmount),
		toCents(b.SpentAmount),
		b.AlertEnabled,
		toCents(b.AlertThreshold),
		b.Active,
		formatTime(s.now()),
		b.ID,
		b.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", translate(err))
	}
	if err := rowsAffected(res); err != nil {
		return nil, err
	}
	return s.GetBudget(ctx, b.UserID, b.ID)
}

func optionalInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
