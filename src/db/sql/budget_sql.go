package db

import (
	"context"
	"fmt"

	"tally-server/src/models"

	"github.com/jackc/pgx/v5"
)

const budgetColumns = `
	b.id, b.user_id, b.category_id, c.name, b.limit_amount::text, b.spent_amount::text,
	b.month, b.year, b.alert_enabled, b.alert_threshold::text, b.active, b.created_at, b.updated_at`

const budgetFrom = `FROM budgets b JOIN categories c ON c.id = b.category_id`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	var limit, spent, threshold string
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &limit, &spent,
		&b.Month, &b.Year, &b.AlertEnabled, &threshold, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if b.LimitAmount, err = parseDecimal(limit); err != nil {
		return nil, err
	}
	if b.SpentAmount, err = parseDecimal(spent); err != nil {
		return nil, err
	}
	if b.AlertThreshold, err = parseDecimal(threshold); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, limit_amount, spent_amount, month, year, alert_enabled, alert_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := s.q.QueryRow(ctx, query,
		budget.UserID,
		budget.CategoryID,
		budget.LimitAmount.String(),
		budget.SpentAmount.String(),
		budget.Month,
		budget.Year,
		budget.AlertEnabled,
		budget.AlertThreshold.String(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", translate(err))
	}
	return s.GetBudget(ctx, budget.UserID, id)
}

func (s *Store) GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` ` + budgetFrom + ` WHERE b.id = $1 AND b.user_id = $2`
	return scanBudget(s.q.QueryRow(ctx, query, id, userID))
}

func (s *Store) GetBudgetForPeriod(ctx context.Context, userID, categoryID int64, month, year int) (*models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + ` ` + budgetFrom + `
		WHERE b.user_id = $1 AND b.category_id = $2 AND b.month = $3 AND b.year = $4 AND b.active
		FOR UPDATE OF b
	`
	return scanBudget(s.q.QueryRow(ctx, query, userID, categoryID, month, year))
}

func (s *Store) ListBudgets(ctx context.Context, userID int64, month, year *int) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + ` ` + budgetFrom + `
		WHERE b.user_id = $1 AND b.active
			AND ($2::int IS NULL OR b.month = $2::int)
			AND ($3::int IS NULL OR b.year = $3::int)
		ORDER BY b.year DESC, b.month DESC, c.name ASC
	`
	rows, err := s.q.Query(ctx, query, userID, month, year)
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

func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET limit_amount = $1, spent_amount = $2, alert_enabled = $3, alert_threshold = $4,
			active = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`
	cmd, err := s.q.Exec(ctx, query,
		budget.LimitAmount.String(),
		budget.SpentAmount.String(),
		budget.AlertEnabled,
		budget.AlertThreshold.String(),
		budget.Active,
		budget.ID,
		budget.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", translate(err))
	}
	if cmd.RowsAffected() == 0 {
		return nil, models.ErrRecordNotFound
	}
	return s.GetBudget(ctx, budget.UserID, budget.ID)
}
