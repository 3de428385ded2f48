package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tally-server/src/models"

	"github.com/shopspring/decimal"
)

var maxAlertThreshold = decimal.NewFromInt(100)

type BudgetService struct {
	store Store
}

func NewBudgetService(store Store) *BudgetService {
	return &BudgetService{store: store}
}

func checkLimit(limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return BadRequest("Limit amount must be greater than zero")
	}
	return nil
}

func checkThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() || threshold.GreaterThan(maxAlertThreshold) {
		return BadRequest("Alert threshold must be between 0 and 100")
	}
	return nil
}

func monthBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func (s *BudgetService) budgetFor(ctx context.Context, store Store, userID, id int64) (*models.Budget, error) {
	b, err := store.GetBudget(ctx, userID, id)
	if errors.Is(err, models.ErrRecordNotFound) || (err == nil && !b.Active) {
		return nil, NotFound("Budget", "id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load budget %d: %w", id, err)
	}
	return b, nil
}

// Create starts the budget's spent amount at the category's existing expenses
// for the month.
func (s *BudgetService) Create(ctx context.Context, p models.Principal, req models.BudgetCreateRequest) (*models.Budget, error) {
	if req.CategoryID == nil {
		return nil, Validation("categoryId: must not be null")
	}
	if req.LimitAmount == nil {
		return nil, Validation("limitAmount: must not be null")
	}
	if err := checkLimit(*req.LimitAmount); err != nil {
		return nil, err
	}
	b := &models.Budget{
		UserID:         p.UserID,
		CategoryID:     *req.CategoryID,
		LimitAmount:    *req.LimitAmount,
		Month:          req.Month,
		Year:           req.Year,
		AlertEnabled:   true,
		AlertThreshold: models.DefaultAlertThreshold,
	}
	if req.AlertEnabled != nil {
		b.AlertEnabled = *req.AlertEnabled
	}
	if req.AlertThreshold != nil {
		if err := checkThreshold(*req.AlertThreshold); err != nil {
			return nil, err
		}
		b.AlertThreshold = *req.AlertThreshold
	}

	var created *models.Budget
	err := s.store.WithinTx(ctx, func(tx Store) error {
		category, err := categoryFor(ctx, tx, p.UserID, b.CategoryID)
		if err != nil {
			return err
		}
		start, end := monthBounds(b.Month, b.Year)
		spent, err := tx.ExpensesByCategory(ctx, p.UserID, start, end, &b.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to sum category expenses: %w", err)
		}
		for _, row := range spent {
			b.AddSpentAmount(row.Amount)
		}

		created, err = tx.CreateBudget(ctx, b)
		if errors.Is(err, models.ErrDuplicateRecord) {
			return BusinessRule("Budget already exists for category '%s' in %02d/%d", category.Name, b.Month, b.Year)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Created budget id %d for user %d, category %d", created.ID, p.UserID, created.CategoryID)
	return created, nil
}

// List returns active budgets, optionally narrowed to a month and/or year.
func (s *BudgetService) List(ctx context.Context, p models.Principal, month, year *int) ([]models.Budget, error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, BadRequest("Month must be between 1 and 12")
	}
	budgets, err := s.store.ListBudgets(ctx, p.UserID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (s *BudgetService) GetByID(ctx context.Context, p models.Principal, id int64) (*models.Budget, error) {
	return s.budgetFor(ctx, s.store, p.UserID, id)
}

func (s *BudgetService) Update(ctx context.Context, p models.Principal, id int64, req models.BudgetUpdateRequest) (*models.Budget, error) {
	var updated *models.Budget
	err := s.store.WithinTx(ctx, func(tx Store) error {
		b, err := s.budgetFor(ctx, tx, p.UserID, id)
		if err != nil {
			return err
		}
		if req.LimitAmount != nil {
			if err := checkLimit(*req.LimitAmount); err != nil {
				return err
			}
			b.LimitAmount = *req.LimitAmount
		}
		if req.AlertEnabled != nil {
			b.AlertEnabled = *req.AlertEnabled
		}
		if req.AlertThreshold != nil {
			if err := checkThreshold(*req.AlertThreshold); err != nil {
				return err
			}
			b.AlertThreshold = *req.AlertThreshold
		}
		updated, err = tx.UpdateBudget(ctx, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Updated budget id %d for user %d", id, p.UserID)
	return updated, nil
}

func (s *BudgetService) Delete(ctx context.Context, p models.Principal, id int64) error {
	err := s.store.WithinTx(ctx, func(tx Store) error {
		b, err := s.budgetFor(ctx, tx, p.UserID, id)
		if err != nil {
			return err
		}
		b.Active = false
		_, err = tx.UpdateBudget(ctx, b)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("INFO: Deleted budget id %d for user %d", id, p.UserID)
	return nil
}

// Alerts returns active budgets that have reached their alert threshold.
func (s *BudgetService) Alerts(ctx context.Context, p models.Principal) ([]models.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, p.UserID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	alerts := []models.Budget{}
	for _, b := range budgets {
		if b.HasReachedAlertThreshold() {
			alerts = append(alerts, b)
		}
	}
	return alerts, nil
}
