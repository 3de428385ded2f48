package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tally-server/src/db"
	"tally-server/src/models"

	"github.com/shopspring/decimal"
)

const DefaultRecentLimit = 10

type TransactionService struct {
	store       Store
	cache       *db.QueryCache
	maxPageSize int
	now         func() time.Time
}

func NewTransactionService(store Store, cache *db.QueryCache, maxPageSize int) *TransactionService {
	return &TransactionService{store: store, cache: cache, maxPageSize: maxPageSize, now: time.Now}
}

// normalize turns a caller magnitude into the stored, signed amount.
func normalize(magnitude decimal.Decimal, t models.TransactionType) (decimal.Decimal, error) {
	amount, err := models.NormalizeAmount(magnitude, t)
	switch {
	case errors.Is(err, models.ErrNonPositiveAmount):
		return decimal.Zero, BadRequest("Amount must be greater than zero")
	case errors.Is(err, models.ErrInvalidTransactionType):
		return decimal.Zero, BadRequest("Invalid transaction type: %s", t)
	}
	return amount, err
}

func categoryFor(ctx context.Context, store Store, userID, categoryID int64) (*models.Category, error) {
	c, err := store.GetCategory(ctx, userID, categoryID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, NotFound("Category", "id", categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}
	return c, nil
}

func (s *TransactionService) transactionFor(ctx context.Context, store Store, userID, id int64) (*models.Transaction, error) {
	t, err := store.GetTransaction(ctx, userID, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, NotFound("Transaction", "id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %d: %w", id, err)
	}
	return t, nil
}

// trackBudget adds (sign > 0) or removes (sign < 0) an active expense from the
// budget covering its category and month, if there is one.
func trackBudget(ctx context.Context, tx Store, t *models.Transaction, sign int) error {
	if !t.Active || !t.IsExpense() {
		return nil
	}
	d := t.TransactionDate
	b, err := tx.GetBudgetForPeriod(ctx, t.UserID, t.CategoryID, int(d.Month()), d.Year())
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load budget: %w", err)
	}
	if sign > 0 {
		b.AddSpentAmount(t.Amount)
	} else {
		b.SubtractSpentAmount(t.Amount)
	}
	if _, err := tx.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("failed to update budget %d: %w", b.ID, err)
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, p models.Principal, req models.TransactionCreateRequest) (*models.Transaction, error) {
	txType := models.TransactionType(req.TransactionType)
	if req.Amount == nil {
		return nil, Validation("amount: must not be null")
	}
	amount, err := normalize(*req.Amount, txType)
	if err != nil {
		return nil, err
	}
	if req.CategoryID == nil {
		return nil, Validation("categoryId: must not be null")
	}
	date := models.NewDate(s.now())
	if req.TransactionDate != nil && !req.TransactionDate.IsZero() {
		date = *req.TransactionDate
	}

	var created *models.Transaction
	err = s.store.WithinTx(ctx, func(tx Store) error {
		if _, err := categoryFor(ctx, tx, p.UserID, *req.CategoryID); err != nil {
			return err
		}
		created, err = tx.CreateTransaction(ctx, &models.Transaction{
			UserID:          p.UserID,
			CategoryID:      *req.CategoryID,
			Amount:          amount,
			Description:     req.Description,
			TransactionDate: date.Time,
			TransactionType: txType,
			PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}
		return trackBudget(ctx, tx, created, 1)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(p.UserID)
	log.Printf("INFO: Created transaction id %d for user %d", created.ID, p.UserID)
	return created, nil
}

// Update applies the non-nil fields of req. A new type without a new amount
// re-signs the existing absolute amount.
func (s *TransactionService) Update(ctx context.Context, p models.Principal, id int64, req models.TransactionUpdateRequest) (*models.Transaction, error) {
	var saved *models.Transaction
	err := s.store.WithinTx(ctx, func(tx Store) error {
		existing, err := s.transactionFor(ctx, tx, p.UserID, id)
		if err != nil {
			return err
		}
		next := *existing

		switch {
		case req.Amount != nil && req.TransactionType != nil:
			next.TransactionType = models.TransactionType(*req.TransactionType)
			next.Amount, err = normalize(*req.Amount, next.TransactionType)
		case req.Amount != nil:
			next.Amount, err = normalize(*req.Amount, existing.TransactionType)
		case req.TransactionType != nil:
			next.TransactionType = models.TransactionType(*req.TransactionType)
			next.Amount, err = normalize(existing.AbsoluteAmount(), next.TransactionType)
		}
		if err != nil {
			return err
		}

		if req.Description != nil {
			next.Description = *req.Description
		}
		if req.CategoryID != nil {
			if _, err := categoryFor(ctx, tx, p.UserID, *req.CategoryID); err != nil {
				return err
			}
			next.CategoryID = *req.CategoryID
		}
		if req.PaymentMethod != nil {
			next.PaymentMethod = models.PaymentMethod(*req.PaymentMethod)
		}
		if req.TransactionDate != nil && !req.TransactionDate.IsZero() {
			next.TransactionDate = req.TransactionDate.Time
		}
		if req.Notes != nil {
			next.Notes = *req.Notes
		}

		if err := trackBudget(ctx, tx, existing, -1); err != nil {
			return err
		}
		if saved, err = tx.UpdateTransaction(ctx, &next); err != nil {
			return err
		}
		return trackBudget(ctx, tx, saved, 1)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(p.UserID)
	log.Printf("INFO: Updated transaction id %d for user %d", id, p.UserID)
	return saved, nil
}

// Delete soft-deletes a transaction. Deleting an already inactive one is a
// no-op.
func (s *TransactionService) Delete(ctx context.Context, p models.Principal, id int64) error {
	err := s.store.WithinTx(ctx, func(tx Store) error {
		existing, err := s.transactionFor(ctx, tx, p.UserID, id)
		if err != nil {
			return err
		}
		if !existing.Active {
			return nil
		}
		if err := trackBudget(ctx, tx, existing, -1); err != nil {
			return err
		}
		existing.Active = false
		_, err = tx.UpdateTransaction(ctx, existing)
		return err
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(p.UserID)
	log.Printf("INFO: Deleted transaction id %d for user %d", id, p.UserID)
	return nil
}

// GetByID returns the transaction whether or not it has been soft-deleted.
func (s *TransactionService) GetByID(ctx context.Context, p models.Principal, id int64) (*models.Transaction, error) {
	return s.transactionFor(ctx, s.store, p.UserID, id)
}

// checkPage validates a page request and clamps its size.
func (s *TransactionService) checkPage(req models.PageRequest) (models.PageRequest, error) {
	if req.Page < 0 {
		return req, BadRequest("Page index must not be negative")
	}
	if req.Size < 1 {
		return req, BadRequest("Page size must be at least 1")
	}
	if s.maxPageSize > 0 && req.Size > s.maxPageSize {
		req.Size = s.maxPageSize
	}
	if req.SortBy == "" {
		req.SortBy = models.SortByTransactionDate
	}
	if !models.TransactionSortFields[req.SortBy] {
		return req, BadRequest("Invalid sort field: %s", req.SortBy)
	}
	if req.SortDir != models.SortAsc {
		req.SortDir = models.SortDesc
	}
	return req, nil
}

func checkRange(start, end time.Time) error {
	if start.After(end) {
		return BadRequest("Start date must be before or equal to end date")
	}
	return nil
}

func (s *TransactionService) list(ctx context.Context, p models.Principal, f models.TransactionFilter, req models.PageRequest) (models.Page[models.TransactionSummary], error) {
	req, err := s.checkPage(req)
	if err != nil {
		return models.Page[models.TransactionSummary]{}, err
	}
	f.ActiveOnly = true
	txns, total, err := s.store.ListTransactions(ctx, p.UserID, f, req)
	if err != nil {
		return models.Page[models.TransactionSummary]{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return models.NewPage(models.ToSummaries(txns), req, total), nil
}

func (s *TransactionService) List(ctx context.Context, p models.Principal, req models.PageRequest) (models.Page[models.TransactionSummary], error) {
	return s.list(ctx, p, models.TransactionFilter{}, req)
}

func (s *TransactionService) ListByDateRange(ctx context.Context, p models.Principal, start, end time.Time, req models.PageRequest) (models.Page[models.TransactionSummary], error) {
	if err := checkRange(start, end); err != nil {
		return models.Page[models.TransactionSummary]{}, err
	}
	return s.list(ctx, p, models.TransactionFilter{StartDate: &start, EndDate: &end}, req)
}

func (s *TransactionService) ListByCategory(ctx context.Context, p models.Principal, categoryID int64, req models.PageRequest) (models.Page[models.TransactionSummary], error) {
	if _, err := categoryFor(ctx, s.store, p.UserID, categoryID); err != nil {
		return models.Page[models.TransactionSummary]{}, err
	}
	return s.list(ctx, p, models.TransactionFilter{CategoryID: &categoryID}, req)
}

func (s *TransactionService) Recent(ctx context.Context, p models.Principal, limit int) ([]models.TransactionSummary, error) {
	if limit < 1 {
		return nil, BadRequest("Limit must be at least 1")
	}
	if s.maxPageSize > 0 && limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	txns, err := s.store.RecentTransactions(ctx, p.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return models.ToSummaries(txns), nil
}

func (s *TransactionService) sum(ctx context.Context, p models.Principal, t models.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	if err := checkRange(start, end); err != nil {
		return decimal.Zero, err
	}
	key := s.cache.Key(p.UserID, "sum", string(t), start.Format(models.DateLayout), end.Format(models.DateLayout))
	return db.Cached(s.cache, key, func() (decimal.Decimal, error) {
		return s.store.SumTransactions(ctx, p.UserID, t, start, end)
	})
}

func (s *TransactionService) TotalIncome(ctx context.Context, p models.Principal, start, end time.Time) (decimal.Decimal, error) {
	return s.sum(ctx, p, models.TransactionTypeIncome, start, end)
}

// TotalExpenses is the sum of absolute expense amounts.
func (s *TransactionService) TotalExpenses(ctx context.Context, p models.Principal, start, end time.Time) (decimal.Decimal, error) {
	return s.sum(ctx, p, models.TransactionTypeExpense, start, end)
}

func (s *TransactionService) Totals(ctx context.Context, p models.Principal, start, end time.Time) (models.Totals, error) {
	income, err := s.TotalIncome(ctx, p, start, end)
	if err != nil {
		return models.Totals{}, err
	}
	expenses, err := s.TotalExpenses(ctx, p, start, end)
	if err != nil {
		return models.Totals{}, err
	}
	return models.NewTotals(income, expenses), nil
}

func (s *TransactionService) ExpensesByCategory(ctx context.Context, p models.Principal, start, end time.Time) (models.CategoryBreakdown, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	key := s.cache.Key(p.UserID, "by-category", start.Format(models.DateLayout), end.Format(models.DateLayout))
	return db.Cached(s.cache, key, func() (models.CategoryBreakdown, error) {
		rows, err := s.store.ExpensesByCategory(ctx, p.UserID, start, end, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
		}
		return models.CategoryBreakdown(rows), nil
	})
}

func (s *TransactionService) Count(ctx context.Context, p models.Principal) (int64, error) {
	return db.Cached(s.cache, s.cache.Key(p.UserID, "count"), func() (int64, error) {
		return s.store.CountTransactions(ctx, p.UserID)
	})
}

// ExportRange returns every active transaction in the range, oldest first.
func (s *TransactionService) ExportRange(ctx context.Context, p models.Principal, start, end time.Time) ([]models.Transaction, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	filter := models.TransactionFilter{ActiveOnly: true, StartDate: &start, EndDate: &end}
	var out []models.Transaction
	req := models.PageRequest{Size: 500, SortBy: models.SortByTransactionDate, SortDir: models.SortAsc}
	for {
		txns, total, err := s.store.ListTransactions(ctx, p.UserID, filter, req)
		if err != nil {
			return nil, fmt.Errorf("failed to export transactions: %w", err)
		}
		out = append(out, txns...)
		if len(txns) == 0 || int64(len(out)) >= total {
			return out, nil
		}
		req.Page++
	}
}
