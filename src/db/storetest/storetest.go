// Package storetest holds behaviour checks shared by every services.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Suite runs against a fresh, empty store per test.
type Suite struct {
	suite.Suite

	// Open returns an empty store.
	Open func(t *testing.T) services.Store

	ctx   context.Context
	store services.Store
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.Open(s.T())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *Suite) user(name string) *models.User {
	u, err := s.store.CreateUser(s.ctx, &models.User{
		Username:     name,
		Email:        name + "@example.com",
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: []byte("hash"),
	})
	s.Require().NoError(err)
	return u
}

func (s *Suite) category(userID int64, name string) *models.Category {
	c, err := s.store.CreateCategory(s.ctx, &models.Category{
		UserID: userID,
		Name:   name,
		Color:  models.DefaultCategoryColor,
		Icon:   models.DefaultCategoryIcon,
	})
	s.Require().NoError(err)
	return c
}

func (s *Suite) txn(userID, categoryID int64, amount string, t models.TransactionType, date time.Time) *models.Transaction {
	created, err := s.store.CreateTransaction(s.ctx, &models.Transaction{
		UserID:          userID,
		CategoryID:      categoryID,
		Amount:          dec(amount),
		Description:     "entry",
		TransactionDate: date,
		TransactionType: t,
		PaymentMethod:   models.PaymentMethodCard,
	})
	s.Require().NoError(err)
	return created
}

func (s *Suite) TestUsers() {
	u := s.user("Alice")
	s.NotZero(u.ID)
	s.True(u.Active)
	s.Nil(u.LastLogin)
	s.Equal([]byte("hash"), u.PasswordHash)

	byName, err := s.store.GetUserByLogin(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(u.ID, byName.ID)

	byEmail, err := s.store.GetUserByLogin(s.ctx, "ALICE@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)

	_, err = s.store.CreateUser(s.ctx, &models.User{Username: "ALICE", Email: "other@example.com", PasswordHash: []byte("x")})
	s.ErrorIs(err, models.ErrDuplicateRecord)

	_, err = s.store.GetUserByID(s.ctx, u.ID+1000)
	s.ErrorIs(err, models.ErrRecordNotFound)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.UpdateLastLogin(s.ctx, u.ID, at))
	reloaded, err := s.store.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().NotNil(reloaded.LastLogin)
	s.True(at.Equal(*reloaded.LastLogin))
}

func (s *Suite) TestSessions() {
	u := s.user("bob")
	now := time.Now().UTC().Truncate(time.Second)

	_, err := s.store.CreateSession(s.ctx, &models.UserSession{UserID: u.ID, JWTToken: "live", ExpiresAt: now.Add(time.Hour), IPAddress: "10.0.0.1", UserAgent: "test"})
	s.Require().NoError(err)
	_, err = s.store.CreateSession(s.ctx, &models.UserSession{UserID: u.ID, JWTToken: "old", ExpiresAt: now.Add(-time.Hour)})
	s.Require().NoError(err)
	_, err = s.store.CreateSession(s.ctx, &models.UserSession{UserID: u.ID, JWTToken: "other", ExpiresAt: now.Add(time.Hour)})
	s.Require().NoError(err)

	live, err := s.store.GetActiveSession(s.ctx, "live", now)
	s.Require().NoError(err)
	s.Equal("10.0.0.1", live.IPAddress)
	s.True(live.IsValid(now))

	_, err = s.store.GetActiveSession(s.ctx, "old", now)
	s.ErrorIs(err, models.ErrRecordNotFound)

	s.Require().NoError(s.store.InvalidateSession(s.ctx, "live"))
	_, err = s.store.GetActiveSession(s.ctx, "live", now)
	s.ErrorIs(err, models.ErrRecordNotFound)
	s.ErrorIs(s.store.InvalidateSession(s.ctx, "live"), models.ErrRecordNotFound)

	n, err := s.store.InvalidateUserSessions(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), n, "old and other were still flagged active")

	n, err = s.store.DeleteExpiredSessions(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *Suite) TestCategories() {
	alice := s.user("alice")
	bob := s.user("bob")

	food := s.category(alice.ID, "Food")
	s.category(alice.ID, "Bills")
	s.True(food.Active)
	s.False(food.IsDefault)

	_, err := s.store.CreateCategory(s.ctx, &models.Category{UserID: alice.ID, Name: "food"})
	s.ErrorIs(err, models.ErrDuplicateRecord)

	s.category(bob.ID, "Food")

	_, err = s.store.GetCategory(s.ctx, bob.ID, food.ID)
	s.ErrorIs(err, models.ErrRecordNotFound)

	list, err := s.store.ListCategories(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Bills", list[0].Name)
	s.Equal("Food", list[1].Name)

	n, err := s.store.CountCategories(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), n)
}

func (s *Suite) TestTransactionRoundTrip() {
	u := s.user("alice")
	food := s.category(u.ID, "Food")

	created := s.txn(u.ID, food.ID, "-12.34", models.TransactionTypeExpense, day(2024, 3, 9))
	s.True(dec("-12.34").Equal(created.Amount))
	s.Equal("Food", created.CategoryName)
	s.Equal(day(2024, 3, 9), created.TransactionDate.UTC())
	s.True(created.Active)

	created.Description = "groceries"
	created.Amount = dec("99.90")
	created.TransactionType = models.TransactionTypeIncome
	created.Active = false
	updated, err := s.store.UpdateTransaction(s.ctx, created)
	s.Require().NoError(err)
	s.Equal("groceries", updated.Description)
	s.True(dec("99.90").Equal(updated.Amount))
	s.False(updated.Active)

	got, err := s.store.GetTransaction(s.ctx, u.ID, created.ID)
	s.Require().NoError(err, "inactive rows stay reachable by id")
	s.False(got.Active)

	other := s.user("bob")
	_, err = s.store.GetTransaction(s.ctx, other.ID, created.ID)
	s.ErrorIs(err, models.ErrRecordNotFound)

	created.UserID = other.ID
	_, err = s.store.UpdateTransaction(s.ctx, created)
	s.ErrorIs(err, models.ErrRecordNotFound)
}

func (s *Suite) TestListTransactions() {
	u := s.user("alice")
	food := s.category(u.ID, "Food")
	rent := s.category(u.ID, "Rent")

	a := s.txn(u.ID, food.ID, "-10.00", models.TransactionTypeExpense, day(2024, 1, 5))
	b := s.txn(u.ID, rent.ID, "-500.00", models.TransactionTypeExpense, day(2024, 1, 20))
	c := s.txn(u.ID, food.ID, "1000.00", models.TransactionTypeIncome, day(2024, 2, 1))
	deleted := s.txn(u.ID, food.ID, "-7.00", models.TransactionTypeExpense, day(2024, 1, 10))
	deleted.Active = false
	_, err := s.store.UpdateTransaction(s.ctx, deleted)
	s.Require().NoError(err)

	active := models.TransactionFilter{ActiveOnly: true}
	page, total, err := s.store.ListTransactions(s.ctx, u.ID, active, models.PageRequest{Page: 0, Size: 2, SortBy: models.SortByTransactionDate, SortDir: models.SortDesc})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(page, 2)
	s.Equal(c.ID, page[0].ID)
	s.Equal(b.ID, page[1].ID)

	page, _, err = s.store.ListTransactions(s.ctx, u.ID, active, models.PageRequest{Page: 1, Size: 2, SortBy: models.SortByTransactionDate, SortDir: models.SortDesc})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(a.ID, page[0].ID)

	page, _, err = s.store.ListTransactions(s.ctx, u.ID, active, models.PageRequest{Page: 0, Size: 10, SortBy: "amount", SortDir: models.SortAsc})
	s.Require().NoError(err)
	s.Equal([]int64{b.ID, a.ID, c.ID}, ids(page))

	start, end := day(2024, 1, 5), day(2024, 1, 20)
	page, total, err = s.store.ListTransactions(s.ctx, u.ID, models.TransactionFilter{ActiveOnly: true, StartDate: &start, EndDate: &end}, models.PageRequest{Size: 10, SortBy: models.SortByTransactionDate, SortDir: models.SortAsc})
	s.Require().NoError(err)
	s.Equal(int64(2), total, "both bounds are inclusive")
	s.Equal([]int64{a.ID, b.ID}, ids(page))

	page, total, err = s.store.ListTransactions(s.ctx, u.ID, models.TransactionFilter{ActiveOnly: true, CategoryID: &food.ID}, models.PageRequest{Size: 10, SortBy: models.SortByTransactionDate})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal([]int64{c.ID, a.ID}, ids(page))

	n, err := s.store.CountTransactions(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), n)
}

func (s *Suite) TestRecentTransactions() {
	u := s.user("alice")
	food := s.category(u.ID, "Food")

	first := s.txn(u.ID, food.ID, "-1.00", models.TransactionTypeExpense, day(2024, 1, 1))
	second := s.txn(u.ID, food.ID, "-2.00", models.TransactionTypeExpense, day(2024, 1, 3))
	third := s.txn(u.ID, food.ID, "-3.00", models.TransactionTypeExpense, day(2024, 1, 3))

	recent, err := s.store.RecentTransactions(s.ctx, u.ID, 2)
	s.Require().NoError(err)
	s.Equal([]int64{third.ID, second.ID}, ids(recent))

	recent, err = s.store.RecentTransactions(s.ctx, u.ID, 10)
	s.Require().NoError(err)
	s.Equal([]int64{third.ID, second.ID, first.ID}, ids(recent))
}

func (s *Suite) TestAggregates() {
	u := s.user("alice")
	other := s.user("bob")
	food := s.category(u.ID, "Food")
	rent := s.category(u.ID, "Rent")
	otherFood := s.category(other.ID, "Food")

	s.txn(u.ID, food.ID, "1000.00", models.TransactionTypeIncome, day(2024, 1, 1))
	s.txn(u.ID, food.ID, "-50.00", models.TransactionTypeExpense, day(2024, 1, 31))
	s.txn(u.ID, food.ID, "-25.25", models.TransactionTypeExpense, day(2024, 1, 15))
	s.txn(u.ID, rent.ID, "-900.00", models.TransactionTypeExpense, day(2024, 1, 2))
	s.txn(u.ID, rent.ID, "-1.00", models.TransactionTypeExpense, day(2024, 2, 1))
	s.txn(other.ID, otherFood.ID, "-999.00", models.TransactionTypeExpense, day(2024, 1, 10))
	gone := s.txn(u.ID, food.ID, "-300.00", models.TransactionTypeExpense, day(2024, 1, 10))
	gone.Active = false
	_, err := s.store.UpdateTransaction(s.ctx, gone)
	s.Require().NoError(err)

	start, end := day(2024, 1, 1), day(2024, 1, 31)
	income, err := s.store.SumTransactions(s.ctx, u.ID, models.TransactionTypeIncome, start, end)
	s.Require().NoError(err)
	s.True(dec("1000").Equal(income), income.String())

	expenses, err := s.store.SumTransactions(s.ctx, u.ID, models.TransactionTypeExpense, start, end)
	s.Require().NoError(err)
	s.True(dec("975.25").Equal(expenses), expenses.String())

	breakdown, err := s.store.ExpensesByCategory(s.ctx, u.ID, start, end, nil)
	s.Require().NoError(err)
	s.Require().Len(breakdown, 2)
	s.Equal("Rent", breakdown[0].CategoryName)
	s.True(dec("900").Equal(breakdown[0].Amount))
	s.Equal("Food", breakdown[1].CategoryName)
	s.True(dec("75.25").Equal(breakdown[1].Amount))

	only, err := s.store.ExpensesByCategory(s.ctx, u.ID, start, end, &food.ID)
	s.Require().NoError(err)
	s.Require().Len(only, 1)
	s.Equal(food.ID, only[0].CategoryID)

	empty, err := s.store.ExpensesByCategory(s.ctx, u.ID, day(2023, 1, 1), day(2023, 1, 31), nil)
	s.Require().NoError(err)
	s.Empty(empty)

	zero, err := s.store.SumTransactions(s.ctx, u.ID, models.TransactionTypeIncome, day(2023, 1, 1), day(2023, 1, 31))
	s.Require().NoError(err)
	s.True(zero.IsZero())
}

func (s *Suite) TestBudgets() {
	u := s.user("alice")
	food := s.category(u.ID, "Food")
	rent := s.category(u.ID, "Rent")

	b, err := s.store.CreateBudget(s.ctx, &models.Budget{
		UserID: u.ID, CategoryID: food.ID, LimitAmount: dec("200"), SpentAmount: dec("12.50"),
		Month: 3, Year: 2024, AlertEnabled: true, AlertThreshold: models.DefaultAlertThreshold,
	})
	s.Require().NoError(err)
	s.Equal("Food", b.CategoryName)
	s.True(b.Active)
	s.True(dec("12.50").Equal(b.SpentAmount))
	s.True(dec("80").Equal(b.AlertThreshold))

	_, err = s.store.CreateBudget(s.ctx, &models.Budget{UserID: u.ID, CategoryID: food.ID, LimitAmount: dec("1"), Month: 3, Year: 2024, AlertThreshold: dec("50")})
	s.ErrorIs(err, models.ErrDuplicateRecord)

	found, err := s.store.GetBudgetForPeriod(s.ctx, u.ID, food.ID, 3, 2024)
	s.Require().NoError(err)
	s.Equal(b.ID, found.ID)
	_, err = s.store.GetBudgetForPeriod(s.ctx, u.ID, food.ID, 4, 2024)
	s.ErrorIs(err, models.ErrRecordNotFound)

	_, err = s.store.CreateBudget(s.ctx, &models.Budget{UserID: u.ID, CategoryID: rent.ID, LimitAmount: dec("900"), Month: 4, Year: 2024, AlertThreshold: dec("90")})
	s.Require().NoError(err)

	march := 3
	list, err := s.store.ListBudgets(s.ctx, u.ID, &march, nil)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(b.ID, list[0].ID)

	all, err := s.store.ListBudgets(s.ctx, u.ID, nil, nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	b.SpentAmount = dec("150.75")
	b.Active = false
	updated, err := s.store.UpdateBudget(s.ctx, b)
	s.Require().NoError(err)
	s.True(dec("150.75").Equal(updated.SpentAmount))
	s.False(updated.Active)

	_, err = s.store.GetBudgetForPeriod(s.ctx, u.ID, food.ID, 3, 2024)
	s.ErrorIs(err, models.ErrRecordNotFound)

	_, err = s.store.CreateBudget(s.ctx, &models.Budget{UserID: u.ID, CategoryID: food.ID, LimitAmount: dec("300"), Month: 3, Year: 2024, AlertThreshold: dec("80")})
	s.NoError(err, "an inactive budget frees its period")
}

func (s *Suite) TestWithinTxRollsBack() {
	u := s.user("alice")
	boom := errors.New("boom")

	err := s.store.WithinTx(s.ctx, func(tx services.Store) error {
		if _, err := tx.CreateCategory(s.ctx, &models.Category{UserID: u.ID, Name: "Temp"}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	n, err := s.store.CountCategories(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Zero(n)

	err = s.store.WithinTx(s.ctx, func(tx services.Store) error {
		_, err := tx.CreateCategory(s.ctx, &models.Category{UserID: u.ID, Name: "Kept"})
		return err
	})
	s.Require().NoError(err)

	n, err = s.store.CountCategories(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func ids(txns []models.Transaction) []int64 {
	out := make([]int64, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}
