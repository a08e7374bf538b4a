package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "hamyon.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTx(draftID string, userID, amount int64) model.Transaction {
	return model.Transaction{
		DraftID:  draftID,
		UserID:   userID,
		Type:     model.TxExpense,
		Category: "food",
		Amount:   amount,
		Source:   model.SourceText,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestGetOrCreateUser(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	user, err := store.GetOrCreateUser(ctx, 100, "Aziz")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.TelegramID)
	assert.Equal(t, "Aziz", user.Name)
	assert.Equal(t, model.LangUz, user.Language)
	assert.Equal(t, int64(0), user.Balance)

	// Second call returns the existing row untouched.
	again, err := store.GetOrCreateUser(ctx, 100, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Aziz", again.Name)
}

func TestGetUserNotFound(t *testing.T) {
	store := newTestStorage(t)
	_, err := store.GetUser(context.Background(), 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetLanguage(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.GetOrCreateUser(ctx, 100, "Aziz")
	require.NoError(t, err)

	require.NoError(t, store.SetLanguage(ctx, 100, model.LangRu))
	user, err := store.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, model.LangRu, user.Language)

	assert.Error(t, store.SetLanguage(ctx, 100, "de"))
	assert.ErrorIs(t, store.SetLanguage(ctx, 999, model.LangEn), common.ErrNotFound)
}

func TestCommitTransaction(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	t.Run("expense moves balance down", func(t *testing.T) {
		receipt, err := store.CommitTransaction(ctx, testTx("d-exp", 100, -20000))
		require.NoError(t, err)
		assert.False(t, receipt.Duplicate)
		assert.NotZero(t, receipt.TransactionID)
		assert.Equal(t, int64(-20000), receipt.Balance)
	})

	t.Run("income moves balance up", func(t *testing.T) {
		tx := testTx("d-inc", 100, 5_000_000)
		tx.Type = model.TxIncome
		tx.Category = "salary"
		receipt, err := store.CommitTransaction(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, int64(4_980_000), receipt.Balance)
	})

	t.Run("repeat draft id is a duplicate, not a second row", func(t *testing.T) {
		first, err := store.CommitTransaction(ctx, testTx("d-dup", 100, -1000))
		require.NoError(t, err)
		balanceBefore := first.Balance

		second, err := store.CommitTransaction(ctx, testTx("d-dup", 100, -1000))
		require.NoError(t, err)
		assert.True(t, second.Duplicate)
		assert.Equal(t, first.TransactionID, second.TransactionID)
		assert.Equal(t, balanceBefore, second.Balance)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		_, err := store.CommitTransaction(ctx, model.Transaction{UserID: 100})
		assert.ErrorIs(t, err, ErrInvalidTransaction)

		zero := testTx("d-zero", 100, 0)
		_, err = store.CommitTransaction(ctx, zero)
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})
}

func TestCommitDebtRouting(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.GetOrCreateUser(ctx, 100, "Aziz")
	require.NoError(t, err)

	tx := model.Transaction{
		DraftID:     "d-debt",
		UserID:      100,
		Type:        model.TxDebt,
		Category:    "debt",
		Description: "Karim",
		Amount:      300_000,
		Source:      model.SourceText,
	}
	receipt, err := store.CommitTransaction(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), receipt.Balance, "debts must not move the balance")

	debts, err := store.ListDebts(ctx, 100)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "Karim", debts[0].Person)
	assert.Equal(t, model.DebtBorrowed, debts[0].Direction)
	assert.Equal(t, int64(300_000), debts[0].Amount)

	// Nothing in the ledger.
	txs, err := store.ListTransactions(ctx, 100, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)

	// Retried debt commit is also idempotent.
	again, err := store.CommitTransaction(ctx, tx)
	require.NoError(t, err)
	assert.True(t, again.Duplicate)
	debts, err = store.ListDebts(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, debts, 1)
}

func TestDebtDirection(t *testing.T) {
	assert.Equal(t, model.DebtBorrowed, debtDirection("Karim"))
	assert.Equal(t, model.DebtLent, debtDirection("Karimga berdim"))
	assert.Equal(t, model.DebtLent, debtDirection("дал Кариму"))
	assert.Equal(t, model.DebtLent, debtDirection("lent to Karim"))
}

func TestListTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i, draft := range []string{"a", "b", "c"} {
		tx := testTx(draft, 100, -int64(1000*(i+1)))
		tx.Date = time.Now().Add(time.Duration(i) * time.Second)
		_, err := store.CommitTransaction(ctx, tx)
		require.NoError(t, err)
	}

	txs, err := store.ListTransactions(ctx, 100, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "c", txs[0].DraftID, "newest first")

	limited, err := store.ListTransactions(ctx, 100, service.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	since := time.Now().Add(-time.Minute)
	recent, err := store.ListTransactions(ctx, 100, service.TransactionFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	future := time.Now().Add(time.Hour)
	none, err := store.ListTransactions(ctx, 100, service.TransactionFilter{Since: &future})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitTransaction(ctx, testTx("s1", 100, -20000))
	require.NoError(t, err)
	_, err = store.CommitTransaction(ctx, testTx("s2", 100, -45000))
	require.NoError(t, err)

	income := testTx("s3", 100, 1_000_000)
	income.Type = model.TxIncome
	income.Category = "salary"
	_, err = store.CommitTransaction(ctx, income)
	require.NoError(t, err)

	taxi := testTx("s4", 100, -15000)
	taxi.Category = "transport"
	_, err = store.CommitTransaction(ctx, taxi)
	require.NoError(t, err)

	today, err := store.TodayStats(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), today.Expenses)
	assert.Equal(t, int64(1_000_000), today.Income)
	assert.Equal(t, 4, today.Count)
	assert.Equal(t, int64(65000), today.ByCategory["food"])
	assert.Equal(t, int64(15000), today.ByCategory["transport"])

	week, err := store.PeriodStats(ctx, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, week.Days)
	assert.Equal(t, today.Expenses, week.Expenses)

	spent, err := store.CategorySpentThisMonth(ctx, 100, "food")
	require.NoError(t, err)
	assert.Equal(t, int64(65000), spent)

	_, err = store.PeriodStats(ctx, 100, 0)
	assert.Error(t, err)
}

func TestLimits(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.GetLimit(ctx, 100, "food")
	assert.ErrorIs(t, err, common.ErrNotFound)

	limit := model.Limit{UserID: 100, Category: "food", Monthly: 500_000, AlertPercent: 90}
	require.NoError(t, store.SetLimit(ctx, limit))

	got, err := store.GetLimit(ctx, 100, "food")
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), got.Monthly)

	// Upsert replaces the cap.
	limit.Monthly = 700_000
	require.NoError(t, store.SetLimit(ctx, limit))
	got, err = store.GetLimit(ctx, 100, "food")
	require.NoError(t, err)
	assert.Equal(t, int64(700_000), got.Monthly)

	assert.ErrorIs(t, store.SetLimit(ctx, model.Limit{UserID: 100, Category: "food"}), ErrInvalidLimit)
}

func TestGoals(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	goals, err := store.ListGoals(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, goals)

	require.NoError(t, store.AddGoal(ctx, model.Goal{UserID: 100, Name: "Laptop", Target: 12_000_000, Saved: 3_000_000}))

	goals, err = store.ListGoals(ctx, 100)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Laptop", goals[0].Name)
	assert.Equal(t, int64(25), goals[0].Progress())

	assert.ErrorIs(t, store.AddGoal(ctx, model.Goal{UserID: 100, Name: " ", Target: 5}), ErrInvalidGoal)
}

func TestSettleDebt(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.AddDebt(ctx, model.Debt{
		UserID: 100, Person: "Karim", Direction: model.DebtBorrowed, Amount: 300_000,
	}))

	debts, err := store.ListDebts(ctx, 100)
	require.NoError(t, err)
	require.Len(t, debts, 1)

	debtID := debts[0].ID
	require.NoError(t, store.SettleDebt(ctx, 100, debtID))

	debts, err = store.ListDebts(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, debts)

	// Settling twice, or someone else's debt, is not found.
	assert.ErrorIs(t, store.SettleDebt(ctx, 100, debtID), common.ErrNotFound)
	assert.ErrorIs(t, store.SettleDebt(ctx, 200, debtID), common.ErrNotFound)
}

func TestUsersIsolated(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitTransaction(ctx, testTx("u1", 100, -1000))
	require.NoError(t, err)
	_, err = store.CommitTransaction(ctx, testTx("u2", 200, -2000))
	require.NoError(t, err)

	b1, err := store.GetBalance(ctx, 100)
	require.NoError(t, err)
	b2, err := store.GetBalance(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), b1)
	assert.Equal(t, int64(-2000), b2)

	txs, err := store.ListTransactions(ctx, 100, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "u1", txs[0].DraftID)
}

func TestValidationGuards(t *testing.T) {
	store := newTestStorage(t)

	var nilCtx context.Context
	_, err := store.GetUser(nilCtx, 100)
	assert.ErrorIs(t, err, ErrNilContext)

	_, err = store.GetUser(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = store.CategorySpentThisMonth(context.Background(), 100, " ")
	assert.True(t, errors.Is(err, ErrEmptyString))
}
