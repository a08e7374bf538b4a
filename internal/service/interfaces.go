// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/hamyonapp/hamyon/internal/model"
)

// Committer is the single persistence seam the draft engine depends on.
// CommitTransaction is safe to retry: committing the same draft id twice
// records the transaction exactly once and reports the repeat via
// CommitReceipt.Duplicate.
type Committer interface {
	CommitTransaction(ctx context.Context, tx model.Transaction) (CommitReceipt, error)
}

// CommitReceipt reports the outcome of a commit.
type CommitReceipt struct {
	// TransactionID is the ledger row id, or the debt row id for debt
	// commits.
	TransactionID int64
	// Balance is the user's balance after the commit. Debt commits leave it
	// unchanged.
	Balance int64
	// Duplicate is true when the draft id had already been recorded and the
	// call changed nothing.
	Duplicate bool
}

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	Since *time.Time
	Limit int
}

// PeriodStats aggregates one user's activity over a reporting period.
// Expense figures are positive values.
type PeriodStats struct {
	ByCategory map[string]int64
	Expenses   int64
	Income     int64
	Count      int
	Days       int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	Committer

	// User operations
	GetOrCreateUser(ctx context.Context, telegramID int64, name string) (*model.User, error)
	GetUser(ctx context.Context, telegramID int64) (*model.User, error)
	SetLanguage(ctx context.Context, telegramID int64, lang model.Language) error
	GetBalance(ctx context.Context, telegramID int64) (int64, error)

	// Transaction queries
	ListTransactions(ctx context.Context, telegramID int64, filter TransactionFilter) ([]model.Transaction, error)

	// Statistics
	TodayStats(ctx context.Context, telegramID int64) (*PeriodStats, error)
	PeriodStats(ctx context.Context, telegramID int64, days int) (*PeriodStats, error)
	CategorySpentThisMonth(ctx context.Context, telegramID int64, category string) (int64, error)

	// Limits
	GetLimit(ctx context.Context, telegramID int64, category string) (*model.Limit, error)
	SetLimit(ctx context.Context, limit model.Limit) error

	// Goals
	ListGoals(ctx context.Context, telegramID int64) ([]model.Goal, error)
	AddGoal(ctx context.Context, goal model.Goal) error

	// Debts
	ListDebts(ctx context.Context, telegramID int64) ([]model.Debt, error)
	AddDebt(ctx context.Context, debt model.Debt) error
	SettleDebt(ctx context.Context, telegramID, debtID int64) error

	// Database management
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
