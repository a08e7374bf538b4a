package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/service"
)

// CommitTransaction records one confirmed draft. The draft id is unique in
// both destination tables, so retrying a commit after a transient failure
// can never record the money twice: the repeat is acknowledged through
// CommitReceipt.Duplicate. Expense and income rows move the user's balance;
// debt rows go to the debts table and leave the balance alone.
func (s *SQLiteStorage) CommitTransaction(ctx context.Context, rec model.Transaction) (service.CommitReceipt, error) {
	if err := validateContext(ctx); err != nil {
		return service.CommitReceipt{}, err
	}
	if err := validateTransaction(&rec); err != nil {
		return service.CommitReceipt{}, err
	}

	date := rec.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// First contact may arrive through the API before /start ever ran.
	if _, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (telegram_id) VALUES (?)`, rec.UserID); err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to ensure user: %w", err)
	}

	var receipt service.CommitReceipt
	if rec.Type == model.TxDebt {
		receipt, err = s.commitDebtTx(ctx, tx, rec, date)
	} else {
		receipt, err = s.commitLedgerTx(ctx, tx, rec, date)
	}
	if err != nil {
		return service.CommitReceipt{}, err
	}

	if err = tx.QueryRowContext(ctx,
		`SELECT balance FROM users WHERE telegram_id = ?`, rec.UserID).Scan(&receipt.Balance); err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to read balance: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to commit: %w", err)
	}
	return receipt, nil
}

func (s *SQLiteStorage) commitLedgerTx(ctx context.Context, tx execQuerier, rec model.Transaction, date time.Time) (service.CommitReceipt, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO transactions
			(draft_id, user_telegram_id, type, category, description, amount, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.DraftID, rec.UserID, rec.Type, rec.Category, rec.Description, rec.Amount, rec.Source, date)
	if err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to check insert: %w", err)
	}

	var receipt service.CommitReceipt
	if n == 0 {
		// Retried commit: the row already landed, nothing moves again.
		receipt.Duplicate = true
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM transactions WHERE draft_id = ?`, rec.DraftID).Scan(&receipt.TransactionID)
		if err != nil {
			return service.CommitReceipt{}, fmt.Errorf("failed to find duplicate: %w", err)
		}
		return receipt, nil
	}

	err = tx.QueryRowContext(ctx,
		`SELECT id FROM transactions WHERE draft_id = ?`, rec.DraftID).Scan(&receipt.TransactionID)
	if err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to read transaction id: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + ? WHERE telegram_id = ?`,
		rec.Amount, rec.UserID); err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to update balance: %w", err)
	}
	return receipt, nil
}

func (s *SQLiteStorage) commitDebtTx(ctx context.Context, tx execQuerier, rec model.Transaction, date time.Time) (service.CommitReceipt, error) {
	person := strings.TrimSpace(rec.Description)
	if person == "" {
		person = "unknown"
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO debts
			(draft_id, user_telegram_id, person, direction, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.DraftID, rec.UserID, person, debtDirection(rec.Description), absAmount(rec.Amount), date)
	if err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to insert debt: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to check insert: %w", err)
	}

	var receipt service.CommitReceipt
	receipt.Duplicate = n == 0
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM debts WHERE draft_id = ?`, rec.DraftID).Scan(&receipt.TransactionID)
	if err != nil {
		return service.CommitReceipt{}, fmt.Errorf("failed to read debt id: %w", err)
	}
	return receipt, nil
}

// debtDirection reads the debt direction off the free-text description.
// "berdim"/"дал"/"lent" mean the user gave the money; everything else is
// recorded as borrowed, the far more common entry.
func debtDirection(description string) model.DebtDirection {
	lower := strings.ToLower(description)
	for _, marker := range []string{"berdim", "дал", "lent"} {
		if strings.Contains(lower, marker) {
			return model.DebtLent
		}
	}
	return model.DebtBorrowed
}

func absAmount(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// ListTransactions returns a user's ledger rows, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, telegramID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(telegramID); err != nil {
		return nil, err
	}

	query := `SELECT id, draft_id, user_telegram_id, type, category, description, amount, source, created_at
		FROM transactions WHERE user_telegram_id = ?`
	args := []any{telegramID}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.DraftID, &t.UserID, &t.Type, &t.Category,
			&t.Description, &t.Amount, &t.Source, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
