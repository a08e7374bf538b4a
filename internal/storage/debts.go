package storage

import (
	"context"
	"fmt"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/model"
)

// ListDebts returns the user's open debts, oldest first.
func (s *SQLiteStorage) ListDebts(ctx context.Context, telegramID int64) ([]model.Debt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(telegramID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_telegram_id, person, direction, amount, settled, created_at
		 FROM debts WHERE user_telegram_id = ? AND settled = 0 ORDER BY created_at, id`,
		telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Debt
	for rows.Next() {
		var d model.Debt
		if err := rows.Scan(&d.ID, &d.UserID, &d.Person, &d.Direction, &d.Amount, &d.Settled, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AddDebt records a new borrowed/lent entry outside the commit path.
func (s *SQLiteStorage) AddDebt(ctx context.Context, debt model.Debt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDebt(&debt); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (user_telegram_id, person, direction, amount) VALUES (?, ?, ?, ?)`,
		debt.UserID, debt.Person, debt.Direction, debt.Amount)
	if err != nil {
		return fmt.Errorf("failed to add debt: %w", err)
	}
	return nil
}

// SettleDebt marks one debt closed. Settling is recorded without moving the
// balance; the user enters the actual repayment as a normal transaction.
func (s *SQLiteStorage) SettleDebt(ctx context.Context, telegramID, debtID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUserID(telegramID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE debts SET settled = 1 WHERE id = ? AND user_telegram_id = ? AND settled = 0`,
		debtID, telegramID)
	if err != nil {
		return fmt.Errorf("failed to settle debt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("debt %d: %w", debtID, common.ErrNotFound)
	}
	return nil
}
