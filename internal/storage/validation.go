package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hamyonapp/hamyon/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidUserID      = errors.New("telegram id must be positive")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidLimit       = errors.New("invalid limit")
	ErrInvalidGoal        = errors.New("invalid goal")
	ErrInvalidDebt        = errors.New("invalid debt")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateUserID ensures a telegram id is usable as a key.
func validateUserID(telegramID int64) error {
	if telegramID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUserID, telegramID)
	}
	return nil
}

// validateTransaction validates a transaction handed to CommitTransaction.
func validateTransaction(tx *model.Transaction) error {
	if tx.DraftID == "" {
		return fmt.Errorf("%w: missing draft id", ErrInvalidTransaction)
	}
	if err := validateUserID(tx.UserID); err != nil {
		return err
	}
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, tx.Type)
	}
	if tx.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	if tx.Amount == 0 {
		return fmt.Errorf("%w: zero amount", ErrInvalidTransaction)
	}
	return nil
}

// validateLimit validates a spending limit.
func validateLimit(limit *model.Limit) error {
	if err := validateUserID(limit.UserID); err != nil {
		return err
	}
	if limit.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidLimit)
	}
	if limit.Monthly <= 0 {
		return fmt.Errorf("%w: monthly cap must be positive", ErrInvalidLimit)
	}
	if limit.AlertPercent < 0 || limit.AlertPercent > 100 {
		return fmt.Errorf("%w: alert percent must be 0-100", ErrInvalidLimit)
	}
	return nil
}

// validateGoal validates a savings goal.
func validateGoal(goal *model.Goal) error {
	if err := validateUserID(goal.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(goal.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidGoal)
	}
	if goal.Target <= 0 {
		return fmt.Errorf("%w: target must be positive", ErrInvalidGoal)
	}
	return nil
}

// validateDebt validates a debt record.
func validateDebt(debt *model.Debt) error {
	if err := validateUserID(debt.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(debt.Person) == "" {
		return fmt.Errorf("%w: missing person", ErrInvalidDebt)
	}
	if debt.Direction != model.DebtBorrowed && debt.Direction != model.DebtLent {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidDebt, debt.Direction)
	}
	if debt.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidDebt)
	}
	return nil
}
