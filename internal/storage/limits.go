package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/model"
)

// GetLimit returns the user's limit for one category, or common.ErrNotFound.
func (s *SQLiteStorage) GetLimit(ctx context.Context, telegramID int64, category string) (*model.Limit, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(telegramID); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	var limit model.Limit
	err := s.db.QueryRowContext(ctx,
		`SELECT user_telegram_id, category, monthly, alert_percent
		 FROM limits WHERE user_telegram_id = ? AND category = ?`,
		telegramID, category).Scan(&limit.UserID, &limit.Category, &limit.Monthly, &limit.AlertPercent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("limit for %q: %w", category, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get limit: %w", err)
	}
	return &limit, nil
}

// SetLimit inserts or replaces a category limit.
func (s *SQLiteStorage) SetLimit(ctx context.Context, limit model.Limit) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLimit(&limit); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO limits (user_telegram_id, category, monthly, alert_percent)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_telegram_id, category)
		 DO UPDATE SET monthly = excluded.monthly, alert_percent = excluded.alert_percent`,
		limit.UserID, limit.Category, limit.Monthly, limit.AlertPercent)
	if err != nil {
		return fmt.Errorf("failed to set limit: %w", err)
	}
	return nil
}
