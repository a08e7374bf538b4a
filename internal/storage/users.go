package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/model"
)

// GetOrCreateUser returns the user row for a telegram id, inserting it with
// defaults on first contact.
func (s *SQLiteStorage) GetOrCreateUser(ctx context.Context, telegramID int64, name string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(telegramID); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (telegram_id, name) VALUES (?, ?)`,
		telegramID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUser(ctx, telegramID)
}

// GetUser returns one user row, or common.ErrNotFound.
func (s *SQLiteStorage) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(telegramID); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT telegram_id, name, language, balance, created_at
		 FROM users WHERE telegram_id = ?`,
		telegramID).Scan(&user.TelegramID, &user.Name, &user.Language, &user.Balance, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", telegramID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SetLanguage updates the user's UI language.
func (s *SQLiteStorage) SetLanguage(ctx context.Context, telegramID int64, lang model.Language) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUserID(telegramID); err != nil {
		return err
	}
	if !lang.Valid() {
		return fmt.Errorf("invalid language %q", lang)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET language = ? WHERE telegram_id = ?`, lang, telegramID)
	if err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", telegramID, common.ErrNotFound)
	}
	return nil
}

// GetBalance returns the user's running balance.
func (s *SQLiteStorage) GetBalance(ctx context.Context, telegramID int64) (int64, error) {
	user, err := s.GetUser(ctx, telegramID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}
